package widget

import (
	"context"
	"log/slog"
	"time"
)

// Watch периодически перезагружает страницу, пока не отменён ctx.
// interval <= 0 выключает обновление. Ошибки перезагрузки пишутся в лог и
// показываются в панели сообщений, цикл продолжается. Выбранный зрителем порядок,
// свёрнутые ветки и открытый редактор с черновиком обновление не трогает.
func (w *Widget) Watch(ctx context.Context, interval time.Duration) {
	const op = "widget/watch/Watch"

	if interval <= 0 {
		return
	}

	ctx, lg := w.logCtx(ctx, op)
	lg.Info("live_update_started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("live_update_stopped")
			return
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil && ctx.Err() == nil {
				lg.Warn("reload_failed", slog.String("error", err.Error()))
			}
		}
	}
}

// refresh - фоновая перезагрузка: как Reload, но с порядком, выбранным зрителем.
func (w *Widget) refresh(ctx context.Context) error {
	if err := w.load(ctx, true); err != nil {
		return err
	}

	w.Render()
	return nil
}
