package auth

import (
	"context"
	"time"
)

// loginPopup - вход через провайдера во всплывающем окне.
// Окно открывается на адрес провайдера с анонимным токеном входа; закрытие окна
// опрашивается с интервалом poll, после чего токен обменивается на сессию.
func (m *Manager) loginPopup(ctx context.Context, provider string) error {
	if m.popups == nil {
		return ErrNoAuthMethod
	}

	token, err := m.api.NewLoginToken(ctx, true)
	if err != nil {
		return err
	}

	popup, err := m.popups.Open(ctx, m.api.OAuthURL(provider, token, m.host))
	if err != nil {
		return err
	}

	if err := waitClosed(ctx, popup, m.poll); err != nil {
		return err
	}

	resp, err := m.api.RedeemLoginToken(ctx, token, m.host)
	if err != nil {
		return err
	}

	return m.save(ctx, resp)
}

// waitClosed ждёт закрытия окна. При отмене контекста закрывает окно сам.
func waitClosed(ctx context.Context, p Popup, every time.Duration) error {
	if p.Closed() {
		return nil
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Close()
			return ctx.Err()
		case <-ticker.C:
			if p.Closed() {
				return nil
			}
		}
	}
}
