package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-comments-widget/pkg/log"
)

// loginFrame - неинтерактивный SSO: скрытый фрейм присылает типизированный результат,
// ожидание ограничено m.sso. Фрейм удаляется при любом исходе.
func (m *Manager) loginFrame(ctx context.Context) error {
	token, err := m.api.NewLoginToken(ctx, true)
	if err != nil {
		return err
	}

	frame, err := m.frames.Load(ctx, m.api.OAuthURL("sso", token, m.host))
	if err != nil {
		return err
	}
	defer frame.Remove()

	timer := time.NewTimer(m.sso)
	defer timer.Stop()

	msgs := frame.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrSSOTimeout
		case msg, ok := <-msgs:
			if !ok {
				return ErrSSOFailed
			}

			if msg.Type != SSOResultType {
				log.From(ctx).Debug("sso_message_ignored", slog.String("type", msg.Type))
				continue
			}

			if !msg.Success {
				if msg.Error != "" {
					return fmt.Errorf("%w: %s", ErrSSOFailed, msg.Error)
				}
				return ErrSSOFailed
			}

			resp, err := m.api.RedeemLoginToken(ctx, token, m.host)
			if err != nil {
				return err
			}

			return m.save(ctx, resp)
		}
	}
}
