package handler

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

func (h *Handler) handleCallback(ctx context.Context, s *session, ev domain.CallbackEvent) {
	if strings.HasPrefix(ev.Data, cbRolePrefix) {
		h.handleRoleCallback(ctx, s, ev)
		return
	}

	switch ev.Data {
	case cbMenuMain:
		h.clearAwait(ctx, s)
		h.showMenu(ctx, s)

	case cbSwitchRole:
		h.clearAwait(ctx, s)
		h.render(ctx, s, textChooseNewRole, h.roleKeyboard())

	case cbOrder:
		h.clearAwait(ctx, s)
		if s.user.Role != domain.RoleClient {
			h.render(ctx, s, textOrderClientOnly, h.driverMenu())
			return
		}
		h.render(ctx, s, textOrderHow, h.orderMenu())

	case cbOrderText:
		if s.user.Role != domain.RoleClient {
			h.render(ctx, s, textTextOrderOnly, h.backToMenuKeyboard())
			return
		}
		h.setAwait(ctx, s, domain.AwaitOrderText)
		h.render(ctx, s, textOrderByText, h.backToMenuKeyboard())

	case cbDriverGeo:
		if s.user.Role != domain.RoleDriver {
			h.clearAwait(ctx, s)
			h.render(ctx, s, textDriverOnlyButton, h.roleKeyboard())
			return
		}
		h.setAwait(ctx, s, domain.AwaitGeo)
		h.render(ctx, s, textSendGeo, h.driverGeoKeyboard())

	case cbDriverReg:
		if s.user.Role != domain.RoleDriver {
			h.clearAwait(ctx, s)
			h.render(ctx, s, textDriverOnlyButton, h.roleKeyboard())
			return
		}
		if h.cfg.DriverRegLink == "" {
			h.clearAwait(ctx, s)
			h.render(ctx, s, textDriverRegMissing, h.backToMenuKeyboard())
			return
		}
		h.setAwait(ctx, s, domain.AwaitDriverRegistration)
		h.render(ctx, s, textDriverReg, h.driverRegKeyboard())

	default:
		h.logger.Debug("Unknown callback", zap.String("data", ev.Data), zap.Int64("user_id", s.in.UserID))
	}
}
