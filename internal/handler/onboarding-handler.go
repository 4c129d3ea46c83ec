package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
)

func (h *Handler) handleContact(ctx context.Context, s *session, ev domain.ContactEvent) {
	if ev.OwnerID != 0 && ev.OwnerID != s.in.UserID {
		h.render(ctx, s, textForeignContact, h.phoneKeyboard())
		return
	}
	if _, err := domain.NormalizeRUPhone(ev.Phone); err != nil {
		h.logger.Info("Rejected contact phone", zap.Int64("user_id", s.in.UserID), zap.Error(err))
		h.render(ctx, s, textInvalidPhone, h.phoneKeyboard())
		return
	}

	user, err := h.backend.SetPhone(ctx, s.in.Platform, s.in.UserID, ev.Phone, s.in.FullName)
	if err != nil {
		h.logger.Error("Failed to set phone", zap.Int64("user_id", s.in.UserID), zap.Error(err))
		h.render(ctx, s, fmt.Sprintf(textPhoneFailed, order.ErrorText(err, h.cfg.ErrorTextLimit)), h.phoneKeyboard())
		return
	}
	s.user = user

	h.logger.Info("Phone registered", zap.Int64("user_id", s.in.UserID))
	if !user.HasRole() {
		h.render(ctx, s, textPhoneAccepted, h.roleKeyboard())
		return
	}
	h.showMenu(ctx, s)
}

func (h *Handler) handleRoleCallback(ctx context.Context, s *session, ev domain.CallbackEvent) {
	role, ok := domain.ParseRole(ev.Data[len(cbRolePrefix):])
	if !ok {
		h.logger.Warn("Unknown role in callback", zap.String("data", ev.Data))
		h.render(ctx, s, textChooseRole, h.roleKeyboard())
		return
	}

	h.clearAwait(ctx, s)
	user, err := h.backend.SetRole(ctx, s.in.Platform, s.in.UserID, role)
	if err != nil {
		h.logger.Error("Failed to set role", zap.Int64("user_id", s.in.UserID), zap.Error(err))
		h.render(ctx, s, fmt.Sprintf(textRoleFailed, order.ErrorText(err, h.cfg.ErrorTextLimit)), h.roleKeyboard())
		return
	}
	if user == nil {
		user = s.user
	}
	if user != nil && user.Role == domain.RoleUnset {
		user.Role = role
	}
	s.user = user

	h.logger.Info("Role set", zap.Int64("user_id", s.in.UserID), zap.String("role", string(role)))
	h.render(ctx, s, fmt.Sprintf(textMenuReady, role.Label()), h.menuFor(role))
}

func (h *Handler) handleCommand(ctx context.Context, s *session, ev domain.CommandEvent) {
	switch ev.Name {
	case domain.CommandRole:
		h.clearAwait(ctx, s)
		h.render(ctx, s, textChooseNewRole, h.roleKeyboard())
	case domain.CommandMap:
		h.clearAwait(ctx, s)
		h.render(ctx, s, textOpenMap, h.openMapKeyboard())
	default:
		h.showMenu(ctx, s)
	}
}
