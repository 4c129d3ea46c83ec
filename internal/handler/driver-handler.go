package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
)

func (h *Handler) handleLocation(ctx context.Context, s *session, ev domain.LocationEvent) {
	if s.user.Role != domain.RoleDriver {
		h.render(ctx, s, textGeoDriversOnly, h.backToMenuKeyboard())
		return
	}

	// The platform id doubles as driver id until drivers are linked to dispatch accounts.
	loc := domain.DriverLocation{
		Platform:   s.in.Platform,
		DriverID:   s.in.UserID,
		ExternalID: s.in.UserID,
		Lat:        ev.Lat,
		Lon:        ev.Lon,
		Phone:      s.user.Phone,
		Name:       s.user.DisplayName(s.in.FullName),
	}
	if err := h.backend.SubmitDriverLocation(ctx, loc); err != nil {
		h.logger.Error("Failed to submit driver location", zap.Int64("driver_id", loc.DriverID), zap.Error(err))
		h.render(ctx, s, fmt.Sprintf(textGeoFailed, order.ErrorText(err, h.cfg.ErrorTextLimit)), h.driverGeoKeyboard())
		return
	}

	h.clearAwait(ctx, s)
	if h.feed != nil {
		h.feed.Publish(loc.Position(time.Now()))
	}
	h.logger.Info("Driver location updated",
		zap.Int64("driver_id", loc.DriverID),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lon", loc.Lon))
	h.removeReplyKeyboard(ctx, s)
	h.render(ctx, s, textGeoUpdated, h.driverMenu())
}

// removeReplyKeyboard hides the geo button. Telegram only drops a reply
// keyboard with a message, so a throwaway one is sent and deleted right away.
func (h *Handler) removeReplyKeyboard(ctx context.Context, s *session) {
	msg, err := s.messenger.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      s.in.ChatID,
		Text:        textKeyboardClosed,
		ReplyMarkup: &models.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
	if err != nil {
		h.logger.Debug("Failed to remove reply keyboard", zap.Int64("chat_id", s.in.ChatID), zap.Error(err))
		return
	}
	if _, err := s.messenger.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: s.in.ChatID, MessageID: msg.ID}); err != nil {
		h.logger.Debug("Failed to delete keyboard removal message", zap.Int("message_id", msg.ID), zap.Error(err))
	}
}
