package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/config"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/backend"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/repository"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/uisync"
)

// Messenger is the part of *bot.Bot the handlers use.
type Messenger interface {
	uisync.Messenger
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Backend is the user and driver API of the backend service.
type Backend interface {
	uisync.PointerStore
	SetPhone(ctx context.Context, platform domain.Platform, externalID int64, phone, fullName string) (*domain.UserRecord, error)
	SetRole(ctx context.Context, platform domain.Platform, externalID int64, role domain.Role) (*domain.UserRecord, error)
	SubmitDriverLocation(ctx context.Context, loc domain.DriverLocation) error
}

// RouteResolver geocodes parsed stop labels.
type RouteResolver interface {
	ResolveAll(ctx context.Context, labels []string) []domain.RouteStop
}

// OrderSubmitter creates orders.
type OrderSubmitter interface {
	Submit(ctx context.Context, sub order.Submission) (order.Result, error)
}

type Handler struct {
	logger   *zap.Logger
	cfg      *config.Config
	backend  Backend
	awaits   repository.AwaitStore
	resolver RouteResolver
	orders   OrderSubmitter
	feed     *LiveFeed
}

func NewHandler(cfg *config.Config, logger *zap.Logger, backend Backend, awaits repository.AwaitStore,
	resolver RouteResolver, orders OrderSubmitter, feed *LiveFeed) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		backend:  backend,
		awaits:   awaits,
		resolver: resolver,
		orders:   orders,
		feed:     feed,
	}
}

// session is the per-update view: who wrote, what we know about them and
// where the answer is rendered.
type session struct {
	in        domain.Inbound
	user      *domain.UserRecord
	await     domain.Await
	messenger Messenger
	ui        *uisync.Synchronizer
}

func (s *session) key() repository.AwaitKey {
	return repository.AwaitKey{Platform: s.in.Platform, UserID: s.in.UserID}
}

// DefaultHandler is registered with the bot and receives every update.
func (h *Handler) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.Handle(ctx, b, update)
}

// Handle classifies an update and runs the matching flow.
func (h *Handler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	in, ok := Classify(update)
	if !ok {
		return
	}
	defer h.cleanup(ctx, m, in)

	if text, isText := in.Event.(domain.TextEvent); isText && strings.HasPrefix(text.Text, "/") {
		return
	}

	s := h.newSession(ctx, m, in)
	state := domain.ResolveState(s.user, s.await)

	h.logger.Debug("Update received",
		zap.Int64("user_id", in.UserID),
		zap.String("event", fmt.Sprintf("%T", in.Event)),
		zap.String("state", string(state)))

	if contact, isContact := in.Event.(domain.ContactEvent); isContact {
		h.handleContact(ctx, s, contact)
		return
	}

	switch state {
	case domain.StateNoPhone:
		h.render(ctx, s, textAskPhone, h.phoneKeyboard())
		return
	case domain.StateNoRole:
		if cb, isCallback := in.Event.(domain.CallbackEvent); isCallback && strings.HasPrefix(cb.Data, cbRolePrefix) {
			h.handleRoleCallback(ctx, s, cb)
			return
		}
		h.render(ctx, s, textChooseRole, h.roleKeyboard())
		return
	}

	switch ev := in.Event.(type) {
	case domain.CommandEvent:
		h.handleCommand(ctx, s, ev)
	case domain.MenuBackEvent:
		h.clearAwait(ctx, s)
		h.showMenu(ctx, s)
	case domain.CallbackEvent:
		h.handleCallback(ctx, s, ev)
	case domain.LocationEvent:
		h.handleLocation(ctx, s, ev)
	case domain.MiniAppEvent:
		h.handleMiniApp(ctx, s, ev)
	case domain.TextEvent:
		h.handleText(ctx, s, ev)
	}
}

func (h *Handler) newSession(ctx context.Context, m Messenger, in domain.Inbound) *session {
	s := &session{
		in:        in,
		messenger: m,
		ui:        uisync.NewSynchronizer(m, h.backend, h.logger),
	}

	user, err := h.backend.GetUser(ctx, in.Platform, in.UserID)
	switch {
	case err == nil:
		s.user = user
	case errors.Is(err, backend.ErrNotFound):
	default:
		h.logger.Warn("User lookup failed, treating as unregistered",
			zap.Int64("user_id", in.UserID),
			zap.Error(err))
	}

	await, err := h.awaits.Get(ctx, s.key())
	if err != nil {
		h.logger.Warn("Await lookup failed", zap.Int64("user_id", in.UserID), zap.Error(err))
	}
	s.await = await
	return s
}

func (h *Handler) render(ctx context.Context, s *session, text string, markup models.ReplyMarkup) {
	res, err := s.ui.RenderFor(ctx, s.in.Envelope, s.user, text, markup)
	if err != nil {
		h.logger.Error("Failed to render ui message",
			zap.Int64("chat_id", s.in.ChatID),
			zap.Error(err))
		return
	}
	if res.Persisted && s.user != nil {
		chatID, messageID := s.in.ChatID, res.MessageID
		s.user.UIChatID = &chatID
		s.user.UIMessageID = &messageID
	}
	h.logger.Debug("UI rendered",
		zap.Int64("chat_id", s.in.ChatID),
		zap.Int("message_id", res.MessageID),
		zap.Bool("edited", res.Edited))
}

func (h *Handler) setAwait(ctx context.Context, s *session, await domain.Await) {
	if err := h.awaits.Set(ctx, s.key(), await); err != nil {
		h.logger.Error("Failed to set await", zap.String("key", s.key().String()), zap.Error(err))
		return
	}
	s.await = await
}

func (h *Handler) clearAwait(ctx context.Context, s *session) {
	if err := h.awaits.Clear(ctx, s.key()); err != nil {
		h.logger.Error("Failed to clear await", zap.String("key", s.key().String()), zap.Error(err))
		return
	}
	s.await = domain.AwaitNone
}

func (h *Handler) menuFor(role domain.Role) *models.InlineKeyboardMarkup {
	if role == domain.RoleDriver {
		return h.driverMenu()
	}
	return h.clientMenu()
}

func (h *Handler) showMenu(ctx context.Context, s *session) {
	role := s.user.Role
	h.render(ctx, s, fmt.Sprintf(textMenuReady, role.Label()), h.menuFor(role))
}

// cleanup deletes the inbound message or acknowledges the pressed button.
// Both are best-effort.
func (h *Handler) cleanup(ctx context.Context, m Messenger, in domain.Inbound) {
	if cb, ok := in.Event.(domain.CallbackEvent); ok {
		if _, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID}); err != nil {
			h.logger.Debug("Answer callback failed", zap.String("callback_id", cb.ID), zap.Error(err))
		}
		return
	}
	if in.MessageID == 0 {
		return
	}
	if _, err := m.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: in.ChatID, MessageID: in.MessageID}); err != nil {
		h.logger.Debug("Delete inbound message failed",
			zap.Int64("chat_id", in.ChatID),
			zap.Int("message_id", in.MessageID),
			zap.Error(err))
	}
}

// RecoverMiddleware keeps a panicking flow from taking the bot down. Handle
// registers its cleanup before running a flow, so the inbound message is
// still deleted while the panic unwinds.
func (h *Handler) RecoverMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("Handler panic recovered",
					zap.Any("panic", r),
					zap.Int64("update_id", update.ID))
			}
		}()
		next(ctx, b, update)
	}
}
