// Package uisync keeps a single live menu message per chat.
//
// A render first tries to edit the message the backend remembers for the
// user. When there is none, or the edit fails, a new message is sent and its
// id is stored back through the backend.
package uisync

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// Messenger is the subset of *bot.Bot used for rendering.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// PointerStore reads and writes the live message pointer kept on the user record.
type PointerStore interface {
	GetUser(ctx context.Context, platform domain.Platform, externalID int64) (*domain.UserRecord, error)
	SetUIMessage(ctx context.Context, platform domain.Platform, externalID int64, ptr domain.UIPointer) error
}

// Result describes how a render ended.
type Result struct {
	MessageID int
	// Edited is true when the previous live message was updated in place.
	Edited bool
	// Persisted is true when a newly sent message id was stored.
	Persisted bool
}

type Synchronizer struct {
	messenger Messenger
	pointers  PointerStore
	logger    *zap.Logger
}

func NewSynchronizer(messenger Messenger, pointers PointerStore, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{messenger: messenger, pointers: pointers, logger: logger}
}

// Render shows text with markup as the chat's live message.
// Only a send failure is returned; edit and persistence failures are logged.
func (s *Synchronizer) Render(ctx context.Context, env domain.Envelope, text string, markup models.ReplyMarkup) (Result, error) {
	return s.RenderFor(ctx, env, nil, text, markup)
}

// RenderFor is Render with a user record the caller already holds. A nil
// user is looked up through the pointer store.
func (s *Synchronizer) RenderFor(ctx context.Context, env domain.Envelope, user *domain.UserRecord, text string, markup models.ReplyMarkup) (Result, error) {
	if id, ok := s.tryEdit(ctx, env, user, text, markup); ok {
		return Result{MessageID: id, Edited: true}, nil
	}

	msg, err := s.messenger.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             env.ChatID,
		Text:               text,
		ReplyMarkup:        markup,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	})
	if err != nil {
		return Result{}, fmt.Errorf("send ui message: %w", err)
	}

	res := Result{MessageID: msg.ID}
	ptr := domain.UIPointer{ChatID: env.ChatID, MessageID: msg.ID}
	if err := s.pointers.SetUIMessage(ctx, env.Platform, env.UserID, ptr); err != nil {
		s.logger.Warn("Failed to persist ui pointer",
			zap.Int64("user_id", env.UserID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
		return res, nil
	}
	res.Persisted = true
	return res, nil
}

func (s *Synchronizer) tryEdit(ctx context.Context, env domain.Envelope, user *domain.UserRecord, text string, markup models.ReplyMarkup) (int, bool) {
	if !Editable(markup) {
		return 0, false
	}

	if user == nil {
		var err error
		user, err = s.pointers.GetUser(ctx, env.Platform, env.UserID)
		if err != nil {
			s.logger.Debug("No user for ui pointer lookup", zap.Int64("user_id", env.UserID), zap.Error(err))
			return 0, false
		}
	}
	ptr := user.Pointer(env.ChatID)
	if !ptr.IsSet() || ptr.ChatID != env.ChatID {
		return 0, false
	}

	params := &bot.EditMessageTextParams{
		ChatID:             ptr.ChatID,
		MessageID:          ptr.MessageID,
		Text:               text,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := s.messenger.EditMessageText(ctx, params); err != nil {
		s.logger.Debug("Edit failed, sending new ui message",
			zap.Int64("chat_id", ptr.ChatID),
			zap.Int("message_id", ptr.MessageID),
			zap.Error(err))
		return 0, false
	}
	return ptr.MessageID, true
}

// Editable reports whether markup can be attached by an edit. Telegram only
// allows inline keyboards on edited messages.
func Editable(markup models.ReplyMarkup) bool {
	switch markup.(type) {
	case nil, *models.InlineKeyboardMarkup, models.InlineKeyboardMarkup:
		return true
	}
	return false
}
