package handler

import (
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// Classify turns a Telegram update into an inbound event. Updates the bot
// does not react to (edits, channel posts, stickers) report false.
func Classify(update *models.Update) (domain.Inbound, bool) {
	if update == nil {
		return domain.Inbound{}, false
	}
	if cq := update.CallbackQuery; cq != nil {
		return classifyCallback(cq), true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return domain.Inbound{}, false
	}

	in := domain.Inbound{
		Envelope: domain.Envelope{
			Platform:  domain.PlatformTelegram,
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			FullName:  fullName(msg.From),
		},
	}

	switch {
	case msg.Contact != nil:
		in.Event = domain.ContactEvent{Phone: msg.Contact.PhoneNumber, OwnerID: msg.Contact.UserID}
	case msg.Location != nil:
		in.Event = domain.LocationEvent{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	case msg.WebAppData != nil:
		in.Event = domain.MiniAppEvent{Data: msg.WebAppData.Data}
	case msg.Text != "":
		in.Event = classifyText(msg.Text)
	default:
		return domain.Inbound{}, false
	}
	return in, true
}

func classifyCallback(cq *models.CallbackQuery) domain.Inbound {
	ev := domain.CallbackEvent{ID: cq.ID, Data: cq.Data}
	chatID := cq.From.ID
	if m := cq.Message.Message; m != nil {
		chatID = m.Chat.ID
		ev.MessageID = m.ID
	}
	return domain.Inbound{
		Envelope: domain.Envelope{
			Platform: domain.PlatformTelegram,
			UserID:   cq.From.ID,
			ChatID:   chatID,
			FullName: fullName(&cq.From),
		},
		Event: ev,
	}
}

func classifyText(text string) domain.Event {
	trimmed := strings.TrimSpace(text)
	switch trimmed {
	case btnBack:
		return domain.MenuBackEvent{}
	case btnSwitchRole:
		return domain.CommandEvent{Name: domain.CommandRole}
	case btnMap:
		return domain.CommandEvent{Name: domain.CommandMap}
	}

	if name, ok := commandName(trimmed); ok {
		switch name {
		case domain.CommandStart, domain.CommandRole:
			return domain.CommandEvent{Name: name}
		}
	}
	return domain.TextEvent{Text: text}
}

// commandName extracts "start" from "/start@taxi_bot payload".
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := strings.Fields(text)[0][1:]
	word, _, _ = strings.Cut(word, "@")
	return strings.ToLower(word), word != ""
}

func fullName(u *models.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
