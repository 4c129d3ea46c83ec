package domain

import "strings"

// Platform identifies the chat platform an external id belongs to.
type Platform string

const (
	PlatformTelegram Platform = "tg"
	PlatformVK       Platform = "vk"
)

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	return p == PlatformTelegram || p == PlatformVK
}

// Role is the user's current role. The zero value means "not chosen yet".
type Role string

const (
	RoleUnset  Role = ""
	RoleClient Role = "client"
	RoleDriver Role = "driver"
)

// ParseRole accepts "client" or "driver" in any case.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleClient:
		return RoleClient, true
	case RoleDriver:
		return RoleDriver, true
	}
	return RoleUnset, false
}

// Label returns the human readable role name shown in menus.
func (r Role) Label() string {
	if r == RoleDriver {
		return "Водитель"
	}
	return "Клиент"
}

// UIPointer is the chat/message pair of the single live menu message.
type UIPointer struct {
	ChatID    int64
	MessageID int
}

// IsSet reports whether the pointer references a message.
func (p UIPointer) IsSet() bool {
	return p.MessageID != 0
}

// UserRecord is the backend's view of a bot user. It is re-fetched on every update.
type UserRecord struct {
	TelegramID  *int64 `json:"tg_id"`
	VKID        *int64 `json:"vk_id"`
	Phone       string `json:"phone"`
	FullName    string `json:"full_name"`
	Role        Role   `json:"role"`
	UIChatID    *int64 `json:"ui_chat_id"`
	UIMessageID *int   `json:"ui_message_id"`
}

// HasPhone reports whether a phone has been registered.
func (u *UserRecord) HasPhone() bool {
	return u != nil && strings.TrimSpace(u.Phone) != ""
}

// HasRole reports whether a role has been chosen.
func (u *UserRecord) HasRole() bool {
	return u != nil && u.Role != RoleUnset
}

// Pointer returns the stored UI message pointer. When the chat id was never
// stored, fallbackChatID is used.
func (u *UserRecord) Pointer(fallbackChatID int64) UIPointer {
	if u == nil || u.UIMessageID == nil || *u.UIMessageID == 0 {
		return UIPointer{}
	}
	chatID := fallbackChatID
	if u.UIChatID != nil && *u.UIChatID != 0 {
		chatID = *u.UIChatID
	}
	return UIPointer{ChatID: chatID, MessageID: *u.UIMessageID}
}

// DisplayName prefers the stored full name and falls back to the platform profile name.
func (u *UserRecord) DisplayName(fallback string) string {
	if u != nil {
		if name := strings.TrimSpace(u.FullName); name != "" {
			return name
		}
	}
	return strings.TrimSpace(fallback)
}
