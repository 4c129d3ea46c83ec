package domain

// Envelope carries the addressing data shared by every inbound event.
type Envelope struct {
	Platform  Platform
	UserID    int64
	ChatID    int64
	MessageID int // inbound message id; 0 for callbacks
	FullName  string
}

// Event is the closed set of inbound update shapes the bot reacts to.
// Only types in this package implement it.
type Event interface {
	isEvent()
}

// Command names recognized by the bot.
const (
	CommandStart = "start"
	CommandRole  = "role"
	CommandMap   = "map"
)

// CommandEvent is /start, /role, or one of the reply-keyboard shortcuts.
type CommandEvent struct {
	Name string
}

// ContactEvent is a shared contact.
type ContactEvent struct {
	Phone string
	// OwnerID is the platform id of the contact owner, 0 when unknown.
	OwnerID int64
}

// LocationEvent is a shared location.
type LocationEvent struct {
	Lat float64
	Lon float64
}

// MiniAppEvent is the raw JSON posted by the map mini-app.
type MiniAppEvent struct {
	Data string
}

// TextEvent is any other text message.
type TextEvent struct {
	Text string
}

// MenuBackEvent is the reply-keyboard "back" button.
type MenuBackEvent struct{}

// CallbackEvent is an inline button press.
type CallbackEvent struct {
	ID   string
	Data string
	// MessageID is the message carrying the pressed button, 0 when inaccessible.
	MessageID int
}

func (CommandEvent) isEvent()  {}
func (ContactEvent) isEvent()  {}
func (LocationEvent) isEvent() {}
func (MiniAppEvent) isEvent()  {}
func (TextEvent) isEvent()     {}
func (MenuBackEvent) isEvent() {}
func (CallbackEvent) isEvent() {}

// Inbound is a classified update.
type Inbound struct {
	Envelope
	Event Event
}
