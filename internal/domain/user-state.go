package domain

// Await is the transient "what the bot is waiting for" value kept per user.
// It is never part of the backend record.
type Await string

const (
	AwaitNone               Await = ""
	AwaitOrderText          Await = "order_text"
	AwaitGeo                Await = "geo"
	AwaitDriverRegistration Await = "driver_registration"
)

// Valid reports whether a is a known await value (AwaitNone included).
func (a Await) Valid() bool {
	switch a {
	case AwaitNone, AwaitOrderText, AwaitGeo, AwaitDriverRegistration:
		return true
	}
	return false
}

// ConversationState is derived fresh on every update; it is never stored.
type ConversationState string

const (
	StateNoPhone                      ConversationState = "no-phone"
	StateNoRole                       ConversationState = "no-role"
	StateIdleClient                   ConversationState = "idle-client"
	StateIdleDriver                   ConversationState = "idle-driver"
	StateAwaitingOrderText            ConversationState = "awaiting-order-text"
	StateAwaitingGeo                  ConversationState = "awaiting-geo"
	StateConfirmingDriverRegistration ConversationState = "confirming-driver-registration"
)

// ResolveState maps the user record and the await value to the current state.
// Onboarding gaps win over any await value; awaits only apply to the role they
// belong to.
func ResolveState(user *UserRecord, await Await) ConversationState {
	if !user.HasPhone() {
		return StateNoPhone
	}
	if !user.HasRole() {
		return StateNoRole
	}

	switch user.Role {
	case RoleClient:
		if await == AwaitOrderText {
			return StateAwaitingOrderText
		}
		return StateIdleClient
	default:
		switch await {
		case AwaitGeo:
			return StateAwaitingGeo
		case AwaitDriverRegistration:
			return StateConfirmingDriverRegistration
		}
		return StateIdleDriver
	}
}

// IsOnboarding reports whether s blocks normal menu handling.
func (s ConversationState) IsOnboarding() bool {
	return s == StateNoPhone || s == StateNoRole
}
