package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveState(t *testing.T) {
	client := &UserRecord{Phone: "79001234567", Role: RoleClient}
	driver := &UserRecord{Phone: "79001234567", Role: RoleDriver}

	tests := []struct {
		name     string
		user     *UserRecord
		await    Await
		expected ConversationState
	}{
		{name: "unknown user", user: nil, await: AwaitNone, expected: StateNoPhone},
		{name: "no phone even when awaiting", user: &UserRecord{Role: RoleClient}, await: AwaitOrderText, expected: StateNoPhone},
		{name: "phone without role", user: &UserRecord{Phone: "79001234567"}, await: AwaitNone, expected: StateNoRole},
		{name: "idle client", user: client, await: AwaitNone, expected: StateIdleClient},
		{name: "client awaiting text", user: client, await: AwaitOrderText, expected: StateAwaitingOrderText},
		{name: "client ignores driver await", user: client, await: AwaitGeo, expected: StateIdleClient},
		{name: "idle driver", user: driver, await: AwaitNone, expected: StateIdleDriver},
		{name: "driver awaiting geo", user: driver, await: AwaitGeo, expected: StateAwaitingGeo},
		{name: "driver registration", user: driver, await: AwaitDriverRegistration, expected: StateConfirmingDriverRegistration},
		{name: "driver ignores order text", user: driver, await: AwaitOrderText, expected: StateIdleDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveState(tt.user, tt.await))
		})
	}
}

func TestUserRecord_Pointer(t *testing.T) {
	chatID := int64(500)
	msgID := 42
	zero := 0

	assert.False(t, (*UserRecord)(nil).Pointer(1).IsSet())
	assert.False(t, (&UserRecord{UIMessageID: &zero}).Pointer(1).IsSet())
	assert.Equal(t, UIPointer{ChatID: 7, MessageID: 42}, (&UserRecord{UIMessageID: &msgID}).Pointer(7))
	assert.Equal(t, UIPointer{ChatID: 500, MessageID: 42}, (&UserRecord{UIChatID: &chatID, UIMessageID: &msgID}).Pointer(7))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Driver ")
	assert.True(t, ok)
	assert.Equal(t, RoleDriver, role)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
