package backend

import (
	"context"
	"fmt"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

type setPhoneRequest struct {
	Platform   domain.Platform `json:"platform"`
	ExternalID int64           `json:"external_id"`
	Phone      string          `json:"phone"`
	FullName   *string         `json:"full_name,omitempty"`
}

type setRoleRequest struct {
	Platform   domain.Platform `json:"platform"`
	ExternalID int64           `json:"external_id"`
	Role       domain.Role     `json:"role"`
}

type setUIMessageRequest struct {
	Platform   domain.Platform `json:"platform"`
	ExternalID int64           `json:"external_id"`
	ChatID     int64           `json:"chat_id"`
	MessageID  int             `json:"message_id"`
}

// GetUser fetches the user by platform id. ErrNotFound means the user never registered.
func (c *Client) GetUser(ctx context.Context, platform domain.Platform, externalID int64) (*domain.UserRecord, error) {
	var user domain.UserRecord
	path := "/api/users/by_external/" + escape(string(platform)) + "/" + idPath(externalID)
	if err := c.get(ctx, path, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetPhone upserts the user's phone. The backend normalizes it and rejects
// numbers that are not Russian 11-digit ones.
func (c *Client) SetPhone(ctx context.Context, platform domain.Platform, externalID int64, phone, fullName string) (*domain.UserRecord, error) {
	req := setPhoneRequest{Platform: platform, ExternalID: externalID, Phone: phone}
	if fullName != "" {
		req.FullName = &fullName
	}

	var user domain.UserRecord
	if err := c.post(ctx, "/api/users/set_phone", req, &user); err != nil {
		return nil, fmt.Errorf("set phone: %w", err)
	}
	return &user, nil
}

// SetRole stores the user's role.
func (c *Client) SetRole(ctx context.Context, platform domain.Platform, externalID int64, role domain.Role) (*domain.UserRecord, error) {
	var user domain.UserRecord
	req := setRoleRequest{Platform: platform, ExternalID: externalID, Role: role}
	if err := c.post(ctx, "/api/users/set_role", req, &user); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	return &user, nil
}

// SetUIMessage stores the pointer to the live menu message.
func (c *Client) SetUIMessage(ctx context.Context, platform domain.Platform, externalID int64, ptr domain.UIPointer) error {
	req := setUIMessageRequest{
		Platform:   platform,
		ExternalID: externalID,
		ChatID:     ptr.ChatID,
		MessageID:  ptr.MessageID,
	}
	if err := c.post(ctx, "/api/users/set_ui_message", req, nil); err != nil {
		return fmt.Errorf("set ui message: %w", err)
	}
	return nil
}
