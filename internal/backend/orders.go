package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// CreateOrderRequest mirrors /api/orders/create. Stops travel as parallel arrays.
type CreateOrderRequest struct {
	Phone        string     `json:"phone"`
	ClientName   string     `json:"client_name"`
	Comment      string     `json:"comment"`
	FromAddress  string     `json:"from_address"`
	FromLat      *float64   `json:"from_lat"`
	FromLon      *float64   `json:"from_lon"`
	ToAddresses  []string   `json:"to_addresses"`
	ToLats       []*float64 `json:"to_lats"`
	ToLons       []*float64 `json:"to_lons"`
	TelegramUser *int64     `json:"tg_user_id,omitempty"`
	VKUser       *int64     `json:"vk_user_id,omitempty"`
	ExternID     string     `json:"extern_id"`
}

// CreateOrderResponse is the backend answer for a created order.
type CreateOrderResponse struct {
	OrderID any    `json:"taxomet_order_id"`
	Status  string `json:"status"`
}

// ID renders the order id whatever JSON type the backend used.
func (r *CreateOrderResponse) ID() string {
	switch v := r.OrderID.(type) {
	case nil:
		return ""
	case json.Number:
		return v.String()
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

// CreateOrder submits an order. Non-2xx answers come back as *StatusError.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.post(ctx, "/api/orders/create", req, &resp); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &resp, nil
}

type driverLocationRequest struct {
	DriverID   int64   `json:"driver_id"`
	TelegramID *int64  `json:"tg_id,omitempty"`
	VKID       *int64  `json:"vk_id,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Phone      string  `json:"phone"`
	Name       string  `json:"name"`
}

// SubmitDriverLocation forwards a driver's position.
func (c *Client) SubmitDriverLocation(ctx context.Context, loc domain.DriverLocation) error {
	req := driverLocationRequest{
		DriverID: loc.DriverID,
		Lat:      loc.Lat,
		Lon:      loc.Lon,
		Phone:    loc.Phone,
		Name:     loc.Name,
	}
	id := loc.ExternalID
	if loc.Platform == domain.PlatformVK {
		req.VKID = &id
	} else {
		req.TelegramID = &id
	}

	if err := c.post(ctx, "/api/drivers/location", req, nil); err != nil {
		return fmt.Errorf("driver location: %w", err)
	}
	return nil
}
