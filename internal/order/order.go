// Package order turns routes from either surface into create-order calls.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/backend"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

var (
	ErrNoPhone       = errors.New("order: phone is required")
	ErrNoDestination = errors.New("order: at least one destination is required")
)

const tokenHexLen = 10

// Creator is the backend call an order ends in.
type Creator interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.CreateOrderResponse, error)
}

// Submission is one order attempt before it gets its idempotency token.
type Submission struct {
	Platform    domain.Platform
	RequesterID int64
	Phone       string
	ClientName  string
	Comment     string
	From        domain.RouteStop
	To          []domain.RouteStop
}

// Result is what the backend reported for a created order.
type Result struct {
	OrderID string
	Status  string
	Token   string
}

// BuildFromRoute assembles a submission from resolved free-text stops.
// The first stop is the pickup, the rest are destinations.
func BuildFromRoute(env domain.Envelope, user *domain.UserRecord, stops []domain.RouteStop, comment string) Submission {
	s := Submission{
		Platform:    env.Platform,
		RequesterID: env.UserID,
		ClientName:  user.DisplayName(env.FullName),
		Comment:     strings.TrimSpace(comment),
	}
	if user != nil {
		s.Phone = user.Phone
	}
	if len(stops) > 0 {
		s.From = stops[0]
		s.To = append([]domain.RouteStop(nil), stops[1:]...)
	}
	return s
}

// BuildFromMiniApp assembles a submission from mini-app coordinates, no geocoding.
func BuildFromMiniApp(env domain.Envelope, user *domain.UserRecord, payload *domain.MiniAppPayload) Submission {
	s := Submission{
		Platform:    env.Platform,
		RequesterID: env.UserID,
		ClientName:  user.DisplayName(env.FullName),
		Comment:     payload.Comment,
	}
	if user != nil {
		s.Phone = user.Phone
	}
	if payload.From != nil {
		s.From = payload.From.Stop()
	}
	for _, p := range payload.To {
		s.To = append(s.To, p.Stop())
	}
	return s
}

// NewIdempotencyToken returns "{platform}-{id}-{10 random hex}". Each call is unique.
func NewIdempotencyToken(platform domain.Platform, requesterID int64) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", platform, requesterID, hex[:tokenHexLen])
}

// Submitter sends submissions to the backend.
type Submitter struct {
	creator Creator
	logger  *zap.Logger
}

func NewSubmitter(creator Creator, logger *zap.Logger) *Submitter {
	return &Submitter{creator: creator, logger: logger}
}

// Submit validates s and creates the order. A fresh token is generated on
// every call, so a retried attempt is a new order as far as the bot is concerned.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (Result, error) {
	if strings.TrimSpace(sub.Phone) == "" {
		return Result{}, ErrNoPhone
	}
	if len(sub.To) == 0 {
		return Result{}, ErrNoDestination
	}

	token := NewIdempotencyToken(sub.Platform, sub.RequesterID)
	req := backend.CreateOrderRequest{
		Phone:       sub.Phone,
		ClientName:  sub.ClientName,
		Comment:     sub.Comment,
		FromAddress: sub.From.Address,
		FromLat:     sub.From.Lat,
		FromLon:     sub.From.Lon,
		ToAddresses: make([]string, 0, len(sub.To)),
		ToLats:      make([]*float64, 0, len(sub.To)),
		ToLons:      make([]*float64, 0, len(sub.To)),
		ExternID:    token,
	}
	for _, stop := range sub.To {
		req.ToAddresses = append(req.ToAddresses, stop.Address)
		req.ToLats = append(req.ToLats, stop.Lat)
		req.ToLons = append(req.ToLons, stop.Lon)
	}
	requester := sub.RequesterID
	if sub.Platform == domain.PlatformVK {
		req.VKUser = &requester
	} else {
		req.TelegramUser = &requester
	}

	resp, err := s.creator.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create order",
			zap.String("extern_id", token),
			zap.Int64("user_id", sub.RequesterID),
			zap.Error(err))
		return Result{Token: token}, err
	}

	result := Result{OrderID: resp.ID(), Status: resp.Status, Token: token}
	s.logger.Info("Order created",
		zap.String("order_id", result.OrderID),
		zap.String("status", result.Status),
		zap.String("extern_id", token),
		zap.Int("destinations", len(sub.To)))
	return result, nil
}

// UnavailableText replaces errors that carry no backend answer, such as
// timeouts and refused connections. Their details stay in the logs.
const UnavailableText = "сервис недоступен, попробуйте позже"

// ErrorText renders err for the user: the backend body when there is one,
// cut to limit runes.
func ErrorText(err error, limit int) string {
	var statusErr *backend.StatusError
	if !errors.As(err, &statusErr) {
		return Truncate(UnavailableText, limit)
	}
	text := strings.TrimSpace(statusErr.Body)
	if text == "" {
		text = fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	}
	return Truncate(text, limit)
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
