package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/route"
)

// handleText treats a message as a route when the client asked for a text
// order, or when it already looks like one (two or more stops).
func (h *Handler) handleText(ctx context.Context, s *session, ev domain.TextEvent) {
	text := strings.TrimSpace(ev.Text)
	role := s.user.Role
	if text == "" {
		h.render(ctx, s, textOpenMenu, h.menuFor(role))
		return
	}

	stops, comment := route.Split(text)
	looksLikeRoute := route.IsRoute(stops)

	if role != domain.RoleClient || (s.await != domain.AwaitOrderText && !looksLikeRoute) {
		h.render(ctx, s, textOpenMenu, h.menuFor(role))
		return
	}
	if !looksLikeRoute {
		h.render(ctx, s, textRouteNotUnderstood, h.backToMenuKeyboard())
		return
	}

	resolved := h.resolver.ResolveAll(ctx, stops)
	h.submitOrder(ctx, s, order.BuildFromRoute(s.in.Envelope, s.user, resolved, comment))
}

func (h *Handler) handleMiniApp(ctx context.Context, s *session, ev domain.MiniAppEvent) {
	if s.user.Role != domain.RoleClient {
		h.render(ctx, s, textOrdersClientOnly, h.backToMenuKeyboard())
		return
	}

	payload, err := domain.ParseMiniAppPayload(ev.Data)
	if err != nil {
		h.logger.Info("Rejected mini-app payload", zap.Int64("user_id", s.in.UserID), zap.Error(err))
		if errors.Is(err, domain.ErrMissingEndpoints) {
			h.render(ctx, s, textMiniAppEndpoints, h.orderMenu())
			return
		}
		h.render(ctx, s, textMiniAppMalformed, h.orderMenu())
		return
	}

	h.submitOrder(ctx, s, order.BuildFromMiniApp(s.in.Envelope, s.user, payload))
}

func (h *Handler) submitOrder(ctx context.Context, s *session, sub order.Submission) {
	res, err := h.orders.Submit(ctx, sub)
	switch {
	case errors.Is(err, order.ErrNoPhone):
		h.render(ctx, s, textAskPhone, h.phoneKeyboard())
		return
	case errors.Is(err, order.ErrNoDestination):
		h.render(ctx, s, textMiniAppEndpoints, h.orderMenu())
		return
	case err != nil:
		h.render(ctx, s, fmt.Sprintf(textOrderFailed, order.ErrorText(err, h.cfg.ErrorTextLimit)), h.orderMenu())
		return
	}

	h.clearAwait(ctx, s)
	h.render(ctx, s, orderCreatedText(res.OrderID, sub), h.clientMenu())
}

// orderCreatedText lists the stops as they were sent: the geocoded name when
// one was found, the typed label otherwise.
func orderCreatedText(orderID string, sub order.Submission) string {
	to := make([]string, 0, len(sub.To))
	for _, stop := range sub.To {
		to = append(to, stop.Address)
	}
	return fmt.Sprintf(textOrderCreated, orderID, sub.From.Address, strings.Join(to, " → "))
}
