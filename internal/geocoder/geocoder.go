// Package geocoder resolves free-text stop labels into addresses with coordinates.
// Resolution is best-effort: a failed lookup keeps the label and drops the coordinates.
package geocoder

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/backend"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// Searcher is the geocode lookup the resolver depends on.
type Searcher interface {
	Geocode(ctx context.Context, query string, limit int) ([]backend.GeoResult, error)
}

// Resolver appends a regional suffix to bare labels and geocodes them.
type Resolver struct {
	searcher Searcher
	suffix   string
	keywords []string
	logger   *zap.Logger
}

// NewResolver builds a resolver. Labels containing any of keywords
// (case-insensitive) are sent as-is, the others get ", "+suffix appended.
func NewResolver(searcher Searcher, suffix string, keywords []string, logger *zap.Logger) *Resolver {
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}
	return &Resolver{
		searcher: searcher,
		suffix:   strings.TrimSpace(suffix),
		keywords: lower,
		logger:   logger,
	}
}

// Query returns the text actually sent to the geocoder for label.
func (r *Resolver) Query(label string) string {
	label = strings.TrimSpace(label)
	if r.suffix == "" {
		return label
	}
	low := strings.ToLower(label)
	for _, k := range r.keywords {
		if strings.Contains(low, k) {
			return label
		}
	}
	return label + ", " + r.suffix
}

// Resolve geocodes one label. It never fails: on any lookup problem the
// returned stop carries the label as its address and no coordinates.
func (r *Resolver) Resolve(ctx context.Context, label string) domain.RouteStop {
	label = strings.TrimSpace(label)
	stop := domain.RouteStop{Label: label, Address: label}

	query := r.Query(label)
	results, err := r.searcher.Geocode(ctx, query, 1)
	if err != nil {
		r.logger.Warn("Geocode failed, keeping label",
			zap.String("query", query),
			zap.Error(err))
		return stop
	}
	if len(results) == 0 {
		r.logger.Debug("Geocode returned nothing", zap.String("query", query))
		return stop
	}

	best := results[0]
	if name := strings.TrimSpace(best.DisplayName); name != "" {
		stop.Address = name
	}
	if lat, lon, ok := best.Coordinates(); ok {
		stop.Lat = &lat
		stop.Lon = &lon
	}
	return stop
}

// ResolveAll resolves labels in order, one lookup at a time.
func (r *Resolver) ResolveAll(ctx context.Context, labels []string) []domain.RouteStop {
	stops := make([]domain.RouteStop, 0, len(labels))
	for _, label := range labels {
		stops = append(stops, r.Resolve(ctx, label))
	}
	return stops
}
