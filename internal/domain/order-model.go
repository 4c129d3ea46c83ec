package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// RouteStop is one resolved waypoint of a route.
type RouteStop struct {
	Label   string   `json:"label"`
	Address string   `json:"address"` // geocoded display name, or Label when lookup failed
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether both coordinates were resolved.
func (s RouteStop) HasCoordinates() bool {
	return s.Lat != nil && s.Lon != nil
}

// MiniAppPoint is a point picked on the map mini-app.
type MiniAppPoint struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// IsZero reports whether the point carries no data at all.
func (p *MiniAppPoint) IsZero() bool {
	return p == nil || (strings.TrimSpace(p.Address) == "" && p.Lat == nil && p.Lon == nil)
}

// Stop converts the point into a RouteStop without geocoding.
func (p MiniAppPoint) Stop() RouteStop {
	addr := strings.TrimSpace(p.Address)
	return RouteStop{Label: addr, Address: addr, Lat: p.Lat, Lon: p.Lon}
}

// MiniAppPayload is the JSON sent by the map mini-app through web_app_data.
type MiniAppPayload struct {
	From    *MiniAppPoint  `json:"from"`
	To      []MiniAppPoint `json:"to"`
	Comment string         `json:"comment"`
}

var (
	ErrMalformedPayload = errors.New("malformed mini-app payload")
	ErrMissingEndpoints = errors.New("mini-app payload needs both from and to")
)

// ParseMiniAppPayload decodes and checks the mini-app JSON.
func ParseMiniAppPayload(raw string) (*MiniAppPayload, error) {
	var p MiniAppPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	to := p.To[:0]
	for _, point := range p.To {
		if !point.IsZero() {
			to = append(to, point)
		}
	}
	p.To = to
	p.Comment = strings.TrimSpace(p.Comment)

	if p.From.IsZero() || len(p.To) == 0 {
		return nil, ErrMissingEndpoints
	}
	return &p, nil
}
