package backend

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// GeoResult is one geocoder hit. Coordinates arrive either as numbers or as
// numeric strings depending on the upstream provider.
type GeoResult struct {
	DisplayName string          `json:"display_name"`
	Lat         json.RawMessage `json:"lat"`
	Lon         json.RawMessage `json:"lon"`
}

// Coordinates returns the parsed lat/lon. ok is false when either is missing,
// not numeric or not finite.
func (r GeoResult) Coordinates() (lat, lon float64, ok bool) {
	lat, okLat := parseCoordinate(r.Lat)
	lon, okLon := parseCoordinate(r.Lon)
	if !okLat || !okLon {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseCoordinate(raw json.RawMessage) (float64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Geocode searches addresses through the backend geo proxy.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]GeoResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var results []GeoResult
	if err := c.get(ctx, "/api/geo/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}
	return results, nil
}
