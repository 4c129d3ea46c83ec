package domain

import "time"

// DriverLocation is the location update forwarded to the backend for a driver.
type DriverLocation struct {
	Platform   Platform
	DriverID   int64
	ExternalID int64
	Lat        float64
	Lon        float64
	Phone      string
	Name       string
}

// DriverPosition is a location update published on the live driver feed.
type DriverPosition struct {
	DriverID  int64     `json:"driver_id"`
	Platform  Platform  `json:"platform"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position converts a location update into a feed entry.
func (l DriverLocation) Position(at time.Time) DriverPosition {
	return DriverPosition{
		DriverID:  l.DriverID,
		Platform:  l.Platform,
		Lat:       l.Lat,
		Lon:       l.Lon,
		UpdatedAt: at.UTC(),
	}
}
