package site

import "time"

type Site struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	AltitudeM   float64   `json:"altitude_m"`
	Rating      int       `json:"rating"`
	CreatedBy   string    `json:"created_by"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type Review struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	PilotID   string    `json:"pilot_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is a nearest-site lookup result for a launch coordinate.
type Match struct {
	Site      Site    `json:"site"`
	DistanceM float64 `json:"distance_m"`
}
