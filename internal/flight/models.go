package flight

import (
	"time"

	"backend-flightlog/internal/geo"
	"backend-flightlog/internal/track"
)

type Flight struct {
	ID          string    `json:"id"`
	PilotID     string    `json:"pilot_id"`
	SiteID      string    `json:"site_id,omitempty"`
	WingID      string    `json:"wing_id,omitempty"`
	FlightDate  time.Time `json:"flight_date"`
	LaunchAt    time.Time `json:"launch_at"`
	LandAt      time.Time `json:"land_at"`
	LaunchLat   float64   `json:"launch_lat"`
	LaunchLng   float64   `json:"launch_lng"`
	LandLat     float64   `json:"land_lat"`
	LandLng     float64   `json:"land_lng"`
	DurationSec int64     `json:"duration_sec"`
	DistanceM   float64   `json:"distance_m"`
	MaxAltM     float64   `json:"max_alt_m"`
	MaxClimbMps float64   `json:"max_climb_mps"`
	MaxSinkMps  float64   `json:"max_sink_mps"`
	IGCFileName string    `json:"igc_file_name,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Analysis is the full derived view of a flight's track.
type Analysis struct {
	FlightID string          `json:"flight_id"`
	Summary  track.Summary   `json:"summary"`
	Segments []track.Segment `json:"segments"`
	Bounds   geo.Bounds      `json:"bounds"`
	Triangle *track.Triangle `json:"triangle,omitempty"`
}

// NearestPoint is the closest-point lookup result for a query coordinate.
type NearestPoint struct {
	Index     int         `json:"index"`
	Point     track.Point `json:"point"`
	DistanceM float64     `json:"distance_m"`
}
