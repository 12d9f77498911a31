package wing

import "time"

type Wing struct {
	ID            string    `json:"id"`
	PilotID       string    `json:"pilot_id"`
	Manufacturer  string    `json:"manufacturer"`
	Model         string    `json:"model"`
	Size          string    `json:"size"`
	Certification string    `json:"certification"`
	PurchasedOn   time.Time `json:"purchased_on,omitempty"`
	Retired       bool      `json:"retired"`
	CreatedAt     time.Time `json:"created_at"`
}

// Usage is the per-wing rollup over logged flights.
type Usage struct {
	WingID      string  `json:"wing_id"`
	FlightCount int     `json:"flight_count"`
	AirtimeSec  int64   `json:"airtime_sec"`
	DistanceM   float64 `json:"distance_m"`
}
