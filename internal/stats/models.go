package stats

// Totals is the all-time rollup for one pilot.
type Totals struct {
	PilotID     string  `json:"pilot_id"`
	FlightCount int     `json:"flight_count"`
	AirtimeSec  int64   `json:"airtime_sec"`
	DistanceM   float64 `json:"distance_m"`
	MaxAltM     float64 `json:"max_alt_m"`
}

type YearStats struct {
	Year        int     `json:"year"`
	FlightCount int     `json:"flight_count"`
	AirtimeSec  int64   `json:"airtime_sec"`
	DistanceM   float64 `json:"distance_m"`
}

// ClimbDistribution summarises the best climb of every stored flight.
type ClimbDistribution struct {
	PilotID   string  `json:"pilot_id"`
	Samples   int     `json:"samples"`
	MeanMps   float64 `json:"mean_mps"`
	MedianMps float64 `json:"median_mps"`
	P90Mps    float64 `json:"p90_mps"`
}
