// Package track derives climb rates, flight phases and scoring geometry
// from an ordered, immutable sequence of GPS track points.
package track

import (
	"time"

	"backend-flightlog/internal/geo"
)

// Point is one timestamped GPS fix of a flight track.
type Point struct {
	Time        time.Time `json:"time"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	GPSAlt      float64   `json:"gps_alt_m"`
	PressureAlt float64   `json:"pressure_alt_m"`
	SpeedMps    float64   `json:"speed_mps"`
}

// Alt is the altitude used for climb computation: pressure altitude when the
// recorder supplies one, GPS altitude otherwise.
func (p Point) Alt() float64 {
	if p.PressureAlt != 0 {
		return p.PressureAlt
	}
	return p.GPSAlt
}

// Climb-rate smoothing windows. VarioWindow matches an instant vario
// readout; SmoothWindow is used for phase segmentation and climb series.
const (
	VarioWindow  = 5 * time.Second
	SmoothWindow = 15 * time.Second
)

// ClimbRate returns the smoothed climb rate in m/s at index i: the altitude
// delta from the most recent point whose age relative to point i is at least
// the window, divided by the elapsed seconds. Near the start of the track,
// where no point is old enough, it falls back to the instantaneous two-point
// difference; a lone point yields 0.
func ClimbRate(points []Point, i int, window time.Duration) float64 {
	if i <= 0 || i >= len(points) {
		return 0
	}
	cur := points[i]
	for j := i - 1; j >= 0; j-- {
		if cur.Time.Sub(points[j].Time) >= window {
			return rateBetween(points[j], cur)
		}
	}
	return rateBetween(points[i-1], cur)
}

func rateBetween(a, b Point) float64 {
	dt := b.Time.Sub(a.Time).Seconds()
	if dt <= 0 {
		return 0
	}
	return (b.Alt() - a.Alt()) / dt
}

// ClimbSeries returns the smoothed climb rate for every point.
func ClimbSeries(points []Point, window time.Duration) []float64 {
	rates := make([]float64, len(points))
	for i := range points {
		rates[i] = ClimbRate(points, i, window)
	}
	return rates
}

// Points converts the track to bare coordinates for geo helpers.
func Points(points []Point) []geo.Point {
	out := make([]geo.Point, len(points))
	for i, p := range points {
		out[i] = geo.Point{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}

// ClosestIndex returns the index of the track point nearest the query
// coordinate, -1 on an empty track. Ties resolve to the lowest index.
func ClosestIndex(points []Point, lat, lng float64) int {
	return geo.ClosestIndex(Points(points), lat, lng)
}

// Distance returns the cumulative track length in meters.
func Distance(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geo.HaversineM(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}
	return total
}

// Summary holds per-track statistics.
type Summary struct {
	PointCount   int     `json:"point_count"`
	DistanceM    float64 `json:"distance_m"`
	DurationSec  int64   `json:"duration_sec"`
	MaxAltM      float64 `json:"max_alt_m"`
	MinAltM      float64 `json:"min_alt_m"`
	MaxClimbMps  float64 `json:"max_climb_mps"`
	MaxSinkMps   float64 `json:"max_sink_mps"`
	AvgSpeedMps  float64 `json:"avg_speed_mps"`
	AltGainM     float64 `json:"alt_gain_m"`
	TakeoffAltM  float64 `json:"takeoff_alt_m"`
	LandingAltM  float64 `json:"landing_alt_m"`
}

// Stats computes the summary for a track. Climb extremes come from the
// vario-window smoothed series.
func Stats(points []Point) Summary {
	s := Summary{PointCount: len(points)}
	if len(points) == 0 {
		return s
	}

	s.MaxAltM = points[0].Alt()
	s.MinAltM = points[0].Alt()
	s.TakeoffAltM = points[0].Alt()
	s.LandingAltM = points[len(points)-1].Alt()

	for i, p := range points {
		alt := p.Alt()
		if alt > s.MaxAltM {
			s.MaxAltM = alt
		}
		if alt < s.MinAltM {
			s.MinAltM = alt
		}
		if i > 0 {
			if gain := alt - points[i-1].Alt(); gain > 0 {
				s.AltGainM += gain
			}
		}
		rate := ClimbRate(points, i, VarioWindow)
		if rate > s.MaxClimbMps {
			s.MaxClimbMps = rate
		}
		if rate < s.MaxSinkMps {
			s.MaxSinkMps = rate
		}
	}

	s.DistanceM = Distance(points)
	duration := points[len(points)-1].Time.Sub(points[0].Time)
	s.DurationSec = int64(duration.Seconds())
	if duration.Seconds() > 0 {
		s.AvgSpeedMps = s.DistanceM / duration.Seconds()
	}
	return s
}
