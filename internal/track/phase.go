package track

import "time"

// Phase classifies a climb rate. The boundaries are the only threshold set
// in the codebase: a rate of exactly 0 is a climb, exactly -1.5 is strong
// sink, so every real value maps to exactly one phase.
type Phase string

const (
	PhaseClimb      Phase = "climb"
	PhaseWeakSink   Phase = "weak_sink"
	PhaseStrongSink Phase = "strong_sink"

	strongSinkThresholdMps = -1.5
)

// Classify maps a climb rate in m/s to its phase.
func Classify(rateMps float64) Phase {
	switch {
	case rateMps >= 0:
		return PhaseClimb
	case rateMps <= strongSinkThresholdMps:
		return PhaseStrongSink
	default:
		return PhaseWeakSink
	}
}

// Segment is a contiguous run of track points sharing a phase.
type Segment struct {
	Phase       Phase   `json:"phase"`
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	DurationSec float64 `json:"duration_sec"`
	AltChangeM  float64 `json:"alt_change_m"`
	AvgRateMps  float64 `json:"avg_rate_mps"`
}

// Segments splits a track into phase runs over the smoothed climb series.
// EndIndex is inclusive.
func Segments(points []Point, window time.Duration) []Segment {
	if len(points) == 0 {
		return nil
	}
	rates := ClimbSeries(points, window)

	var segs []Segment
	start := 0
	phase := Classify(rates[0])
	for i := 1; i <= len(points); i++ {
		if i < len(points) && Classify(rates[i]) == phase {
			continue
		}
		segs = append(segs, makeSegment(points, rates, phase, start, i-1))
		if i < len(points) {
			start = i
			phase = Classify(rates[i])
		}
	}
	return segs
}

func makeSegment(points []Point, rates []float64, phase Phase, start, end int) Segment {
	seg := Segment{
		Phase:      phase,
		StartIndex: start,
		EndIndex:   end,
	}
	seg.DurationSec = points[end].Time.Sub(points[start].Time).Seconds()
	seg.AltChangeM = points[end].Alt() - points[start].Alt()
	sum := 0.0
	for i := start; i <= end; i++ {
		sum += rates[i]
	}
	seg.AvgRateMps = sum / float64(end-start+1)
	return seg
}
