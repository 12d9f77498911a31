package stats

import (
	"context"
	"sort"

	"backend-flightlog/internal/db"

	"gonum.org/v1/gonum/stat"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) PilotTotals(ctx context.Context, pilotID string) (Totals, error) {
	t := Totals{PilotID: pilotID}
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_sec),0), COALESCE(SUM(distance_m),0), COALESCE(MAX(max_alt_m),0)
		FROM flights WHERE pilot_id=$1
	`, pilotID).Scan(&t.FlightCount, &t.AirtimeSec, &t.DistanceM, &t.MaxAltM)
	return t, err
}

// YearlyRollup groups a pilot's flights by calendar year, newest first.
func (s *Service) YearlyRollup(ctx context.Context, pilotID string) ([]YearStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT EXTRACT(YEAR FROM flight_date)::int, COUNT(*),
		       COALESCE(SUM(duration_sec),0), COALESCE(SUM(distance_m),0)
		FROM flights WHERE pilot_id=$1
		GROUP BY 1 ORDER BY 1 DESC
	`, pilotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []YearStats
	for rows.Next() {
		var y YearStats
		if err := rows.Scan(&y.Year, &y.FlightCount, &y.AirtimeSec, &y.DistanceM); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// ClimbDistribution computes mean, median and 90th percentile over the best
// climb rate of each stored flight.
func (s *Service) ClimbDistribution(ctx context.Context, pilotID string) (ClimbDistribution, error) {
	rows, err := s.db.Query(ctx, `
		SELECT max_climb_mps FROM flights WHERE pilot_id=$1
	`, pilotID)
	if err != nil {
		return ClimbDistribution{}, err
	}
	defer rows.Close()

	var climbs []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return ClimbDistribution{}, err
		}
		climbs = append(climbs, c)
	}

	d := ClimbDistribution{PilotID: pilotID, Samples: len(climbs)}
	if len(climbs) == 0 {
		return d, nil
	}

	sort.Float64s(climbs)
	d.MeanMps = stat.Mean(climbs, nil)
	d.MedianMps = stat.Quantile(0.5, stat.Empirical, climbs, nil)
	d.P90Mps = stat.Quantile(0.9, stat.Empirical, climbs, nil)
	return d, nil
}
