package flight

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"backend-flightlog/internal/db"
	"backend-flightlog/internal/geo"
	"backend-flightlog/internal/igc"
	"backend-flightlog/internal/site"
	"backend-flightlog/internal/track"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrEmptyTrack = errors.New("flight has no track points")

// LaunchMatcher resolves the launch site nearest to a launch fix.
type LaunchMatcher interface {
	MatchLaunch(ctx context.Context, lat, lng float64) (site.Match, error)
}

// Broadcaster pushes imported flights to replay subscribers.
type Broadcaster interface {
	Broadcast(flightID string, payload []byte)
}

type Service struct {
	db    db.Querier
	sites LaunchMatcher
	hub   Broadcaster
}

// NewService wires persistence plus the optional launch-site matcher and
// playback hub; nil disables either hook.
func NewService(q db.Querier, sites LaunchMatcher, hub Broadcaster) *Service {
	return &Service{db: q, sites: sites, hub: hub}
}

// ImportIGC parses a raw IGC log, derives the flight record from its track
// and persists the flight, its points and the raw file in one pass.
func (s *Service) ImportIGC(ctx context.Context, pilotID, fileName string, r io.Reader) (Flight, error) {
	trkLog, err := igc.Parse(r)
	if err != nil {
		return Flight{}, err
	}

	points := toTrack(trkLog.Fixes)
	stats := track.Stats(points)

	first := points[0]
	last := points[len(points)-1]

	f := Flight{
		ID:          uuid.NewString(),
		PilotID:     pilotID,
		FlightDate:  trkLog.Date,
		LaunchAt:    first.Time,
		LandAt:      last.Time,
		LaunchLat:   first.Lat,
		LaunchLng:   first.Lng,
		LandLat:     last.Lat,
		LandLng:     last.Lng,
		DurationSec: stats.DurationSec,
		DistanceM:   stats.DistanceM,
		MaxAltM:     stats.MaxAltM,
		MaxClimbMps: stats.MaxClimbMps,
		MaxSinkMps:  stats.MaxSinkMps,
		IGCFileName: fileName,
	}

	if s.sites != nil {
		m, err := s.sites.MatchLaunch(ctx, f.LaunchLat, f.LaunchLng)
		switch {
		case err == nil:
			f.SiteID = m.Site.ID
		case !errors.Is(err, pgx.ErrNoRows):
			log.Printf("launch site match failed: %v", err)
		}
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO flights (id, pilot_id, flight_date, launch_at, land_at,
			launch_location, land_location,
			duration_sec, distance_m, max_alt_m, max_climb_mps, max_sink_mps, igc_file_name, site_id)
		VALUES ($1,$2,$3,$4,$5,
			ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography,
			ST_SetSRID(ST_MakePoint($8,$9), 4326)::geography,
			$10,$11,$12,$13,$14,$15, NULLIF($16,'')::uuid)
		RETURNING created_at
	`, f.ID, f.PilotID, f.FlightDate, f.LaunchAt, f.LandAt,
		f.LaunchLng, f.LaunchLat, f.LandLng, f.LandLat,
		f.DurationSec, f.DistanceM, f.MaxAltM, f.MaxClimbMps, f.MaxSinkMps, f.IGCFileName, f.SiteID)
	if err := row.Scan(&f.CreatedAt); err != nil {
		return Flight{}, err
	}

	for i, p := range points {
		_, err := s.db.Exec(ctx, `
			INSERT INTO flight_points (flight_id, idx, recorded_at, location, gps_alt_m, pressure_alt_m, speed_mps)
			VALUES ($1,$2,$3, ST_SetSRID(ST_MakePoint($4,$5), 4326)::geography, $6,$7,$8)
		`, f.ID, i, p.Time, p.Lng, p.Lat, p.GPSAlt, p.PressureAlt, p.SpeedMps)
		if err != nil {
			return Flight{}, err
		}
	}

	if s.hub != nil {
		if payload, err := json.Marshal(f); err == nil {
			s.hub.Broadcast(f.ID, payload)
		}
	}

	return f, nil
}

func toTrack(fixes []igc.Fix) []track.Point {
	points := make([]track.Point, len(fixes))
	for i, fx := range fixes {
		points[i] = track.Point{
			Time:        fx.Time,
			Lat:         fx.Lat,
			Lng:         fx.Lng,
			GPSAlt:      fx.GPSAlt,
			PressureAlt: fx.PressureAlt,
			SpeedMps:    fx.SpeedMps,
		}
	}
	return points
}

func (s *Service) GetFlight(ctx context.Context, id string) (Flight, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, pilot_id, COALESCE(site_id::text,''), COALESCE(wing_id::text,''),
		       flight_date, launch_at, land_at,
		       ST_Y(launch_location::geometry), ST_X(launch_location::geometry),
		       ST_Y(land_location::geometry), ST_X(land_location::geometry),
		       duration_sec, distance_m, max_alt_m, max_climb_mps, max_sink_mps,
		       COALESCE(igc_file_name,''), COALESCE(comment,''), created_at
		FROM flights WHERE id=$1
	`, id)
	var f Flight
	if err := row.Scan(&f.ID, &f.PilotID, &f.SiteID, &f.WingID,
		&f.FlightDate, &f.LaunchAt, &f.LandAt,
		&f.LaunchLat, &f.LaunchLng, &f.LandLat, &f.LandLng,
		&f.DurationSec, &f.DistanceM, &f.MaxAltM, &f.MaxClimbMps, &f.MaxSinkMps,
		&f.IGCFileName, &f.Comment, &f.CreatedAt); err != nil {
		return Flight{}, err
	}
	return f, nil
}

// UpdateFlight patches the mutable fields: site, wing and comment.
func (s *Service) UpdateFlight(ctx context.Context, id string, patch Flight) (Flight, error) {
	f, err := s.GetFlight(ctx, id)
	if err != nil {
		return Flight{}, err
	}
	if patch.SiteID != "" {
		f.SiteID = patch.SiteID
	}
	if patch.WingID != "" {
		f.WingID = patch.WingID
	}
	if patch.Comment != "" {
		f.Comment = patch.Comment
	}

	_, err = s.db.Exec(ctx, `
		UPDATE flights
		SET site_id=NULLIF($2,'')::uuid, wing_id=NULLIF($3,'')::uuid, comment=$4
		WHERE id=$1
	`, f.ID, f.SiteID, f.WingID, f.Comment)
	if err != nil {
		return Flight{}, err
	}
	return f, nil
}

func (s *Service) DeleteFlight(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM flight_points WHERE flight_id=$1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	return err
}

// ListFlights returns a pilot's flights, newest first, optionally limited to
// one year.
func (s *Service) ListFlights(ctx context.Context, pilotID string, year int) ([]Flight, error) {
	query := `
		SELECT id, pilot_id, COALESCE(site_id::text,''), COALESCE(wing_id::text,''),
		       flight_date, launch_at, land_at,
		       ST_Y(launch_location::geometry), ST_X(launch_location::geometry),
		       ST_Y(land_location::geometry), ST_X(land_location::geometry),
		       duration_sec, distance_m, max_alt_m, max_climb_mps, max_sink_mps,
		       COALESCE(igc_file_name,''), COALESCE(comment,''), created_at
		FROM flights WHERE pilot_id=$1`
	args := []any{pilotID}
	if year > 0 {
		query += ` AND EXTRACT(YEAR FROM flight_date)=$2`
		args = append(args, year)
	}
	query += ` ORDER BY launch_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		if err := rows.Scan(&f.ID, &f.PilotID, &f.SiteID, &f.WingID,
			&f.FlightDate, &f.LaunchAt, &f.LandAt,
			&f.LaunchLat, &f.LaunchLng, &f.LandLat, &f.LandLng,
			&f.DurationSec, &f.DistanceM, &f.MaxAltM, &f.MaxClimbMps, &f.MaxSinkMps,
			&f.IGCFileName, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// Points loads a flight's track ordered by index.
func (s *Service) Points(ctx context.Context, flightID string) ([]track.Point, error) {
	rows, err := s.db.Query(ctx, `
		SELECT recorded_at, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(gps_alt_m,0), COALESCE(pressure_alt_m,0), COALESCE(speed_mps,0)
		FROM flight_points WHERE flight_id=$1
		ORDER BY idx
	`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []track.Point
	for rows.Next() {
		var p track.Point
		if err := rows.Scan(&p.Time, &p.Lat, &p.Lng, &p.GPSAlt, &p.PressureAlt, &p.SpeedMps); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Analyse recomputes the derived view of a stored flight.
func (s *Service) Analyse(ctx context.Context, flightID string) (Analysis, error) {
	points, err := s.Points(ctx, flightID)
	if err != nil {
		return Analysis{}, err
	}
	if len(points) == 0 {
		return Analysis{}, ErrEmptyTrack
	}

	a := Analysis{
		FlightID: flightID,
		Summary:  track.Stats(points),
		Segments: track.Segments(points, track.SmoothWindow),
	}
	a.Bounds, _ = geo.BoundsOf(track.Points(points))
	if tri, ok := track.DetectTriangle(points); ok {
		a.Triangle = &tri
	}
	return a, nil
}

// ClimbSeries returns the smoothed climb rate for every stored point.
func (s *Service) ClimbSeries(ctx context.Context, flightID string, window time.Duration) ([]float64, error) {
	points, err := s.Points(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	return track.ClimbSeries(points, window), nil
}

// Nearest finds the stored track point closest to a query coordinate.
func (s *Service) Nearest(ctx context.Context, flightID string, lat, lng float64) (NearestPoint, error) {
	points, err := s.Points(ctx, flightID)
	if err != nil {
		return NearestPoint{}, err
	}
	idx := track.ClosestIndex(points, lat, lng)
	if idx < 0 {
		return NearestPoint{}, ErrEmptyTrack
	}
	p := points[idx]
	return NearestPoint{
		Index:     idx,
		Point:     p,
		DistanceM: geo.HaversineM(lat, lng, p.Lat, p.Lng),
	}, nil
}
