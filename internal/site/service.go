package site

import (
	"context"
	"errors"

	"backend-flightlog/internal/db"

	"github.com/google/uuid"
)

// matchRadiusM bounds how far a launch fix may sit from a site to count as
// flying that site.
const matchRadiusM = 500.0

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) CreateSite(ctx context.Context, input Site) (Site, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO sites (id, name, description, country, location, altitude_m, created_by, is_verified)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, $7, $8, $9)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.Country, input.Lng, input.Lat, input.AltitudeM, input.CreatedBy, input.IsVerified)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Site{}, err
	}
	return input, nil
}

func (s *Service) GetSite(ctx context.Context, id string) (Site, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, country, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(altitude_m,0), created_by, is_verified, created_at
		FROM sites WHERE id=$1
	`, id)
	var st Site
	if err := row.Scan(&st.ID, &st.Name, &st.Description, &st.Country, &st.Lat, &st.Lng, &st.AltitudeM, &st.CreatedBy, &st.IsVerified, &st.CreatedAt); err != nil {
		return Site{}, err
	}
	return st, nil
}

func (s *Service) UpdateSite(ctx context.Context, id string, patch Site) (Site, error) {
	st, err := s.GetSite(ctx, id)
	if err != nil {
		return Site{}, err
	}
	if patch.Name != "" {
		st.Name = patch.Name
	}
	if patch.Description != "" {
		st.Description = patch.Description
	}
	if patch.Country != "" {
		st.Country = patch.Country
	}
	if patch.Lat != 0 {
		st.Lat = patch.Lat
	}
	if patch.Lng != 0 {
		st.Lng = patch.Lng
	}
	if patch.AltitudeM != 0 {
		st.AltitudeM = patch.AltitudeM
	}
	if patch.IsVerified {
		st.IsVerified = true
	}

	_, err = s.db.Exec(ctx, `
		UPDATE sites
		SET name=$2, description=$3, country=$4,
		    location=ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography,
		    altitude_m=$7, is_verified=$8
		WHERE id=$1
	`, st.ID, st.Name, st.Description, st.Country, st.Lng, st.Lat, st.AltitudeM, st.IsVerified)
	if err != nil {
		return Site{}, err
	}
	return st, nil
}

func (s *Service) DeleteSite(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sites WHERE id=$1`, id)
	return err
}

// Search returns sites within radiusKm of a coordinate, newest first.
func (s *Service) Search(ctx context.Context, lat, lng, radiusKm float64) ([]Site, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, country, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(altitude_m,0), created_by, is_verified, created_at
		FROM sites
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY created_at DESC
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Site
	for rows.Next() {
		var st Site
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.Country, &st.Lat, &st.Lng, &st.AltitudeM, &st.CreatedBy, &st.IsVerified, &st.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, nil
}

// MatchLaunch finds the site closest to a launch coordinate within the match
// radius, used to auto-assign imported flights.
func (s *Service) MatchLaunch(ctx context.Context, lat, lng float64) (Match, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, country, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(altitude_m,0), created_by, is_verified, created_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography)
		FROM sites
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography
		LIMIT 1
	`, lng, lat, matchRadiusM)
	var m Match
	if err := row.Scan(&m.Site.ID, &m.Site.Name, &m.Site.Description, &m.Site.Country,
		&m.Site.Lat, &m.Site.Lng, &m.Site.AltitudeM, &m.Site.CreatedBy, &m.Site.IsVerified,
		&m.Site.CreatedAt, &m.DistanceM); err != nil {
		return Match{}, err
	}
	return m, nil
}

// HasFlown reports whether the pilot has a flight launched at the site.
func (s *Service) HasFlown(ctx context.Context, siteID, pilotID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM flights f
			JOIN sites st ON ST_DWithin(f.launch_location, st.location, $3)
			WHERE st.id = $1 AND f.pilot_id = $2
		)
	`, siteID, pilotID, matchRadiusM).Scan(&ok)
	return ok, err
}

// AddReview upserts a pilot's review; only pilots who flew the site may
// review it.
func (s *Service) AddReview(ctx context.Context, siteID, pilotID string, rating int, comment string) (Review, error) {
	flown, err := s.HasFlown(ctx, siteID, pilotID)
	if err != nil {
		return Review{}, err
	}
	if !flown {
		return Review{}, errors.New("pilot has not flown this site")
	}

	review := Review{
		ID:      uuid.NewString(),
		SiteID:  siteID,
		PilotID: pilotID,
		Rating:  rating,
		Comment: comment,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO site_reviews (id, site_id, pilot_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (site_id, pilot_id) DO UPDATE
		SET rating=EXCLUDED.rating, comment=EXCLUDED.comment
		RETURNING created_at
	`, review.ID, review.SiteID, review.PilotID, review.Rating, review.Comment)
	if err := row.Scan(&review.CreatedAt); err != nil {
		return Review{}, err
	}
	return review, nil
}

func (s *Service) Reviews(ctx context.Context, siteID string) ([]Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, site_id, pilot_id, rating, comment, created_at
		FROM site_reviews WHERE site_id=$1
		ORDER BY created_at DESC
	`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.SiteID, &r.PilotID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}
