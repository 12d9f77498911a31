package wing

import (
	"context"
	"time"

	"backend-flightlog/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) CreateWing(ctx context.Context, input Wing) (Wing, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO wings (id, pilot_id, manufacturer, model, size, certification, purchased_on)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.PilotID, input.Manufacturer, input.Model, input.Size, input.Certification, timePtr(input.PurchasedOn))
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Wing{}, err
	}
	return input, nil
}

func (s *Service) GetWing(ctx context.Context, id string) (Wing, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, pilot_id, manufacturer, model, COALESCE(size,''), COALESCE(certification,''),
		       purchased_on, retired, created_at
		FROM wings WHERE id=$1
	`, id)
	var w Wing
	var purchased *time.Time
	if err := row.Scan(&w.ID, &w.PilotID, &w.Manufacturer, &w.Model, &w.Size, &w.Certification, &purchased, &w.Retired, &w.CreatedAt); err != nil {
		return Wing{}, err
	}
	if purchased != nil {
		w.PurchasedOn = *purchased
	}
	return w, nil
}

func (s *Service) UpdateWing(ctx context.Context, id string, patch Wing) (Wing, error) {
	w, err := s.GetWing(ctx, id)
	if err != nil {
		return Wing{}, err
	}
	if patch.Manufacturer != "" {
		w.Manufacturer = patch.Manufacturer
	}
	if patch.Model != "" {
		w.Model = patch.Model
	}
	if patch.Size != "" {
		w.Size = patch.Size
	}
	if patch.Certification != "" {
		w.Certification = patch.Certification
	}
	if !patch.PurchasedOn.IsZero() {
		w.PurchasedOn = patch.PurchasedOn
	}

	_, err = s.db.Exec(ctx, `
		UPDATE wings
		SET manufacturer=$2, model=$3, size=$4, certification=$5, purchased_on=$6
		WHERE id=$1
	`, w.ID, w.Manufacturer, w.Model, w.Size, w.Certification, timePtr(w.PurchasedOn))
	if err != nil {
		return Wing{}, err
	}
	return w, nil
}

// SetRetired flips the retired flag; retired wings stay selectable on old
// flights but are hidden from new ones.
func (s *Service) SetRetired(ctx context.Context, id string, retired bool) error {
	_, err := s.db.Exec(ctx, `UPDATE wings SET retired=$2 WHERE id=$1`, id, retired)
	return err
}

func (s *Service) DeleteWing(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM wings WHERE id=$1`, id)
	return err
}

func (s *Service) ListWings(ctx context.Context, pilotID string, includeRetired bool) ([]Wing, error) {
	query := `
		SELECT id, pilot_id, manufacturer, model, COALESCE(size,''), COALESCE(certification,''),
		       purchased_on, retired, created_at
		FROM wings WHERE pilot_id=$1`
	if !includeRetired {
		query += ` AND retired=false`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, pilotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wings []Wing
	for rows.Next() {
		var w Wing
		var purchased *time.Time
		if err := rows.Scan(&w.ID, &w.PilotID, &w.Manufacturer, &w.Model, &w.Size, &w.Certification, &purchased, &w.Retired, &w.CreatedAt); err != nil {
			return nil, err
		}
		if purchased != nil {
			w.PurchasedOn = *purchased
		}
		wings = append(wings, w)
	}
	return wings, nil
}

// WingUsage rolls up flights logged on a wing.
func (s *Service) WingUsage(ctx context.Context, id string) (Usage, error) {
	u := Usage{WingID: id}
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_sec),0), COALESCE(SUM(distance_m),0)
		FROM flights WHERE wing_id=$1
	`, id).Scan(&u.FlightCount, &u.AirtimeSec, &u.DistanceM)
	return u, err
}

func timePtr(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
