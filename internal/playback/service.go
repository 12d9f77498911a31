package playback

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"backend-flightlog/internal/track"
)

var (
	ErrAlreadyRunning = errors.New("replay already running for flight")
	ErrNotRunning     = errors.New("no replay running for flight")
	ErrEmptyTrack     = errors.New("flight has no track points")
)

// PointsLoader is the slice of the flight service a replay needs.
type PointsLoader interface {
	Points(ctx context.Context, flightID string) ([]track.Point, error)
}

// Frame is one timed sample of a replayed track.
type Frame struct {
	Index    int       `json:"index"`
	At       time.Time `json:"at"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	AltM     float64   `json:"alt_m"`
	SpeedMps float64   `json:"speed_mps"`
	ClimbMps float64   `json:"climb_mps"`
	Done     bool      `json:"done,omitempty"`
}

// Service replays stored flights over the hub, one runner per flight.
type Service struct {
	hub    *Hub
	loader PointsLoader
	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func NewService(hub *Hub, loader PointsLoader) *Service {
	return &Service{
		hub:    hub,
		loader: loader,
		active: map[string]context.CancelFunc{},
	}
}

// Start loads the flight's track and begins streaming frames at the given
// speed multiplier. A speed of 0 or less plays back in real time.
func (s *Service) Start(ctx context.Context, flightID string, speed float64) error {
	points, err := s.loader.Points(ctx, flightID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return ErrEmptyTrack
	}
	if speed <= 0 {
		speed = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[flightID]; ok {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.active[flightID] = cancel
	go s.run(runCtx, flightID, points, speed)
	return nil
}

func (s *Service) Stop(flightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel, ok := s.active[flightID]
	if !ok {
		return ErrNotRunning
	}
	cancel()
	delete(s.active, flightID)
	return nil
}

func (s *Service) Running(flightID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[flightID]
	return ok
}

func (s *Service) run(ctx context.Context, flightID string, points []track.Point, speed float64) {
	defer func() {
		s.mu.Lock()
		delete(s.active, flightID)
		s.mu.Unlock()
	}()

	climbs := track.ClimbSeries(points, track.VarioWindow)
	for i, p := range points {
		if i > 0 {
			wait := p.Time.Sub(points[i-1].Time)
			if wait > 0 {
				wait = time.Duration(float64(wait) / speed)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}

		payload, _ := json.Marshal(Frame{
			Index:    i,
			At:       p.Time,
			Lat:      p.Lat,
			Lng:      p.Lng,
			AltM:     p.Alt(),
			SpeedMps: p.SpeedMps,
			ClimbMps: climbs[i],
		})
		s.hub.Broadcast(flightID, payload)
	}

	done, _ := json.Marshal(Frame{Index: len(points) - 1, Done: true})
	s.hub.Broadcast(flightID, done)
}
