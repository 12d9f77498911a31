package playback

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"backend-flightlog/internal/track"
)

type stubLoader struct {
	points []track.Point
}

func (s stubLoader) Points(ctx context.Context, flightID string) ([]track.Point, error) {
	return s.points, nil
}

func replayTrack(n int) []track.Point {
	t0 := time.Date(2024, 6, 15, 11, 0, 0, 0, time.UTC)
	points := make([]track.Point, n)
	for i := range points {
		points[i] = track.Point{
			Time:        t0.Add(time.Duration(i) * time.Second),
			Lat:         46.0 + float64(i)*0.0001,
			Lng:         8.0,
			PressureAlt: 1000 + float64(i),
		}
	}
	return points
}

func TestReplayStreamsFrames(t *testing.T) {
	hub := NewHub(nil)
	svc := NewService(hub, stubLoader{points: replayTrack(3)})

	client := hub.Register("flight-1")
	defer hub.Unregister(client)

	if err := svc.Start(context.Background(), "flight-1", 100); err != nil {
		t.Fatalf("start: %v", err)
	}

	var frames []Frame
	deadline := time.After(2 * time.Second)
	for len(frames) == 0 || !frames[len(frames)-1].Done {
		select {
		case msg := <-client.Send:
			var f Frame
			if err := json.Unmarshal(msg, &f); err != nil {
				t.Fatalf("unmarshal frame: %v", err)
			}
			frames = append(frames, f)
		case <-deadline:
			t.Fatalf("timeout, got %d frames", len(frames))
		}
	}

	if len(frames) != 4 {
		t.Fatalf("expected 3 frames plus done, got %d", len(frames))
	}
	if frames[0].Index != 0 || frames[2].Index != 2 {
		t.Fatalf("frames out of order: %+v", frames)
	}
	if frames[1].AltM != 1001 {
		t.Fatalf("alt = %v, want 1001", frames[1].AltM)
	}
	if svc.Running("flight-1") {
		t.Fatalf("replay should have finished")
	}
}

func TestReplayStartTwice(t *testing.T) {
	hub := NewHub(nil)
	svc := NewService(hub, stubLoader{points: replayTrack(600)})

	if err := svc.Start(context.Background(), "flight-1", 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Start(context.Background(), "flight-1", 1); err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if err := svc.Stop("flight-1"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := svc.Stop("flight-1"); err != ErrNotRunning {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestReplaySurvivesClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	svc := NewService(hub, stubLoader{points: replayTrack(50)})
	client := hub.Register("flight-1")

	if err := svc.Start(context.Background(), "flight-1", 200); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	hub.Unregister(client)

	deadline := time.After(2 * time.Second)
	for svc.Running("flight-1") {
		select {
		case <-deadline:
			t.Fatalf("replay did not finish after client disconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestReplayEmptyTrack(t *testing.T) {
	svc := NewService(NewHub(nil), stubLoader{})
	if err := svc.Start(context.Background(), "flight-1", 1); err != ErrEmptyTrack {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
}
