package wing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestWingHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO wings`).
		WithArgs(pgxmock.AnyArg(), "pilot-1", "Ozone", "Rush 6", "", "", nil).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/wings"), NewService(mock), passthrough)

	body, _ := json.Marshal(Wing{PilotID: "pilot-1", Manufacturer: "Ozone", Model: "Rush 6"})
	req := httptest.NewRequest(http.MethodPost, "/wings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create wing status: %v", err)
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(duration_sec\),0\)`).
		WithArgs("wing-1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "airtime", "distance"}).AddRow(3, int64(7200), 52000.0))

	req = httptest.NewRequest(http.MethodGet, "/wings/wing-1/usage", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("usage status: %v", err)
	}
}

func TestWingHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/wings"), NewService(nil), passthrough)

	req := httptest.NewRequest(http.MethodPost, "/wings/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}

	req = httptest.NewRequest(http.MethodGet, "/wings/?pilot_id=", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing pilot_id")
	}
}
