package stats

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestStatsHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(duration_sec\),0\)`).
		WithArgs("pilot-1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "airtime", "distance", "maxalt"}).
			AddRow(5, int64(18000), 120000.0, 2400.0))

	app := fiber.New()
	RegisterRoutes(app.Group("/stats"), NewService(mock), passthrough)

	req := httptest.NewRequest(http.MethodGet, "/stats/pilot-1/totals", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("totals status: %v", err)
	}

	var totals Totals
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &totals); err != nil || totals.FlightCount != 5 {
		t.Fatalf("unexpected totals: %s", raw)
	}

	mock.ExpectQuery(`EXTRACT\(YEAR FROM flight_date\)`).
		WithArgs("pilot-1").
		WillReturnRows(pgxmock.NewRows([]string{"year", "count", "airtime", "distance"}).
			AddRow(2026, 5, int64(18000), 120000.0))

	req = httptest.NewRequest(http.MethodGet, "/stats/pilot-1/yearly", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("yearly status: %v", err)
	}

	mock.ExpectQuery(`SELECT max_climb_mps FROM flights`).
		WithArgs("pilot-1").
		WillReturnRows(pgxmock.NewRows([]string{"max_climb_mps"}).AddRow(2.5))

	req = httptest.NewRequest(http.MethodGet, "/stats/pilot-1/climb", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("climb status: %v", err)
	}
}
