package flight

import (
	"strconv"
	"time"

	"backend-flightlog/internal/track"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/import", authMiddleware, func(c *fiber.Ctx) error {
		pilotID, _ := c.Locals("pilot_id").(string)
		if pilotID == "" {
			pilotID = c.FormValue("pilot_id")
		}
		if pilotID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pilot_id required")
		}

		fileHeader, err := c.FormFile("igc")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "igc file required")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer file.Close()

		f, err := svc.ImportIGC(c.Context(), pilotID, fileHeader.Filename, file)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		f, err := svc.GetFlight(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "flight not found")
		}
		return c.JSON(f)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Flight
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f, err := svc.UpdateFlight(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(f)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteFlight(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		pilotID := c.Query("pilot_id")
		if pilotID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pilot_id required")
		}
		year, _ := strconv.Atoi(c.Query("year"))
		flights, err := svc.ListFlights(c.Context(), pilotID, year)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(flights)
	})

	r.Get("/:id/points", func(c *fiber.Ctx) error {
		points, err := svc.Points(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(points)
	})

	r.Get("/:id/analysis", func(c *fiber.Ctx) error {
		a, err := svc.Analyse(c.Context(), c.Params("id"))
		if err == ErrEmptyTrack {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(a)
	})

	r.Get("/:id/climb", func(c *fiber.Ctx) error {
		window := track.SmoothWindow
		if sec, err := strconv.Atoi(c.Query("window_sec")); err == nil && sec > 0 {
			window = time.Duration(sec) * time.Second
		}
		rates, err := svc.ClimbSeries(c.Context(), c.Params("id"), window)
		if err == ErrEmptyTrack {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"window_sec": int(window.Seconds()), "rates_mps": rates})
	})

	r.Get("/:id/nearest", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		np, err := svc.Nearest(c.Context(), c.Params("id"), lat, lng)
		if err == ErrEmptyTrack {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(np)
	})
}
