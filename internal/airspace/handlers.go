package airspace

import (
	"context"

	"backend-flightlog/internal/geo"
	"backend-flightlog/internal/track"

	"github.com/gofiber/fiber/v2"
)

// boundsPadDeg widens a track's box so zones just outside the flown line
// still show up.
const boundsPadDeg = 0.05

// TrackLoader is the slice of the flight service the airspace lookup needs.
type TrackLoader interface {
	Points(ctx context.Context, flightID string) ([]track.Point, error)
}

func RegisterRoutes(r fiber.Router, client *Client, loader TrackLoader, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		b := geo.Bounds{
			MinLat: c.QueryFloat("min_lat"),
			MinLng: c.QueryFloat("min_lng"),
			MaxLat: c.QueryFloat("max_lat"),
			MaxLng: c.QueryFloat("max_lng"),
		}
		if b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "bounding box required")
		}

		res, err := client.ZonesForBounds(c.Context(), b)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(res)
	})

	r.Get("/flights/:flightID", authMiddleware, func(c *fiber.Ctx) error {
		points, err := loader.Points(c.Context(), c.Params("flightID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		b, ok := geo.BoundsOf(track.Points(points))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "flight has no track points")
		}

		res, err := client.ZonesForBounds(c.Context(), b.Pad(boundsPadDeg))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(res)
	})
}
