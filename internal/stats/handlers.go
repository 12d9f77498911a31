package stats

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:pilotID/totals", authMiddleware, func(c *fiber.Ctx) error {
		t, err := svc.PilotTotals(c.Context(), c.Params("pilotID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(t)
	})

	r.Get("/:pilotID/yearly", authMiddleware, func(c *fiber.Ctx) error {
		years, err := svc.YearlyRollup(c.Context(), c.Params("pilotID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(years)
	})

	r.Get("/:pilotID/climb", authMiddleware, func(c *fiber.Ctx) error {
		d, err := svc.ClimbDistribution(c.Context(), c.Params("pilotID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(d)
	})
}
