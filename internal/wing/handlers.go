package wing

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Wing
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.PilotID == "" || req.Manufacturer == "" || req.Model == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pilot_id, manufacturer and model required")
		}
		w, err := svc.CreateWing(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		pilotID := c.Query("pilot_id")
		if pilotID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pilot_id required")
		}
		wings, err := svc.ListWings(c.Context(), pilotID, c.QueryBool("include_retired"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(wings)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		w, err := svc.GetWing(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "wing not found")
		}
		return c.JSON(w)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Wing
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		w, err := svc.UpdateWing(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(w)
	})

	r.Post("/:id/retire", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Retired bool `json:"retired"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.SetRetired(c.Context(), c.Params("id"), body.Retired); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"retired": body.Retired})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteWing(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/usage", func(c *fiber.Ctx) error {
		u, err := svc.WingUsage(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(u)
	})
}
