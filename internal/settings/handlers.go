package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, repo Repository, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		pilotID, _ := c.Locals("pilot_id").(string)
		all, err := repo.All(c.Context(), pilotID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(all)
	})

	r.Get("/:key", authMiddleware, func(c *fiber.Ctx) error {
		pilotID, _ := c.Locals("pilot_id").(string)
		val, err := repo.Get(c.Context(), pilotID, c.Params("key"))
		if errors.Is(err, ErrUnknownKey) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"key": c.Params("key"), "value": val})
	})

	r.Put("/:key", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Value string `json:"value"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		pilotID, _ := c.Locals("pilot_id").(string)
		err := repo.Set(c.Context(), pilotID, c.Params("key"), body.Value)
		if errors.Is(err, ErrUnknownKey) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"key": c.Params("key"), "value": body.Value})
	})
}
