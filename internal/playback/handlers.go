package playback

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/ws/:flightID", websocket.New(func(c *websocket.Conn) {
		flightID := c.Params("flightID")
		client := hub.Register(flightID)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case msg := <-client.Send:
					if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-client.Done():
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))

	r.Post("/:flightID/start", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Speed float64 `json:"speed"`
		}
		if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		flightID := c.Params("flightID")
		switch err := svc.Start(c.Context(), flightID, body.Speed); {
		case err == nil:
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"flight_id": flightID, "running": true})
		case errors.Is(err, ErrAlreadyRunning):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, ErrEmptyTrack):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	})

	r.Post("/:flightID/stop", authMiddleware, func(c *fiber.Ctx) error {
		flightID := c.Params("flightID")
		if err := svc.Stop(flightID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"flight_id": flightID, "running": false})
	})
}
