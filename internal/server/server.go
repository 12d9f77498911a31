package server

import (
	"backend-flightlog/internal/airspace"
	"backend-flightlog/internal/auth"
	"backend-flightlog/internal/config"
	"backend-flightlog/internal/flight"
	"backend-flightlog/internal/playback"
	"backend-flightlog/internal/settings"
	"backend-flightlog/internal/site"
	"backend-flightlog/internal/stats"
	"backend-flightlog/internal/wing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Playback *playback.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	fiberCfg := fiber.Config{}
	if cfg.MaxIGCSizeBytes > 0 {
		fiberCfg.BodyLimit = int(cfg.MaxIGCSizeBytes)
	}
	app := fiber.New(fiberCfg)
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Playback: playback.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	sites := site.NewService(s.DB)
	flights := flight.NewService(s.DB, sites, s.Playback)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	flight.RegisterRoutes(s.App.Group("/flights"), flights, jwtMiddleware)
	site.RegisterRoutes(s.App.Group("/sites"), sites, jwtMiddleware)
	wing.RegisterRoutes(s.App.Group("/wings"), wing.NewService(s.DB), jwtMiddleware)
	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.DB), jwtMiddleware)
	airspace.RegisterRoutes(s.App.Group("/airspace"),
		airspace.NewClient(s.Cfg.AirspaceAPIURL, s.Cfg.AirspaceTTLSec, s.Redis), flights, jwtMiddleware)
	settings.RegisterRoutes(s.App.Group("/settings"), settings.NewRedisRepository(s.Redis), jwtMiddleware)
	playback.RegisterRoutes(s.App.Group("/playback"), s.Playback, playback.NewService(s.Playback, flights), jwtMiddleware)
}
