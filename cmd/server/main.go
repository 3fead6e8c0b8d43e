package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/controller"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Flags (env fallbacks).
	addr := flag.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := flag.String("origins", getenv("CHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma-separated origins allowed to call the API")
	logLevel := flag.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("Invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	allowed := splitCSV(*origins)

	app := fiber.New(fiber.Config{
		AppName: "chess-backend",
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowed, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	controller.Register(app, gameController, wsController, allowed)

	slog.Info("HTTP listening", "addr", *addr, "origins", allowed, "level", level)
	if err := app.Listen(*addr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
