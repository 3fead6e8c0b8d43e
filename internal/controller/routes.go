package controller

import (
	"log/slog"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// logger is looked up per call so it follows slog.SetDefault.
func logger() *slog.Logger {
	return slog.Default().With("package", "controller")
}

// Register mounts the REST API under /api/game and the event stream under
// /ws/game. origins limits which pages may open a websocket.
func Register(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/restore", gc.RestoreGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Delete("/:gameId", gc.DeleteGame)
	gameRoutes.Get("/:gameId/legal/:square", gc.LegalMoves)
	gameRoutes.Post("/:gameId/resolve", gc.Resolve)
	gameRoutes.Post("/:gameId/take", gc.Take)
	gameRoutes.Post("/:gameId/abandon", gc.Abandon)
	gameRoutes.Post("/:gameId/undo", gc.Undo)
	gameRoutes.Post("/:gameId/redo", gc.Redo)
	gameRoutes.Post("/:gameId/reset", gc.Reset)
	gameRoutes.Post("/:gameId/concede", gc.Concede)
	gameRoutes.Post("/:gameId/draw", gc.CallADraw)
	gameRoutes.Post("/:gameId/stalemate", gc.CheckStalemate)
	gameRoutes.Get("/:gameId/snapshot", gc.GetSnapshot)
	gameRoutes.Put("/:gameId/snapshot", gc.PutSnapshot)
	gameRoutes.Get("/:gameId/pgn", gc.GetPGN)
}
