package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/pgn"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

// RestoreGame creates a new game from a snapshot in the request body.
func (gc *GameController) RestoreGame(c *fiber.Ctx) error {
	snapshot, err := engine.ParseSnapshot(c.Body())
	if err != nil {
		return sendError(c, err)
	}
	gameID, err := gc.gameService.RestoreGame(snapshot)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game restored",
		"game_id": gameID,
	})
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetGameState renders the board from white's side unless ?orientation=black.
func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	orientation := c.Query("orientation") != string(model.Black)
	view, err := gc.gameService.GetGameState(c.Params("gameId"), orientation)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := model.ParsePosition(c.Params("square"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return sendError(c, err)
	}
	if moves == nil {
		moves = []model.Resolution{}
	}
	return c.JSON(fiber.Map{"from": from, "moves": moves})
}

func (gc *GameController) Resolve(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := gc.gameService.Resolve(c.Params("gameId"), move)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Take(c *fiber.Ctx) error {
	taken, err := gc.gameService.Take(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	if !taken {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no legal move is pending"})
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Abandon(c *fiber.Ctx) error {
	if err := gc.gameService.Abandon(c.Params("gameId")); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// command adapts a service call that only returns an error into a handler
// that answers with the new game state.
func (gc *GameController) command(fn func(gameID string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := fn(c.Params("gameId")); err != nil {
			return sendError(c, err)
		}
		return gc.GetGameState(c)
	}
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	return gc.command(gc.gameService.Undo)(c)
}

func (gc *GameController) Redo(c *fiber.Ctx) error {
	return gc.command(gc.gameService.Redo)(c)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	return gc.command(gc.gameService.Reset)(c)
}

func (gc *GameController) Concede(c *fiber.Ctx) error {
	return gc.command(gc.gameService.Concede)(c)
}

func (gc *GameController) CallADraw(c *fiber.Ctx) error {
	return gc.command(gc.gameService.CallADraw)(c)
}

func (gc *GameController) CheckStalemate(c *fiber.Ctx) error {
	stalemate, err := gc.gameService.CheckStalemate(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{"stalemate": stalemate})
}

func (gc *GameController) GetSnapshot(c *fiber.Ctx) error {
	snapshot, err := gc.gameService.Snapshot(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(snapshot)
}

func (gc *GameController) PutSnapshot(c *fiber.Ctx) error {
	snapshot, err := engine.ParseSnapshot(c.Body())
	if err != nil {
		return sendError(c, err)
	}
	if err := gc.gameService.Restore(c.Params("gameId"), snapshot); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) GetPGN(c *fiber.Ctx) error {
	out, err := gc.gameService.PGN(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/x-chess-pgn")
	return c.SendString(out)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrMalformedSnapshot):
		return fiber.StatusBadRequest
	case errors.Is(err, engine.ErrNotInPlay),
		errors.Is(err, engine.ErrNothingToUndo),
		errors.Is(err, engine.ErrNothingToRedo):
		return fiber.StatusConflict
	case errors.Is(err, pgn.ErrNotReplayable):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		logger().Error("Request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
