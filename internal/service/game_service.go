package service

import (
	"fmt"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/pgn"
)

// GameView is everything a client needs to draw a game.
type GameView struct {
	GameID  string               `json:"gameId"`
	Squares []model.Square       `json:"squares"`
	Turn    model.Side           `json:"turn"`
	Status  model.GameStatus     `json:"status"`
	Check   *model.Check         `json:"check"`
	CanUndo bool                 `json:"canUndo"`
	CanRedo bool                 `json:"canRedo"`
	Actions []model.ActionRecord `json:"actions"`
}

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID, err := gs.gameManager.CreateGame()
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) RestoreGame(s engine.Snapshot) (string, error) {
	return gs.gameManager.CreateFromSnapshot(s)
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

// GetGameState renders the game; orientation true puts white at the bottom.
func (gs *GameService) GetGameState(gameID string, orientation bool) (GameView, error) {
	var view GameView
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		view = viewOf(gameID, g, orientation)
		return nil
	})
	return view, err
}

func viewOf(gameID string, g *engine.Game, orientation bool) GameView {
	return GameView{
		GameID:  gameID,
		Squares: g.BoardAsSquares(orientation),
		Turn:    g.CurrentTurn(),
		Status:  g.GameStatus(),
		Check:   g.Check(),
		CanUndo: g.CanUndo(),
		CanRedo: g.CanRedo(),
		Actions: g.Actions(),
	}
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Resolution, error) {
	var moves []model.Resolution
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		moves = g.LegalMoves(from)
		return nil
	})
	return moves, err
}

func (gs *GameService) Resolve(gameID string, move model.Move) (model.Resolution, error) {
	var res model.Resolution
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		res = model.Resolution{Move: move, Action: g.ResolveAction(move)}
		return nil
	})
	return res, err
}

// Take commits the pending resolution and reports whether there was one.
func (gs *GameService) Take(gameID string) (bool, error) {
	var taken bool
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		taken = g.TakeResolvedAction()
		return nil
	})
	return taken, err
}

// HandleMove resolves and commits a move in one step.
func (gs *GameService) HandleMove(gameID string, move model.Move) (model.Resolution, error) {
	var res model.Resolution
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		g.AbandonResolution()
		res = model.Resolution{Move: move, Action: g.ResolveAction(move)}
		if res.Legal() {
			g.TakeResolvedAction()
		}
		return nil
	})
	return res, err
}

func (gs *GameService) Abandon(gameID string) error {
	return gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		g.AbandonResolution()
		return nil
	})
}

func (gs *GameService) Undo(gameID string) error {
	return gs.gameManager.WithGame(gameID, (*engine.Game).Undo)
}

func (gs *GameService) Redo(gameID string) error {
	return gs.gameManager.WithGame(gameID, (*engine.Game).Redo)
}

func (gs *GameService) Reset(gameID string) error {
	return gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		g.Reset()
		return nil
	})
}

func (gs *GameService) Concede(gameID string) error {
	return gs.gameManager.WithGame(gameID, (*engine.Game).Concede)
}

func (gs *GameService) CallADraw(gameID string) error {
	return gs.gameManager.WithGame(gameID, (*engine.Game).CallADraw)
}

func (gs *GameService) CheckStalemate(gameID string) (bool, error) {
	var stalemate bool
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		stalemate = g.CheckStalemate()
		return nil
	})
	return stalemate, err
}

func (gs *GameService) Snapshot(gameID string) (engine.Snapshot, error) {
	var s engine.Snapshot
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		s = g.TakeSnapshot()
		return nil
	})
	return s, err
}

// Restore replaces an existing game's state with s.
func (gs *GameService) Restore(gameID string, s engine.Snapshot) error {
	return gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		return g.RestoreFromSnapshot(s)
	})
}

func (gs *GameService) PGN(gameID string) (string, error) {
	var out string
	err := gs.gameManager.WithGame(gameID, func(g *engine.Game) error {
		var err error
		out, err = pgn.Export(g.Actions(), g.GameStatus(), map[string]string{
			"Event": "Casual game",
			"Site":  gameID,
			"Date":  time.Now().Format("2006.01.02"),
		})
		return err
	})
	return out, err
}

// Subscribe registers listener under listenerID on the game's notifier.
func (gs *GameService) Subscribe(gameID, listenerID string, listener engine.Listener) error {
	n, err := gs.gameManager.Notifier(gameID)
	if err != nil {
		return err
	}
	n.Register(listenerID, listener)
	logger().Info("Listener registered", "gameID", gameID, "listenerID", listenerID)
	return nil
}

func (gs *GameService) Unsubscribe(gameID, listenerID string) {
	n, err := gs.gameManager.Notifier(gameID)
	if err != nil {
		return
	}
	n.Unregister(listenerID)
	logger().Info("Listener unregistered", "gameID", gameID, "listenerID", listenerID)
}
