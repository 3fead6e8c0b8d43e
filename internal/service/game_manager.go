package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/google/uuid"
)

func logger() *slog.Logger {
	return slog.Default().With("package", "service")
}

var ErrGameNotFound = errors.New("game not found")

// managedGame serializes access to one engine game, which is single-threaded.
type managedGame struct {
	mu   sync.Mutex
	game *engine.Game
}

type GameManager struct {
	games map[string]*managedGame
	mu    sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games: make(map[string]*managedGame),
	}
}

func (gm *GameManager) CreateGame() (string, error) {
	gameID := uuid.New().String()
	return gameID, gm.add(gameID, engine.NewGame())
}

// CreateFromSnapshot starts a new game restored from s.
func (gm *GameManager) CreateFromSnapshot(s engine.Snapshot) (string, error) {
	game := engine.NewGame()
	if err := game.RestoreFromSnapshot(s); err != nil {
		return "", err
	}
	gameID := uuid.New().String()
	return gameID, gm.add(gameID, game)
}

func (gm *GameManager) add(gameID string, game *engine.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("game %s already exists", gameID)
	}
	gm.games[gameID] = &managedGame{game: game}
	logger().Info("Game created", "gameID", gameID, "games", len(gm.games))
	return nil
}

// WithGame runs fn with exclusive access to the game.
func (gm *GameManager) WithGame(gameID string, fn func(*engine.Game) error) error {
	gm.mu.RLock()
	mg, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	return fn(mg.game)
}

// Notifier returns the game's notifier. Notifiers are safe to use without the game lock.
func (gm *GameManager) Notifier(gameID string) (*engine.Notifier, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	mg, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return mg.game.Notifier(), nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(gm.games, gameID)
	logger().Info("Game deleted", "gameID", gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
