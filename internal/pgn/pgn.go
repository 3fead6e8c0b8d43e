// Package pgn renders an engine game's history as Portable Game Notation.
package pgn

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	chess "github.com/corentings/chess/v2"

	"github.com/benbeisheim/chess-backend/internal/model"
)

func logger() *slog.Logger {
	return slog.Default().With("package", "pgn")
}

var ErrNotReplayable = errors.New("history cannot be replayed from the starting position")

// Replay plays records from the standard starting position.
func Replay(records []model.ActionRecord) (*chess.Game, error) {
	game := chess.NewGame()
	for i, rec := range records {
		pos := game.Position()
		move, err := chess.UCINotation{}.Decode(pos, uci(rec))
		if err != nil {
			return nil, fmt.Errorf("%w: ply %d %s: %v", ErrNotReplayable, i+1, rec, err)
		}
		san := chess.AlgebraicNotation{}.Encode(pos, move)
		if err := game.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
			logger().Error("Error replaying move", "error", err, "ply", i+1, "move", rec.String(), "san", san)
			return nil, fmt.Errorf("%w: ply %d %s: %v", ErrNotReplayable, i+1, rec, err)
		}
	}
	return game, nil
}

// Export renders records and the game's outcome as PGN with the given tag pairs.
func Export(records []model.ActionRecord, status model.GameStatus, tags map[string]string) (string, error) {
	game, err := Replay(records)
	if err != nil {
		return "", err
	}
	for k, v := range tags {
		game.AddTagPair(k, v)
	}

	switch status.State {
	case model.StateConceded:
		game.Resign(color(status.Victor.Opponent()))
	case model.StateDraw:
		if err := game.Draw(chess.DrawOffer); err != nil {
			return "", fmt.Errorf("record draw: %w", err)
		}
	}
	game.AddTagPair("Result", game.Outcome().String())
	return game.String(), nil
}

func uci(rec model.ActionRecord) string {
	s := rec.From.String() + rec.To.String()
	if rec.PromotedTo != "" {
		s += strings.ToLower(rec.PromotedTo.Letter())
	}
	return s
}

func color(side model.Side) chess.Color {
	if side == model.Black {
		return chess.Black
	}
	return chess.White
}
