package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

// Undo takes back the last committed action. Undoing out of checkmate or
// stalemate resumes the game.
func (g *Game) Undo() error {
	if !g.CanUndo() {
		if !g.status.State.Reversible() {
			return ErrNotInPlay
		}
		return ErrNothingToUndo
	}
	g.pending = nil
	g.index--
	rec := g.actions[g.index]
	g.board.ApplyAction(rec, Undo)
	g.afterReplay(rec, EventActionUndone)
	return nil
}

// Redo replays the action most recently undone.
func (g *Game) Redo() error {
	if !g.CanRedo() {
		if !g.status.State.Reversible() {
			return ErrNotInPlay
		}
		return ErrNothingToRedo
	}
	g.pending = nil
	rec := g.actions[g.index]
	g.index++
	g.board.ApplyAction(rec, Redo)
	g.afterReplay(rec, EventActionRedone)
	return nil
}

func (g *Game) afterReplay(rec model.ActionRecord, kind EventKind) {
	g.turn = g.turn.Opponent()
	if !g.status.State.InPlay() {
		g.setStatus(model.GameStatus{State: model.StateResumed})
	}
	g.detectChecks()
	g.evaluateCheckmate(g.turn)
	g.log.Debug("history moved", "event", kind, "action", rec.String(), "index", g.index)
	g.emit(kind, rec)
}
