package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

// hasNoLegalMoves reports whether nothing side owns can move without leaving
// its king attacked. The king is tried first, then primaries, then pawns.
func (g *Game) hasNoLegalMoves(side model.Side) bool {
	t := g.board.Tracking(side)
	if g.anySafe(model.Piece{Type: model.King, Side: side}, t.King) {
		return false
	}
	for _, pt := range model.PrimaryTypes {
		for _, from := range t.Primaries[pt] {
			if g.anySafe(model.Piece{Type: pt, Side: side}, from) {
				return false
			}
		}
	}
	for _, from := range g.board.positionsOf(side, model.Pawn) {
		if g.anySafe(model.Piece{Type: model.Pawn, Side: side}, from) {
			return false
		}
	}
	return true
}

func (g *Game) anySafe(piece model.Piece, from model.Position) bool {
	// castling is left out of the search
	for _, res := range ResolvableMoves(g.board, piece, from, true) {
		if g.safeAfter(piece, res) {
			return true
		}
	}
	return false
}

// safeAfter plays res on a freshly synced scratch board and reports whether
// the mover's king survives it.
func (g *Game) safeAfter(piece model.Piece, res model.Resolution) bool {
	g.scratch.SyncFrom(g.board)
	rec := recordFor(g.scratch, piece, res.Move, res.Action)
	g.scratch.ApplyAction(rec, Do)
	return !g.scratch.CanBeCaptured(g.scratch.Tracking(piece.Side).King, piece.Side)
}
