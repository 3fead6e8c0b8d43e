package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

type ApplyMode int

const (
	Do ApplyMode = iota
	Undo
	Redo
)

func (m ApplyMode) String() string {
	switch m {
	case Do:
		return "do"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	}
	return "unknown"
}

// ApplyAction plays rec forwards (Do, Redo) or backwards (Undo), updating the
// cells and both sides' tracking for the same record.
func (b *Board) ApplyAction(rec model.ActionRecord, mode ApplyMode) {
	b.clearStates()
	if rec.Action == model.ActCastle {
		b.applyCastle(rec, mode == Undo)
		return
	}
	if mode == Undo {
		b.undoAction(rec)
		return
	}
	b.doAction(rec)
}

func (b *Board) doAction(rec model.ActionRecord) {
	side := rec.Piece.Side
	own := b.Tracking(side)

	if rec.Captured != nil {
		b.Tracking(side.Opponent()).removePrimary(rec.Captured.Type, rec.To)
	}
	landed := rec.Piece
	if rec.PromotedTo != "" {
		landed.Type = rec.PromotedTo
	}
	b.clear(rec.From)
	b.put(rec.To, landed)

	switch {
	case rec.Piece.Type == model.King:
		own.King = rec.To
		own.Castling.KingMoves++
	case rec.PromotedTo != "":
		own.addPrimary(rec.PromotedTo, rec.To)
	default:
		own.movePrimary(rec.Piece.Type, rec.From, rec.To)
	}
	if rec.Piece.Type == model.Rook {
		if wing, ok := rookWing(side, rec.From); ok {
			own.Castling.bumpRook(wing, 1)
		}
	}

	b.mark(rec.From, model.CellOrigin)
	switch {
	case rec.Action.IsPromotion():
		b.mark(rec.To, model.CellPromote)
	case rec.Action.IsCapture():
		b.mark(rec.To, model.CellCapture)
	default:
		b.mark(rec.To, model.CellMove)
	}
}

func (b *Board) undoAction(rec model.ActionRecord) {
	side := rec.Piece.Side
	own := b.Tracking(side)

	b.put(rec.From, rec.Piece)
	if rec.Captured != nil {
		b.put(rec.To, *rec.Captured)
		b.Tracking(side.Opponent()).addPrimary(rec.Captured.Type, rec.To)
	} else {
		b.clear(rec.To)
	}

	switch {
	case rec.Piece.Type == model.King:
		own.King = rec.From
		own.Castling.KingMoves--
	case rec.PromotedTo != "":
		own.removePrimary(rec.PromotedTo, rec.To)
	default:
		own.movePrimary(rec.Piece.Type, rec.To, rec.From)
	}
	if rec.Piece.Type == model.Rook {
		if wing, ok := rookWing(side, rec.From); ok {
			own.Castling.bumpRook(wing, -1)
		}
	}
}

// applyCastle moves king and rook together.
func (b *Board) applyCastle(rec model.ActionRecord, reverse bool) {
	side := rec.Piece.Side
	own := b.Tracking(side)
	wing := rec.Wing()
	rookFrom, rookTo := model.RookCastleSquares(side, wing)

	if reverse {
		b.relocate(rec.To, rec.From)
		b.relocate(rookTo, rookFrom)
		own.King = rec.From
		own.movePrimary(model.Rook, rookTo, rookFrom)
		own.Castling.KingMoves--
		own.Castling.bumpRook(wing, -1)
		own.Castling.HasCastled = false
		return
	}

	b.relocate(rec.From, rec.To)
	b.relocate(rookFrom, rookTo)
	own.King = rec.To
	own.movePrimary(model.Rook, rookFrom, rookTo)
	own.Castling.KingMoves++
	own.Castling.bumpRook(wing, 1)
	own.Castling.HasCastled = true

	b.mark(rec.From, model.CellOrigin)
	b.mark(rec.To, model.CellCastleKing)
	b.mark(rookFrom, model.CellCastleRookFrom)
	b.mark(rookTo, model.CellCastleRookTo)
}
