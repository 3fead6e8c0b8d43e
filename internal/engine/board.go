package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

type cell struct {
	piece    model.Piece
	occupied bool
	state    model.CellState
}

// Board holds piece placement and the per-side tracking cache. It knows
// nothing about turn order or history; every mutation goes through ApplyAction.
type Board struct {
	cells [64]cell
	white Tracking
	black Tracking
}

var backRank = [8]model.PieceType{
	model.Rook, model.Knight, model.Bishop, model.Queen,
	model.King, model.Bishop, model.Knight, model.Rook,
}

// NewBoard returns a board in the starting position.
func NewBoard() *Board {
	b := &Board{
		white: newTracking(),
		black: newTracking(),
	}
	b.Reset()
	return b
}

// Reset puts every piece back on its starting square, reusing the board's storage.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = cell{}
	}
	for _, side := range model.Sides {
		for file := 1; file <= 8; file++ {
			b.put(model.NewPosition(side.HomeRank(), file), model.Piece{Type: backRank[file-1], Side: side})
			b.put(model.NewPosition(side.PawnRank(), file), model.Piece{Type: model.Pawn, Side: side})
		}
	}
	b.reclassify()
}

// SyncFrom makes b an exact copy of other.
func (b *Board) SyncFrom(other *Board) {
	b.cells = other.cells
	b.white.copyFrom(&other.white)
	b.black.copyFrom(&other.black)
}

func (b *Board) Tracking(side model.Side) *Tracking {
	if side == model.Black {
		return &b.black
	}
	return &b.white
}

func (b *Board) PieceAt(pos model.Position) (model.Piece, bool) {
	if !pos.Valid() {
		return model.Piece{}, false
	}
	c := b.cells[pos.Index()]
	return c.piece, c.occupied
}

func (b *Board) SideAt(pos model.Position) (model.Side, bool) {
	p, ok := b.PieceAt(pos)
	return p.Side, ok
}

func (b *Board) isEmpty(pos model.Position) bool {
	_, ok := b.PieceAt(pos)
	return !ok
}

// StateAt returns the rendering tag left on a square by the last action.
func (b *Board) StateAt(pos model.Position) model.CellState {
	return b.cells[pos.Index()].state
}

func (b *Board) put(pos model.Position, p model.Piece) {
	b.cells[pos.Index()] = cell{piece: p, occupied: true}
}

func (b *Board) clear(pos model.Position) {
	b.cells[pos.Index()] = cell{}
}

func (b *Board) relocate(from, to model.Position) {
	p := b.cells[from.Index()].piece
	b.clear(from)
	b.put(to, p)
}

func (b *Board) mark(pos model.Position, state model.CellState) {
	b.cells[pos.Index()].state = state
}

func (b *Board) clearStates() {
	for i := range b.cells {
		b.cells[i].state = model.CellNone
	}
}

// positionsOf scans for every piece of a type. Only used for pawns, which are not tracked.
func (b *Board) positionsOf(side model.Side, pt model.PieceType) []model.Position {
	var out []model.Position
	for i, c := range b.cells {
		if c.occupied && c.piece.Side == side && c.piece.Type == pt {
			out = append(out, model.PositionFromIndex(i))
		}
	}
	return out
}

func (b *Board) IsClearAlongRank(from, to model.Position) bool {
	if from.Rank != to.Rank || from == to {
		return false
	}
	return b.clearBetween(from, to)
}

func (b *Board) IsClearAlongFile(from, to model.Position) bool {
	if from.File != to.File || from == to {
		return false
	}
	return b.clearBetween(from, to)
}

func (b *Board) IsClearAlongDiagonal(from, to model.Position) bool {
	dr, df := to.Rank-from.Rank, to.File-from.File
	if dr == 0 || abs(dr) != abs(df) {
		return false
	}
	return b.clearBetween(from, to)
}

// clearBetween walks the cells strictly between two aligned positions.
func (b *Board) clearBetween(from, to model.Position) bool {
	dr, df := sign(to.Rank-from.Rank), sign(to.File-from.File)
	pos, _ := from.Offset(dr, df)
	for pos != to {
		if !b.isEmpty(pos) {
			return false
		}
		pos, _ = pos.Offset(dr, df)
	}
	return true
}

// Squares lists the board for rendering. With orientation set the list runs
// from a8 to h1 (white at the bottom); otherwise it is reversed.
func (b *Board) Squares(orientation bool) []model.Square {
	squares := make([]model.Square, 0, 64)
	for rank := 8; rank >= 1; rank-- {
		for file := 1; file <= 8; file++ {
			pos := model.NewPosition(rank, file)
			c := b.cells[pos.Index()]
			sq := model.Square{Position: pos, State: c.state}
			if c.occupied {
				p := c.piece
				sq.Piece = &p
			}
			squares = append(squares, sq)
		}
	}
	if !orientation {
		for i, j := 0, len(squares)-1; i < j; i, j = i+1, j-1 {
			squares[i], squares[j] = squares[j], squares[i]
		}
	}
	return squares
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
