package engine

import (
	"fmt"
	"slices"

	"github.com/benbeisheim/chess-backend/internal/model"
)

type Castling struct {
	KingMoves          int  `json:"kingMoves"`
	KingsideRookMoves  int  `json:"kingsideRookMoves"`
	QueensideRookMoves int  `json:"queensideRookMoves"`
	HasCastled         bool `json:"hasCastled"`
}

func (c *Castling) bumpRook(wing model.Wing, delta int) {
	if wing == model.Kingside {
		c.KingsideRookMoves += delta
	} else {
		c.QueensideRookMoves += delta
	}
}

func (c Castling) rookMoves(wing model.Wing) int {
	if wing == model.Kingside {
		return c.KingsideRookMoves
	}
	return c.QueensideRookMoves
}

// Tracking is the per-side cache kept in step with the board's occupancy.
// Primary positions are kept sorted by square index.
type Tracking struct {
	King        model.Position
	Primaries   map[model.PieceType][]model.Position
	InCheckFrom []model.Position
	Castling    Castling
}

func newTracking() Tracking {
	t := Tracking{Primaries: make(map[model.PieceType][]model.Position, len(model.PrimaryTypes))}
	for _, pt := range model.PrimaryTypes {
		t.Primaries[pt] = []model.Position{}
	}
	return t
}

func (t *Tracking) copyFrom(o *Tracking) {
	t.King = o.King
	t.Castling = o.Castling
	t.InCheckFrom = append(t.InCheckFrom[:0], o.InCheckFrom...)
	for _, pt := range model.PrimaryTypes {
		t.Primaries[pt] = append(t.Primaries[pt][:0], o.Primaries[pt]...)
	}
}

func (t *Tracking) addPrimary(pt model.PieceType, pos model.Position) {
	if !pt.IsPrimary() {
		return
	}
	list := t.Primaries[pt]
	i, _ := slices.BinarySearchFunc(list, pos, comparePositions)
	t.Primaries[pt] = slices.Insert(list, i, pos)
}

func (t *Tracking) removePrimary(pt model.PieceType, pos model.Position) {
	if !pt.IsPrimary() {
		return
	}
	list := t.Primaries[pt]
	if i, found := slices.BinarySearchFunc(list, pos, comparePositions); found {
		t.Primaries[pt] = slices.Delete(list, i, i+1)
	}
}

func (t *Tracking) movePrimary(pt model.PieceType, from, to model.Position) {
	t.removePrimary(pt, from)
	t.addPrimary(pt, to)
}

func comparePositions(a, b model.Position) int {
	return a.Index() - b.Index()
}

// InCheck reports whether the last check detection found the king attacked.
func (t *Tracking) InCheck() bool {
	return len(t.InCheckFrom) > 0
}

// reclassify rebuilds king and primary positions from the cells. Castling
// flags and check attackers are left alone.
func (b *Board) reclassify() {
	for _, side := range model.Sides {
		t := b.Tracking(side)
		for _, pt := range model.PrimaryTypes {
			t.Primaries[pt] = t.Primaries[pt][:0]
		}
		t.InCheckFrom = nil
		t.Castling = Castling{}
	}
	for i, c := range b.cells {
		if !c.occupied {
			continue
		}
		pos := model.PositionFromIndex(i)
		t := b.Tracking(c.piece.Side)
		switch {
		case c.piece.Type == model.King:
			t.King = pos
		case c.piece.Type.IsPrimary():
			// cells are visited in index order, so appending keeps the lists sorted
			t.Primaries[c.piece.Type] = append(t.Primaries[c.piece.Type], pos)
		}
	}
}

// refreshCheck recomputes the attackers of side's king and reports whether there are any.
func (b *Board) refreshCheck(side model.Side) bool {
	t := b.Tracking(side)
	t.InCheckFrom = b.AttackersOf(t.King, side)
	return t.InCheck()
}

func (b *Board) EligibleToCastle(side model.Side, wing model.Wing) bool {
	return b.ReasonCannotCastle(side, wing) == ""
}

// ReasonCannotCastle explains why side may never castle on wing from here on,
// or returns "" if its king and rook are still eligible. Whether the king is
// in check or its path is attacked is judged by the king resolver.
func (b *Board) ReasonCannotCastle(side model.Side, wing model.Wing) string {
	t := b.Tracking(side)
	switch {
	case t.Castling.HasCastled:
		return "you have already castled"
	case t.Castling.KingMoves > 0 || t.King != model.NewPosition(side.HomeRank(), 5):
		return "your king has already moved"
	case t.Castling.rookMoves(wing) > 0:
		return fmt.Sprintf("your %s rook has already moved", wing)
	}
	rookFrom, _ := model.RookCastleSquares(side, wing)
	if p, ok := b.PieceAt(rookFrom); !ok || p != (model.Piece{Type: model.Rook, Side: side}) {
		return fmt.Sprintf("your %s rook is no longer on %s", wing, rookFrom)
	}
	return ""
}

// rookWing reports the wing whose castling rook starts on pos.
func rookWing(side model.Side, pos model.Position) (model.Wing, bool) {
	for _, wing := range []model.Wing{model.Kingside, model.Queenside} {
		if from, _ := model.RookCastleSquares(side, wing); from == pos {
			return wing, true
		}
	}
	return "", false
}
