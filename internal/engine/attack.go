package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

var (
	diagonalDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	straightDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	knightDirs   = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs     = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// CanBeCaptured reports whether a piece of side standing on pos could be taken
// by the opponent. pos may be empty, which is how castling transit squares are judged.
func (b *Board) CanBeCaptured(pos model.Position, side model.Side) bool {
	return len(b.attackers(pos, side, true)) > 0
}

// AttackersOf lists every opponent piece that could capture on pos.
func (b *Board) AttackersOf(pos model.Position, side model.Side) []model.Position {
	return b.attackers(pos, side, false)
}

// attackers avoids scanning the board: the neighbors of pos decide which
// slider axes can carry an attack at all, and only the opponent's tracked
// pieces for those axes are tested. Knights are always tested, pawns and the
// king are looked up in the few cells they could attack from.
func (b *Board) attackers(pos model.Position, side model.Side, first bool) []model.Position {
	enemy := side.Opponent()
	tracked := b.Tracking(enemy)
	var found []model.Position

	diagonalOpen := b.axisOpen(pos, enemy, diagonalDirs, model.Bishop)
	straightOpen := b.axisOpen(pos, enemy, straightDirs, model.Rook)

	type candidate struct {
		pt      model.PieceType
		open    bool
		resolve func(*Board, model.Move) model.Action
	}
	for _, c := range []candidate{
		{model.Bishop, diagonalOpen, resolveBishop},
		{model.Rook, straightOpen, resolveRook},
		{model.Queen, diagonalOpen || straightOpen, resolveQueen},
		{model.Knight, true, resolveKnight},
	} {
		if !c.open {
			continue
		}
		for _, from := range tracked.Primaries[c.pt] {
			if c.resolve(b, model.Move{From: from, To: pos}) == model.NoAction {
				continue
			}
			found = append(found, from)
			if first {
				return found
			}
		}
	}

	// an enemy pawn attacks pos from one rank behind it, seen from the pawn's side
	for _, df := range []int{-1, 1} {
		from, ok := pos.Offset(-enemy.Forward(), df)
		if ok && b.holds(from, model.Piece{Type: model.Pawn, Side: enemy}) {
			found = append(found, from)
			if first {
				return found
			}
		}
	}

	for _, d := range kingDirs {
		from, ok := pos.Offset(d[0], d[1])
		if ok && b.holds(from, model.Piece{Type: model.King, Side: enemy}) {
			found = append(found, from)
			break
		}
	}
	return found
}

// axisOpen reports whether any neighbor of pos along dirs is empty or holds
// an enemy slider that moves along that axis.
func (b *Board) axisOpen(pos model.Position, enemy model.Side, dirs [4][2]int, slider model.PieceType) bool {
	for _, d := range dirs {
		next, ok := pos.Offset(d[0], d[1])
		if !ok {
			continue
		}
		p, occupied := b.PieceAt(next)
		if !occupied {
			return true
		}
		if p.Side == enemy && (p.Type == slider || p.Type == model.Queen) {
			return true
		}
	}
	return false
}

func (b *Board) holds(pos model.Position, want model.Piece) bool {
	p, ok := b.PieceAt(pos)
	return ok && p == want
}
