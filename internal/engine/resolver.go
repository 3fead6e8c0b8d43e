package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

// A resolver judges moves for one piece type. resolve ignores whose turn it is
// and whether the mover's king ends up safe; Game checks both.
type resolver struct {
	resolve    func(b *Board, m model.Move) model.Action
	resolvable func(b *Board, p model.Piece, from model.Position, ignoreCastling bool) []model.Resolution
}

func resolverFor(pt model.PieceType) (resolver, bool) {
	switch pt {
	case model.Pawn:
		return resolver{resolvePawn, pawnMoves}, true
	case model.Knight:
		return resolver{resolveKnight, knightMoves}, true
	case model.Bishop:
		return resolver{resolveBishop, bishopMoves}, true
	case model.Rook:
		return resolver{resolveRook, rookMoves}, true
	case model.Queen:
		return resolver{resolveQueen, queenMoves}, true
	case model.King:
		return resolver{resolveKing, kingMoves}, true
	}
	return resolver{}, false
}

// Resolve classifies moving the piece on m.From to m.To, or returns NoAction
// if the piece cannot make that move on the current occupancy.
func Resolve(b *Board, m model.Move) model.Action {
	if !m.From.Valid() || !m.To.Valid() || m.From == m.To {
		return model.NoAction
	}
	p, ok := b.PieceAt(m.From)
	if !ok {
		return model.NoAction
	}
	r, ok := resolverFor(p.Type)
	if !ok {
		return model.NoAction
	}
	return r.resolve(b, m)
}

// ResolvableMoves enumerates every destination the piece on from could reach,
// without regard to the safety of its own king.
func ResolvableMoves(b *Board, p model.Piece, from model.Position, ignoreCastling bool) []model.Resolution {
	r, ok := resolverFor(p.Type)
	if !ok {
		return nil
	}
	return r.resolvable(b, p, from, ignoreCastling)
}

// landing classifies arriving on to: empty is a move, an enemy a capture, a friend illegal.
func landing(b *Board, side model.Side, to model.Position) model.Action {
	occupant, ok := b.PieceAt(to)
	switch {
	case !ok:
		return model.ActMove
	case occupant.Side != side:
		return model.ActCapture
	}
	return model.NoAction
}

func moverSide(b *Board, from model.Position) model.Side {
	s, _ := b.SideAt(from)
	return s
}

func resolvePawn(b *Board, m model.Move) model.Action {
	side := moverSide(b, m.From)
	fwd := side.Forward()
	dr, df := m.To.Rank-m.From.Rank, m.To.File-m.From.File
	last := m.To.Rank == side.LastRank()
	if last && m.Promotion != "" && !m.Promotion.CanPromoteTo() {
		return model.NoAction
	}

	switch {
	case df == 0 && dr == fwd:
		if !b.isEmpty(m.To) {
			return model.NoAction
		}
		if last {
			return model.ActPromote
		}
		return model.ActMove
	case df == 0 && dr == 2*fwd:
		mid, _ := m.From.Offset(fwd, 0)
		if m.From.Rank != side.PawnRank() || !b.isEmpty(mid) || !b.isEmpty(m.To) {
			return model.NoAction
		}
		return model.ActMove
	case abs(df) == 1 && dr == fwd:
		if s, ok := b.SideAt(m.To); !ok || s == side {
			return model.NoAction
		}
		if last {
			return model.ActCapPromote
		}
		return model.ActCapture
	}
	return model.NoAction
}

func pawnMoves(b *Board, p model.Piece, from model.Position, _ bool) []model.Resolution {
	fwd := p.Side.Forward()
	var out []model.Resolution
	for _, d := range [4][2]int{{fwd, 0}, {2 * fwd, 0}, {fwd, -1}, {fwd, 1}} {
		to, ok := from.Offset(d[0], d[1])
		if !ok {
			continue
		}
		m := model.Move{From: from, To: to}
		if a := resolvePawn(b, m); a != model.NoAction {
			out = append(out, model.Resolution{Move: m, Action: a})
		}
	}
	return out
}

func resolveKnight(b *Board, m model.Move) model.Action {
	dr, df := abs(m.To.Rank-m.From.Rank), abs(m.To.File-m.From.File)
	if !(dr == 1 && df == 2) && !(dr == 2 && df == 1) {
		return model.NoAction
	}
	return landing(b, moverSide(b, m.From), m.To)
}

func knightMoves(b *Board, p model.Piece, from model.Position, _ bool) []model.Resolution {
	return stepMoves(b, p, from, knightDirs[:])
}

func resolveKing(b *Board, m model.Move) model.Action {
	side := moverSide(b, m.From)
	dr, df := abs(m.To.Rank-m.From.Rank), abs(m.To.File-m.From.File)
	if dr <= 1 && df <= 1 {
		return landing(b, side, m.To)
	}
	if wing, ok := model.CastleWing(side, m.From, m.To); ok && castleDenial(b, side, wing) == "" {
		return model.ActCastle
	}
	return model.NoAction
}

func kingMoves(b *Board, p model.Piece, from model.Position, ignoreCastling bool) []model.Resolution {
	out := stepMoves(b, p, from, kingDirs[:])
	if ignoreCastling {
		return out
	}
	for _, file := range []int{7, 3} {
		m := model.Move{From: from, To: model.NewPosition(from.Rank, file)}
		if wing, ok := model.CastleWing(p.Side, m.From, m.To); ok && castleDenial(b, p.Side, wing) == "" {
			out = append(out, model.Resolution{Move: m, Action: model.ActCastle})
		}
	}
	return out
}

// castleDenial explains why side cannot castle on wing right now, or returns "".
func castleDenial(b *Board, side model.Side, wing model.Wing) string {
	if reason := b.ReasonCannotCastle(side, wing); reason != "" {
		return reason
	}
	rank := side.HomeRank()
	king := model.NewPosition(rank, 5)
	if b.CanBeCaptured(king, side) {
		return "you cannot castle out of check"
	}

	empty, crossed := []int{6, 7}, []int{6, 7}
	if wing == model.Queenside {
		empty, crossed = []int{2, 3, 4}, []int{4, 3, 2}
	}
	for _, file := range empty {
		if !b.isEmpty(model.NewPosition(rank, file)) {
			return "the path between your king and rook is blocked"
		}
	}
	for _, file := range crossed {
		if b.CanBeCaptured(model.NewPosition(rank, file), side) {
			return "you cannot castle through or into check"
		}
	}
	return ""
}

func resolveBishop(b *Board, m model.Move) model.Action {
	if !b.IsClearAlongDiagonal(m.From, m.To) {
		return model.NoAction
	}
	return landing(b, moverSide(b, m.From), m.To)
}

func bishopMoves(b *Board, p model.Piece, from model.Position, _ bool) []model.Resolution {
	return slideMoves(b, p, from, diagonalDirs[:])
}

func resolveRook(b *Board, m model.Move) model.Action {
	if !b.IsClearAlongRank(m.From, m.To) && !b.IsClearAlongFile(m.From, m.To) {
		return model.NoAction
	}
	return landing(b, moverSide(b, m.From), m.To)
}

func rookMoves(b *Board, p model.Piece, from model.Position, _ bool) []model.Resolution {
	return slideMoves(b, p, from, straightDirs[:])
}

func resolveQueen(b *Board, m model.Move) model.Action {
	if a := resolveRook(b, m); a != model.NoAction {
		return a
	}
	return resolveBishop(b, m)
}

func queenMoves(b *Board, p model.Piece, from model.Position, _ bool) []model.Resolution {
	return append(slideMoves(b, p, from, straightDirs[:]), slideMoves(b, p, from, diagonalDirs[:])...)
}

// stepMoves collects single-step destinations for knights and kings.
func stepMoves(b *Board, p model.Piece, from model.Position, dirs [][2]int) []model.Resolution {
	var out []model.Resolution
	for _, d := range dirs {
		to, ok := from.Offset(d[0], d[1])
		if !ok {
			continue
		}
		if a := landing(b, p.Side, to); a != model.NoAction {
			out = append(out, model.Resolution{Move: model.Move{From: from, To: to}, Action: a})
		}
	}
	return out
}

// slideMoves walks each direction until blocked or off the board, keeping
// empty steps as moves and a terminal enemy as a capture.
func slideMoves(b *Board, p model.Piece, from model.Position, dirs [][2]int) []model.Resolution {
	var out []model.Resolution
	for _, d := range dirs {
		for to, ok := from.Offset(d[0], d[1]); ok; to, ok = to.Offset(d[0], d[1]) {
			a := landing(b, p.Side, to)
			if a == model.NoAction {
				break
			}
			out = append(out, model.Resolution{Move: model.Move{From: from, To: to}, Action: a})
			if a == model.ActCapture {
				break
			}
		}
	}
	return out
}
