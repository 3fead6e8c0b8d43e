package model

import (
	"fmt"
	"strings"
)

// Move is a proposed relocation of the piece on From. Promotion is only
// consulted when a pawn reaches its last rank; empty means queen.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != "" {
		s += "=" + m.Promotion.Letter()
	}
	return s
}

type Action string

const (
	NoAction      Action = ""
	ActMove       Action = "move"
	ActCapture    Action = "capture"
	ActPromote    Action = "promote"
	ActCapPromote Action = "capturePromote"
	ActCastle     Action = "castle"
)

func (a Action) IsCapture() bool {
	return a == ActCapture || a == ActCapPromote
}

func (a Action) IsPromotion() bool {
	return a == ActPromote || a == ActCapPromote
}

// Resolution is a judgment of a single proposed move. A NoAction resolution is illegal.
type Resolution struct {
	Move   Move   `json:"move"`
	Action Action `json:"action"`
}

func (r Resolution) Legal() bool {
	return r.Action != NoAction
}

type Wing string

const (
	Kingside  Wing = "kingside"
	Queenside Wing = "queenside"
)

// CastleWing returns the wing a king move from the e-file targets, if it is shaped like a castle.
func CastleWing(side Side, from, to Position) (Wing, bool) {
	home := side.HomeRank()
	if from.Rank != home || to.Rank != home || from.File != 5 {
		return "", false
	}
	switch to.File {
	case 7:
		return Kingside, true
	case 3:
		return Queenside, true
	}
	return "", false
}

// RookCastleSquares returns where the castling rook of a wing starts and lands.
func RookCastleSquares(side Side, wing Wing) (from, to Position) {
	rank := side.HomeRank()
	if wing == Kingside {
		return Position{Rank: rank, File: 8}, Position{Rank: rank, File: 6}
	}
	return Position{Rank: rank, File: 1}, Position{Rank: rank, File: 4}
}

// ActionRecord is the reversible description of one committed ply.
// Captured is set only for capturing actions, PromotedTo only for promoting ones.
// It marshals as its move text.
type ActionRecord struct {
	Piece      Piece
	From       Position
	To         Position
	Action     Action
	Captured   *Piece
	PromotedTo PieceType
}

func (r ActionRecord) Wing() Wing {
	wing, _ := CastleWing(r.Piece.Side, r.From, r.To)
	return wing
}

// String renders the record in the engine's long algebraic move text,
// e.g. "wPe2e4", "bPf7xPe6", "wPb7b8=Q", "w0-0", "b0-0-0".
func (r ActionRecord) String() string {
	if r.Action == ActCastle {
		if r.Wing() == Queenside {
			return r.Piece.Side.Code() + "0-0-0"
		}
		return r.Piece.Side.Code() + "0-0"
	}
	var sb strings.Builder
	sb.WriteString(r.Piece.Code())
	sb.WriteString(r.From.String())
	if r.Captured != nil {
		sb.WriteString("x")
		sb.WriteString(r.Captured.Type.Letter())
	}
	sb.WriteString(r.To.String())
	if r.PromotedTo != "" {
		sb.WriteString("=")
		sb.WriteString(r.PromotedTo.Letter())
	}
	return sb.String()
}

func (r ActionRecord) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ActionRecord) UnmarshalText(text []byte) error {
	parsed, err := ParseActionRecord(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseActionRecord reads move text written by ActionRecord.String.
func ParseActionRecord(text string) (ActionRecord, error) {
	if len(text) < 2 {
		return ActionRecord{}, fmt.Errorf("move text %q too short", text)
	}
	side, err := ParseSideCode(text[:1])
	if err != nil {
		return ActionRecord{}, fmt.Errorf("move text %q: %w", text, err)
	}
	rest := text[1:]

	if rest == "0-0" || rest == "0-0-0" {
		home := side.HomeRank()
		to := Position{Rank: home, File: 7}
		if rest == "0-0-0" {
			to.File = 3
		}
		return ActionRecord{
			Piece:  Piece{Type: King, Side: side},
			From:   Position{Rank: home, File: 5},
			To:     to,
			Action: ActCastle,
		}, nil
	}

	if len(rest) < 5 {
		return ActionRecord{}, fmt.Errorf("move text %q too short", text)
	}
	pt, err := ParsePieceLetter(rest[0])
	if err != nil {
		return ActionRecord{}, fmt.Errorf("move text %q: %w", text, err)
	}
	rec := ActionRecord{Piece: Piece{Type: pt, Side: side}, Action: ActMove}
	if rec.From, err = ParsePosition(rest[1:3]); err != nil {
		return ActionRecord{}, fmt.Errorf("move text %q: %w", text, err)
	}
	rest = rest[3:]

	if rest[0] == 'x' {
		if len(rest) < 2 {
			return ActionRecord{}, fmt.Errorf("move text %q: missing captured piece", text)
		}
		capType, err := ParsePieceLetter(rest[1])
		if err != nil {
			return ActionRecord{}, fmt.Errorf("move text %q: %w", text, err)
		}
		rec.Captured = &Piece{Type: capType, Side: side.Opponent()}
		rec.Action = ActCapture
		rest = rest[2:]
	}

	if len(rest) < 2 {
		return ActionRecord{}, fmt.Errorf("move text %q: missing destination", text)
	}
	if rec.To, err = ParsePosition(rest[:2]); err != nil {
		return ActionRecord{}, fmt.Errorf("move text %q: %w", text, err)
	}
	rest = rest[2:]

	switch {
	case rest == "":
	case len(rest) == 2 && rest[0] == '=':
		promo, err := ParsePieceLetter(rest[1])
		if err != nil || !promo.CanPromoteTo() {
			return ActionRecord{}, fmt.Errorf("move text %q: bad promotion", text)
		}
		rec.PromotedTo = promo
		if rec.Action == ActCapture {
			rec.Action = ActCapPromote
		} else {
			rec.Action = ActPromote
		}
	default:
		return ActionRecord{}, fmt.Errorf("move text %q: trailing %q", text, rest)
	}
	return rec, nil
}
