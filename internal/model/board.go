package model

import (
	"fmt"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PrimaryTypes are the piece types whose positions are cached per side.
var PrimaryTypes = []PieceType{Queen, Rook, Bishop, Knight}

func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

func (p PieceType) IsPrimary() bool {
	return p == Queen || p == Rook || p == Bishop || p == Knight
}

// CanPromoteTo reports whether a pawn may become p.
func (p PieceType) CanPromoteTo() bool {
	return p.IsPrimary()
}

func ParsePieceLetter(letter byte) (PieceType, error) {
	switch letter {
	case 'K':
		return King, nil
	case 'Q':
		return Queen, nil
	case 'R':
		return Rook, nil
	case 'B':
		return Bishop, nil
	case 'N':
		return Knight, nil
	case 'P':
		return Pawn, nil
	}
	return "", fmt.Errorf("unknown piece letter %q", letter)
}

type Piece struct {
	Type PieceType `json:"type"`
	Side Side      `json:"side"`
}

// Code is the two letter snapshot form of a piece, e.g. "wP".
func (p Piece) Code() string {
	return p.Side.Code() + p.Type.Letter()
}

func (p Piece) String() string {
	return p.Code()
}

func ParsePieceCode(code string) (Piece, error) {
	if len(code) != 2 {
		return Piece{}, fmt.Errorf("piece code %q: want 2 characters", code)
	}
	side, err := ParseSideCode(code[:1])
	if err != nil {
		return Piece{}, err
	}
	pt, err := ParsePieceLetter(code[1])
	if err != nil {
		return Piece{}, err
	}
	return Piece{Type: pt, Side: side}, nil
}

// Position is a board coordinate. Rank and File both run 1..8, file 1 being "a".
type Position struct {
	Rank int
	File int
}

func NewPosition(rank, file int) Position {
	return Position{Rank: rank, File: file}
}

func (p Position) Valid() bool {
	return p.Rank >= 1 && p.Rank <= 8 && p.File >= 1 && p.File <= 8
}

// Offset returns the position dr ranks and df files away, and whether it is on the board.
func (p Position) Offset(dr, df int) (Position, bool) {
	next := Position{Rank: p.Rank + dr, File: p.File + df}
	return next, next.Valid()
}

// Index maps a valid position onto 0..63, a1 first.
func (p Position) Index() int {
	return (p.Rank-1)*8 + (p.File - 1)
}

func PositionFromIndex(i int) Position {
	return Position{Rank: i/8 + 1, File: i%8 + 1}
}

func (p Position) String() string {
	if !p.Valid() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+p.File-1, p.Rank)
}

func (p Position) FileLetter() string {
	return fmt.Sprintf("%c", 'a'+p.File-1)
}

func ParsePosition(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{Rank: int(s[1]-'1') + 1, File: int(s[0]-'a') + 1}, nil
}

// MustPosition is ParsePosition for literals known to be valid.
func MustPosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// CellState tags a square for the rendering layer after an action.
type CellState string

const (
	CellNone           CellState = ""
	CellOrigin         CellState = "origin"
	CellMove           CellState = "move"
	CellCapture        CellState = "capture"
	CellPromote        CellState = "promote"
	CellCastleKing     CellState = "castleKing"
	CellCastleRookFrom CellState = "castleRookFrom"
	CellCastleRookTo   CellState = "castleRookTo"
)

type Square struct {
	Position Position  `json:"position"`
	Piece    *Piece    `json:"piece"`
	State    CellState `json:"state,omitempty"`
}
