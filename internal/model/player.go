package model

import "fmt"

type Side string

const (
	White Side = "white"
	Black Side = "black"
	// NoSide is the victor of a drawn or stalemated game.
	NoSide Side = "none"
)

var Sides = []Side{White, Black}

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) Code() string {
	switch s {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return ""
}

func (s Side) Valid() bool {
	return s == White || s == Black
}

func ParseSideCode(code string) (Side, error) {
	switch code {
	case "w":
		return White, nil
	case "b":
		return Black, nil
	}
	return "", fmt.Errorf("unknown side code %q", code)
}

func ParseSide(name string) (Side, error) {
	switch Side(name) {
	case White, Black:
		return Side(name), nil
	}
	return "", fmt.Errorf("unknown side %q", name)
}

// HomeRank is the rank a side's king and rooks start on.
func (s Side) HomeRank() int {
	if s == White {
		return 1
	}
	return 8
}

// PawnRank is the rank a side's pawns start on.
func (s Side) PawnRank() int {
	if s == White {
		return 2
	}
	return 7
}

// LastRank is the rank a side's pawns promote on.
func (s Side) LastRank() int {
	if s == White {
		return 8
	}
	return 1
}

// Forward is the rank direction a side's pawns advance in.
func (s Side) Forward() int {
	if s == White {
		return 1
	}
	return -1
}
