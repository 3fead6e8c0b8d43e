package model

type GameState string

const (
	StateNew       GameState = "new"
	StateRestored  GameState = "restored"
	StateResumed   GameState = "resumed"
	StateCheckmate GameState = "checkmate"
	StateStalemate GameState = "stalemate"
	StateConceded  GameState = "conceded"
	StateDraw      GameState = "draw"
)

// InPlay reports whether moves may still be taken in this state.
func (s GameState) InPlay() bool {
	return s == StateNew || s == StateRestored || s == StateResumed
}

// Reversible reports whether undo/redo are permitted in this state.
func (s GameState) Reversible() bool {
	return s.InPlay() || s == StateCheckmate || s == StateStalemate
}

// GameStatus pairs the state with its victor. Victor is empty while in play
// and NoSide for draws and stalemates.
type GameStatus struct {
	State  GameState `json:"state"`
	Victor Side      `json:"victor,omitempty"`
}

// Check describes a king under attack. It is derived from tracking, never stored.
type Check struct {
	Side         Side       `json:"side"`
	KingPosition Position   `json:"kingPosition"`
	From         []Position `json:"from"`
}
