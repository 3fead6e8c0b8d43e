package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// Snapshot is the persisted form of a game. Board keys are squares ("e4")
// and values piece codes ("wP"); only occupied squares appear.
type Snapshot struct {
	Board       map[string]string               `json:"board"`
	Tracking    map[model.Side]TrackingSnapshot `json:"tracking"`
	Actions     []string                        `json:"actions"`
	CurrentTurn string                          `json:"currentTurn"`
}

type TrackingSnapshot struct {
	InCheckFrom []model.Position `json:"inCheckFrom"`
	Castling    Castling         `json:"castling"`
}

// ParseSnapshot decodes and strictly checks the JSON shape of a snapshot.
// Its contents are validated by RestoreFromSnapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, &SnapshotError{Field: "json", Err: err}
	}
	if s.Board == nil {
		return Snapshot{}, snapshotErrorf("board", "missing")
	}
	if s.Tracking == nil {
		return Snapshot{}, snapshotErrorf("tracking", "missing")
	}
	return s, nil
}

func (b *Board) takeSnapshot() (map[string]string, map[model.Side]TrackingSnapshot) {
	board := make(map[string]string)
	for i, c := range b.cells {
		if c.occupied {
			board[model.PositionFromIndex(i).String()] = c.piece.Code()
		}
	}
	tracking := make(map[model.Side]TrackingSnapshot, 2)
	for _, side := range model.Sides {
		t := b.Tracking(side)
		tracking[side] = TrackingSnapshot{
			InCheckFrom: append([]model.Position{}, t.InCheckFrom...),
			Castling:    t.Castling,
		}
	}
	return board, tracking
}

// TakeSnapshot captures the board, tracking, committed line and turn.
func (g *Game) TakeSnapshot() Snapshot {
	board, tracking := g.board.takeSnapshot()
	actions := make([]string, 0, g.index)
	for _, rec := range g.actions[:g.index] {
		actions = append(actions, rec.String())
	}
	return Snapshot{
		Board:       board,
		Tracking:    tracking,
		Actions:     actions,
		CurrentTurn: g.turn.Code(),
	}
}

// restored is a snapshot that passed validation.
type restored struct {
	cells    [64]cell
	tracking map[model.Side]TrackingSnapshot
	actions  []model.ActionRecord
	turn     model.Side
}

func validateSnapshot(s Snapshot) (*restored, error) {
	r := &restored{tracking: s.Tracking}
	kings := map[model.Side]int{}
	for key, code := range s.Board {
		pos, err := model.ParsePosition(key)
		if err != nil {
			return nil, &SnapshotError{Field: "board", Err: err}
		}
		piece, err := model.ParsePieceCode(code)
		if err != nil {
			return nil, &SnapshotError{Field: "board." + key, Err: err}
		}
		if piece.Type == model.Pawn && (pos.Rank == 1 || pos.Rank == 8) {
			return nil, snapshotErrorf("board."+key, "pawn on back rank")
		}
		if piece.Type == model.King {
			kings[piece.Side]++
		}
		r.cells[pos.Index()] = cell{piece: piece, occupied: true}
	}
	for _, side := range model.Sides {
		if kings[side] != 1 {
			return nil, snapshotErrorf("board", "%s has %d kings", side, kings[side])
		}
	}

	if len(s.Tracking) != 2 {
		return nil, snapshotErrorf("tracking", "want entries for white and black, got %d", len(s.Tracking))
	}
	for side, t := range s.Tracking {
		if !side.Valid() {
			return nil, snapshotErrorf("tracking", "unknown side %q", side)
		}
		c := t.Castling
		if c.KingMoves < 0 || c.KingsideRookMoves < 0 || c.QueensideRookMoves < 0 {
			return nil, snapshotErrorf("tracking."+string(side)+".castling", "negative move count")
		}
	}

	turn, err := model.ParseSideCode(s.CurrentTurn)
	if err != nil {
		return nil, &SnapshotError{Field: "currentTurn", Err: err}
	}
	r.turn = turn

	r.actions = make([]model.ActionRecord, 0, len(s.Actions))
	for i, text := range s.Actions {
		rec, err := model.ParseActionRecord(text)
		if err != nil {
			return nil, &SnapshotError{Field: fmt.Sprintf("actions[%d]", i), Err: err}
		}
		r.actions = append(r.actions, rec)
	}
	if err := checkLine(r.cells, r.actions, r.turn); err != nil {
		return nil, err
	}
	return r, nil
}

// checkLine takes the actions back one by one from the restored cells and
// fails on the first record the position contradicts.
func checkLine(cells [64]cell, actions []model.ActionRecord, turn model.Side) error {
	b := NewBoard()
	b.cells = cells
	b.reclassify()
	mover := turn.Opponent()
	for i := len(actions) - 1; i >= 0; i-- {
		rec := actions[i]
		field := fmt.Sprintf("actions[%d]", i)
		if rec.Piece.Side != mover {
			return snapshotErrorf(field, "%s moved out of turn", rec.Piece.Side)
		}
		if reason := b.contradiction(rec); reason != "" {
			return snapshotErrorf(field, "%s", reason)
		}
		b.ApplyAction(rec, Undo)
		mover = mover.Opponent()
	}
	return nil
}

// contradiction reports why rec cannot be the last action played on b, or "".
func (b *Board) contradiction(rec model.ActionRecord) string {
	side := rec.Piece.Side
	if rec.Action == model.ActCastle {
		rookFrom, rookTo := model.RookCastleSquares(side, rec.Wing())
		if p, ok := b.PieceAt(rec.To); !ok || p != (model.Piece{Type: model.King, Side: side}) {
			return fmt.Sprintf("no %s king on %s", side, rec.To)
		}
		if p, ok := b.PieceAt(rookTo); !ok || p != (model.Piece{Type: model.Rook, Side: side}) {
			return fmt.Sprintf("no %s rook on %s", side, rookTo)
		}
		if !b.isEmpty(rec.From) || !b.isEmpty(rookFrom) {
			return fmt.Sprintf("%s or %s is occupied", rec.From, rookFrom)
		}
		return ""
	}
	landed := rec.Piece
	if rec.PromotedTo != "" {
		landed.Type = rec.PromotedTo
	}
	if p, ok := b.PieceAt(rec.To); !ok || p != landed {
		return fmt.Sprintf("%s is not on %s", landed, rec.To)
	}
	if !b.isEmpty(rec.From) {
		return fmt.Sprintf("%s is occupied", rec.From)
	}
	return ""
}

// RestoreFromSnapshot replaces the game with the snapshot's position. Nothing
// changes if the snapshot is malformed.
func (g *Game) RestoreFromSnapshot(s Snapshot) error {
	r, err := validateSnapshot(s)
	if err != nil {
		g.log.Warn("snapshot rejected", "error", err)
		return err
	}

	g.board.cells = r.cells
	g.board.reclassify()
	for side, t := range r.tracking {
		tracked := g.board.Tracking(side)
		tracked.Castling = t.Castling
		tracked.InCheckFrom = append([]model.Position(nil), t.InCheckFrom...)
	}
	g.scratch.SyncFrom(g.board)

	g.actions = r.actions
	g.index = len(r.actions)
	g.turn = r.turn
	g.pending = nil
	g.status = model.GameStatus{State: model.StateRestored}

	g.detectChecks()
	g.log.Info("game restored", "actions", g.index, "turn", g.turn)
	g.emit(EventActionsRestored, g.Actions())
	g.emit(EventGameStatusChanged, g.status)
	g.evaluateCheckmate(g.turn)
	return nil
}
