package engine

import (
	"fmt"
	"log/slog"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// pending is the cached judgment of the last move passed to ResolveAction.
// record is nil when the move was refused.
type pending struct {
	resolution model.Resolution
	record     *model.ActionRecord
}

// Game runs one match: turn order, resolution caching, history, check
// detection and status. It is not safe for concurrent use.
type Game struct {
	board    *Board
	scratch  *Board
	notifier *Notifier
	log      *slog.Logger

	status  model.GameStatus
	turn    model.Side
	actions []model.ActionRecord
	index   int
	pending *pending
}

type Option func(*Game)

// WithNotifier makes the game emit its events through n.
func WithNotifier(n *Notifier) Option {
	return func(g *Game) {
		g.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

func NewGame(opts ...Option) *Game {
	g := &Game{
		board:   NewBoard(),
		scratch: NewBoard(),
		status:  model.GameStatus{State: model.StateNew},
		turn:    model.White,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.notifier == nil {
		g.notifier = NewNotifier()
	}
	if g.log == nil {
		g.log = slog.Default().With("package", "engine")
	}
	return g
}

func (g *Game) Notifier() *Notifier {
	return g.notifier
}

func (g *Game) PieceAt(pos model.Position) (model.Piece, bool) {
	return g.board.PieceAt(pos)
}

// BoardAsSquares lists the board for rendering; orientation true puts white at the bottom.
func (g *Game) BoardAsSquares(orientation bool) []model.Square {
	return g.board.Squares(orientation)
}

func (g *Game) CurrentTurn() model.Side {
	return g.turn
}

func (g *Game) GameStatus() model.GameStatus {
	return g.status
}

// Tracking exposes a copy of a side's tracking cache.
func (g *Game) Tracking(side model.Side) Tracking {
	t := newTracking()
	t.copyFrom(g.board.Tracking(side))
	return t
}

// Check describes the side currently in check, or returns nil.
func (g *Game) Check() *model.Check {
	for _, side := range model.Sides {
		t := g.board.Tracking(side)
		if t.InCheck() {
			return &model.Check{
				Side:         side,
				KingPosition: t.King,
				From:         append([]model.Position(nil), t.InCheckFrom...),
			}
		}
	}
	return nil
}

// Actions returns the committed line of play, excluding undone actions.
func (g *Game) Actions() []model.ActionRecord {
	return append([]model.ActionRecord(nil), g.actions[:g.index]...)
}

func (g *Game) CanUndo() bool {
	return g.status.State.Reversible() && g.index > 0
}

func (g *Game) CanRedo() bool {
	return g.status.State.Reversible() && g.index < len(g.actions)
}

// ResolveAction judges m for the side to move. The judgment is cached until
// TakeResolvedAction or AbandonResolution, so repeating the same move is free.
func (g *Game) ResolveAction(m model.Move) model.Action {
	if g.pending != nil && g.pending.resolution.Move == m {
		return g.pending.resolution.Action
	}

	rec, reason := g.evaluate(m)
	res := model.Resolution{Move: m}
	if rec != nil {
		res.Action = rec.Action
	}
	g.pending = &pending{resolution: res, record: rec}

	if reason != "" {
		g.message(reason, MessageWarning)
	}
	g.log.Debug("action resolved", "move", m.String(), "action", res.Action)
	g.emit(EventActionResolved, res)
	return res.Action
}

// evaluate returns the record m would commit, or nil and an optional reason.
func (g *Game) evaluate(m model.Move) (*model.ActionRecord, string) {
	if !g.status.State.InPlay() {
		return nil, fmt.Sprintf("the game is over (%s)", g.status.State)
	}
	piece, ok := g.board.PieceAt(m.From)
	if !ok || !m.To.Valid() {
		return nil, ""
	}
	if piece.Side != g.turn {
		return nil, fmt.Sprintf("it is %s's turn", g.turn)
	}

	g.scratch.SyncFrom(g.board)
	action := Resolve(g.scratch, m)
	if action == model.NoAction {
		if piece.Type == model.King {
			if wing, ok := model.CastleWing(piece.Side, m.From, m.To); ok {
				return nil, castleDenial(g.scratch, piece.Side, wing)
			}
		}
		return nil, ""
	}

	rec := recordFor(g.scratch, piece, m, action)
	g.scratch.ApplyAction(rec, Do)
	if g.scratch.CanBeCaptured(g.scratch.Tracking(piece.Side).King, piece.Side) {
		if g.board.Tracking(piece.Side).InCheck() {
			return nil, "that move would leave you in check"
		}
		return nil, "that move would put you in check"
	}
	return &rec, ""
}

// recordFor builds the record of piece playing m as action on b.
func recordFor(b *Board, piece model.Piece, m model.Move, action model.Action) model.ActionRecord {
	rec := model.ActionRecord{Piece: piece, From: m.From, To: m.To, Action: action}
	if action.IsCapture() {
		if captured, ok := b.PieceAt(m.To); ok {
			rec.Captured = &captured
		}
	}
	if action.IsPromotion() {
		rec.PromotedTo = m.Promotion
		if rec.PromotedTo == "" {
			rec.PromotedTo = model.Queen
		}
	}
	return rec
}

// TakeResolvedAction commits the cached resolution. It returns false if
// there is no pending legal resolution.
func (g *Game) TakeResolvedAction() bool {
	if g.pending == nil || g.pending.record == nil || !g.status.State.InPlay() {
		return false
	}
	rec := *g.pending.record
	g.pending = nil

	g.board.ApplyAction(rec, Do)
	g.actions = append(g.actions[:g.index], rec)
	g.index++

	mover := rec.Piece.Side
	g.detectChecks()
	g.evaluateCheckmate(mover.Opponent())
	g.turn = mover.Opponent()

	g.log.Debug("action taken", "action", rec.String(), "index", g.index)
	g.emit(EventActionTaken, rec)
	return true
}

// AbandonResolution drops the cached resolution without committing it.
func (g *Game) AbandonResolution() {
	g.pending = nil
}

// CheckStalemate declares stalemate if the side to move is not in check and
// has no move that keeps its king safe. Unlike checkmate it is never
// evaluated automatically.
func (g *Game) CheckStalemate() bool {
	if !g.status.State.InPlay() {
		return false
	}
	if g.board.Tracking(g.turn).InCheck() || !g.hasNoLegalMoves(g.turn) {
		return false
	}
	g.setStatus(model.GameStatus{State: model.StateStalemate, Victor: model.NoSide})
	return true
}

// Concede ends the game with the side to move giving up.
func (g *Game) Concede() error {
	if !g.status.State.InPlay() {
		return ErrNotInPlay
	}
	g.pending = nil
	g.setStatus(model.GameStatus{State: model.StateConceded, Victor: g.turn.Opponent()})
	return nil
}

func (g *Game) CallADraw() error {
	if !g.status.State.InPlay() {
		return ErrNotInPlay
	}
	g.pending = nil
	g.setStatus(model.GameStatus{State: model.StateDraw, Victor: model.NoSide})
	return nil
}

// Reset returns to the starting position with an empty history.
func (g *Game) Reset() {
	g.board.Reset()
	g.scratch.Reset()
	g.actions = g.actions[:0]
	g.index = 0
	g.turn = model.White
	g.pending = nil
	g.setStatus(model.GameStatus{State: model.StateNew})
}

// LegalMoves lists the moves the piece on from may make without exposing its
// own king. It is empty unless that piece belongs to the side to move.
func (g *Game) LegalMoves(from model.Position) []model.Resolution {
	piece, ok := g.board.PieceAt(from)
	if !ok || piece.Side != g.turn || !g.status.State.InPlay() {
		return nil
	}
	var out []model.Resolution
	for _, res := range ResolvableMoves(g.board, piece, from, false) {
		if g.safeAfter(piece, res) {
			out = append(out, res)
		}
	}
	return out
}

// detectChecks refreshes both sides' check attackers and reports transitions.
func (g *Game) detectChecks() {
	for _, side := range model.Sides {
		was := g.board.Tracking(side).InCheck()
		if g.board.refreshCheck(side) {
			t := g.board.Tracking(side)
			g.emit(EventInCheck, model.Check{
				Side:         side,
				KingPosition: t.King,
				From:         append([]model.Position(nil), t.InCheckFrom...),
			})
		} else if was {
			g.emit(EventNotInCheck, side)
		}
	}
}

// evaluateCheckmate ends the game if side is in check with no way out.
func (g *Game) evaluateCheckmate(side model.Side) {
	if !g.board.Tracking(side).InCheck() || !g.hasNoLegalMoves(side) {
		return
	}
	g.setStatus(model.GameStatus{State: model.StateCheckmate, Victor: side.Opponent()})
}

func (g *Game) setStatus(s model.GameStatus) {
	if g.status == s {
		return
	}
	g.log.Info("game status changed", "from", g.status.State, "to", s.State, "victor", s.Victor)
	g.status = s
	g.emit(EventGameStatusChanged, s)
}

func (g *Game) message(text string, kind MessageKind) {
	g.emit(EventMessage, Message{Text: text, Kind: kind})
}

func (g *Game) emit(kind EventKind, data any) {
	g.notifier.Emit(Event{Kind: kind, Data: data})
}
