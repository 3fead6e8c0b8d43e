package pgn

import (
	"errors"
	"sort"
	"strings"
	"testing"

	chess "github.com/corentings/chess/v2"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
)

func playLine(t *testing.T, g *engine.Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m := model.Move{From: model.MustPosition(s[:2]), To: model.MustPosition(s[2:4])}
		if a := g.ResolveAction(m); a == model.NoAction {
			t.Fatalf("%s refused", s)
		}
		if !g.TakeResolvedAction() {
			t.Fatalf("%s not taken", s)
		}
	}
}

func TestExportFoolsMate(t *testing.T) {
	g := engine.NewGame()
	playLine(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	out, err := Export(g.Actions(), g.GameStatus(), map[string]string{"Event": "Test"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`[Event "Test"]`, `[Result "0-1"]`, "Qh4"} {
		if !strings.Contains(out, want) {
			t.Errorf("PGN missing %q:\n%s", want, out)
		}
	}
}

func TestExportOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*engine.Game) error
		result string
	}{
		{"black concedes", (*engine.Game).Concede, "1-0"},
		{"draw", (*engine.Game).CallADraw, "1/2-1/2"},
		{"in play", func(*engine.Game) error { return nil }, "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := engine.NewGame()
			playLine(t, g, "e2e4", "e7e5", "g1f3")
			if err := tt.finish(g); err != nil {
				t.Fatal(err)
			}
			out, err := Export(g.Actions(), g.GameStatus(), nil)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, `[Result "`+tt.result+`"]`) {
				t.Fatalf("want result %s:\n%s", tt.result, out)
			}
		})
	}
}

func TestReplayCastlingAndPromotion(t *testing.T) {
	recs := make([]model.ActionRecord, 0)
	for _, text := range []string{"wPe2e4", "bPe7e5", "wNg1f3", "bNb8c6", "wBf1c4", "bNg8f6", "w0-0", "bNf6xPe4"} {
		rec, err := model.ParseActionRecord(text)
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}
	game, err := Replay(recs)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"O-O", "Nxe4"} {
		if !strings.Contains(game.String(), want) {
			t.Errorf("movetext missing %q:\n%s", want, game.String())
		}
	}
}

func TestReplayRejectsImpossibleHistory(t *testing.T) {
	rec, err := model.ParseActionRecord("wPe2e5")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Replay([]model.ActionRecord{rec}); !errors.Is(err, ErrNotReplayable) {
		t.Fatalf("err = %v, want ErrNotReplayable", err)
	}
}

// TestLegalMovesAgreeWithReplay compares the engine's legal moves with the
// replayed game's at every ply of a line free of en passant and promotion.
func TestLegalMovesAgreeWithReplay(t *testing.T) {
	line := []string{
		"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "e1g1", "g8f6",
		"d2d3", "e8g8", "c1g5", "h7h6", "g5f6", "d8f6", "b1c3", "c6d4",
		"f3d4", "c5d4", "d1h5", "d4c3", "b2c3", "f6f2", "f1f2",
	}
	g := engine.NewGame()
	for ply := 0; ; ply++ {
		ref, err := Replay(g.Actions())
		if err != nil {
			t.Fatalf("ply %d: %v", ply, err)
		}
		got, want := engineMoves(g), referenceMoves(ref)
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("ply %d:\n got %v\nwant %v", ply, got, want)
		}
		if ply == len(line) {
			break
		}
		playLine(t, g, line[ply])
	}
}

func engineMoves(g *engine.Game) []string {
	var out []string
	for i := 0; i < 64; i++ {
		for _, res := range g.LegalMoves(model.PositionFromIndex(i)) {
			out = append(out, res.Move.From.String()+res.Move.To.String())
		}
	}
	sort.Strings(out)
	return out
}

func referenceMoves(game *chess.Game) []string {
	moves := game.ValidMoves()
	out := make([]string, 0, len(moves))
	for i := range moves {
		m := &moves[i]
		out = append(out, m.S1().String()+m.S2().String())
	}
	sort.Strings(out)
	return out
}
