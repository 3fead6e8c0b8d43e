package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	gs := service.NewGameService(service.NewGameManager())
	app := fiber.New()
	Register(app, NewGameController(gs), NewWebSocketController(gs), nil)
	return app
}

// call sends a request as player "p1" and decodes a JSON response into out when given.
func call(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Player-ID", "p1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, data, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if code := call(t, app, http.MethodPost, "/api/game/create", "", &created); code != fiber.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	if created.GameID == "" {
		t.Fatal("no game id")
	}
	return created.GameID
}

func TestRequiresPlayerID(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/game/create", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestPlayThroughREST(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)
	base := "/api/game/" + id

	var res model.Resolution
	if code := call(t, app, http.MethodPost, base+"/resolve", `{"from":"e2","to":"e4"}`, &res); code != fiber.StatusOK {
		t.Fatalf("resolve: status %d", code)
	}
	if res.Action != model.ActMove {
		t.Fatalf("resolution = %+v", res)
	}

	var view service.GameView
	if code := call(t, app, http.MethodPost, base+"/take", "", &view); code != fiber.StatusOK {
		t.Fatalf("take: status %d", code)
	}
	if view.Turn != model.Black || len(view.Actions) != 1 || view.Actions[0].String() != "wPe2e4" {
		t.Fatalf("view after take = %+v", view)
	}

	if code := call(t, app, http.MethodPost, base+"/take", "", nil); code != fiber.StatusConflict {
		t.Fatalf("second take: status %d", code)
	}

	var legal struct {
		From  model.Position     `json:"from"`
		Moves []model.Resolution `json:"moves"`
	}
	if code := call(t, app, http.MethodGet, base+"/legal/g8", "", &legal); code != fiber.StatusOK {
		t.Fatalf("legal: status %d", code)
	}
	if legal.From.String() != "g8" || len(legal.Moves) != 2 {
		t.Fatalf("legal = %+v", legal)
	}
	if code := call(t, app, http.MethodGet, base+"/legal/z9", "", nil); code != fiber.StatusBadRequest {
		t.Fatalf("legal on bad square: status %d", code)
	}

	if code := call(t, app, http.MethodPost, base+"/undo", "", &view); code != fiber.StatusOK || view.Turn != model.White {
		t.Fatalf("undo: status %d, view %+v", code, view)
	}
	if code := call(t, app, http.MethodPost, base+"/undo", "", nil); code != fiber.StatusConflict {
		t.Fatalf("undo past the start: status %d", code)
	}
	if code := call(t, app, http.MethodPost, base+"/redo", "", &view); code != fiber.StatusOK || !view.CanUndo {
		t.Fatalf("redo: status %d, view %+v", code, view)
	}

	if code := call(t, app, http.MethodGet, base+"?orientation=black", "", &view); code != fiber.StatusOK {
		t.Fatalf("get: status %d", code)
	}
	if view.Squares[0].Position.String() != "h1" {
		t.Fatalf("black orientation starts at %s", view.Squares[0].Position)
	}

	if code := call(t, app, http.MethodPost, base+"/concede", "", &view); code != fiber.StatusOK {
		t.Fatalf("concede: status %d", code)
	}
	if view.Status != (model.GameStatus{State: model.StateConceded, Victor: model.White}) {
		t.Fatalf("status after concede = %+v", view.Status)
	}
	if code := call(t, app, http.MethodPost, base+"/draw", "", nil); code != fiber.StatusConflict {
		t.Fatalf("draw after concede: status %d", code)
	}
	if code := call(t, app, http.MethodPost, base+"/reset", "", &view); code != fiber.StatusOK || view.Status.State != model.StateNew {
		t.Fatalf("reset: status %d, view %+v", code, view)
	}
}

func TestRejectsBadRequests(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown game", http.MethodGet, "/api/game/nope", "", fiber.StatusNotFound},
		{"resolve unknown game", http.MethodPost, "/api/game/nope/resolve", `{"from":"e2","to":"e4"}`, fiber.StatusNotFound},
		{"bad move body", http.MethodPost, "/api/game/" + id + "/resolve", `{"from":"e9","to":"e4"}`, fiber.StatusBadRequest},
		{"redo nothing", http.MethodPost, "/api/game/" + id + "/redo", "", fiber.StatusConflict},
		{"malformed snapshot", http.MethodPut, "/api/game/" + id + "/snapshot", `{"board":{}}`, fiber.StatusBadRequest},
		{"invalid snapshot", http.MethodPost, "/api/game/restore", `{"board":{"e1":"wK"},"tracking":{"white":{},"black":{}},"actions":[],"currentTurn":"w"}`, fiber.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/api/game/nope", "", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			if code := call(t, app, tt.method, tt.path, tt.body, &body); code != tt.status {
				t.Fatalf("status %d, want %d (%v)", code, tt.status, body)
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("no error in %v", body)
			}
		})
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)
	base := "/api/game/" + id

	for _, m := range []string{`{"from":"e2","to":"e4"}`, `{"from":"e7","to":"e5"}`} {
		call(t, app, http.MethodPost, base+"/resolve", m, nil)
		call(t, app, http.MethodPost, base+"/take", "", nil)
	}

	var snapshot map[string]any
	if code := call(t, app, http.MethodGet, base+"/snapshot", "", &snapshot); code != fiber.StatusOK {
		t.Fatalf("snapshot: status %d", code)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatal(err)
	}

	var created struct {
		GameID string `json:"game_id"`
	}
	if code := call(t, app, http.MethodPost, "/api/game/restore", string(data), &created); code != fiber.StatusCreated {
		t.Fatalf("restore: status %d", code)
	}
	var view service.GameView
	if code := call(t, app, http.MethodGet, "/api/game/"+created.GameID, "", &view); code != fiber.StatusOK {
		t.Fatalf("get restored: status %d", code)
	}
	if view.Status.State != model.StateRestored || len(view.Actions) != 2 || view.Turn != model.White {
		t.Fatalf("restored view = %+v", view)
	}

	call(t, app, http.MethodPost, "/api/game/"+created.GameID+"/reset", "", nil)
	if code := call(t, app, http.MethodPut, "/api/game/"+created.GameID+"/snapshot", string(data), &view); code != fiber.StatusOK {
		t.Fatalf("put snapshot: status %d", code)
	}
	if len(view.Actions) != 2 {
		t.Fatalf("view after put = %+v", view)
	}

	req := httptest.NewRequest(http.MethodGet, base+"/pgn", nil)
	req.Header.Set("X-Player-ID", "p1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	pgnText, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(pgnText), "1. e4 e5") {
		t.Fatalf("pgn: status %d\n%s", resp.StatusCode, pgnText)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-chess-pgn" {
		t.Fatalf("content type %q", ct)
	}

	if code := call(t, app, http.MethodDelete, base, "", nil); code != fiber.StatusNoContent {
		t.Fatalf("delete: status %d", code)
	}
	if code := call(t, app, http.MethodGet, base, "", nil); code != fiber.StatusNotFound {
		t.Fatalf("get after delete: status %d", code)
	}
}
