package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestEnsurePlayerID(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
		want   string
	}{
		{name: "header", header: "p1", status: fiber.StatusOK, want: "p1"},
		{name: "query", query: "p2", status: fiber.StatusOK, want: "p2"},
		{name: "header wins", header: "p1", query: "p2", status: fiber.StatusOK, want: "p1"},
		{name: "missing", status: fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/whoami"
			if tt.query != "" {
				path += "?playerId=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.want == "" {
				return
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(body); got != tt.want {
				t.Fatalf("player id %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWebSocketUpgradeRequiresUpgrade(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/:gameId", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws/g1?playerId=p1", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}
