package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// wsClient serializes writes to one connection. Game events arrive from
// whichever goroutine is mutating the game.
type wsClient struct {
	conn        *websocket.Conn
	mu          sync.Mutex
	orientation bool
}

func (cl *wsClient) send(t ws.MessageType, payload any) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(msg)
}

func (cl *wsClient) sendError(errorMsg string) {
	if err := cl.send(ws.MessageTypeError, map[string]string{"error": errorMsg}); err != nil {
		logger().Warn("Failed to send error", "error", err)
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	client := &wsClient{
		conn:        c,
		orientation: c.Query("orientation") != string(model.Black),
	}

	// a player may hold several connections, so each one listens under its own id
	listenerID := playerID + ":" + uuid.NewString()
	err := wsc.gameService.Subscribe(gameID, listenerID, func(e engine.Event) {
		if err := client.send(ws.MessageTypeEvent, e); err != nil {
			logger().Warn("Failed to push event", "gameID", gameID, "playerID", playerID, "kind", e.Kind, "error", err)
		}
	})
	if err != nil {
		logger().Warn("Failed to register connection", "gameID", gameID, "playerID", playerID, "error", err)
		client.sendError(err.Error())
		c.Close()
		return
	}
	defer wsc.gameService.Unsubscribe(gameID, listenerID)

	if err := wsc.sendState(client, gameID); err != nil {
		logger().Warn("Failed to send initial state", "gameID", gameID, "error", err)
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger().Debug("Connection closed", "gameID", gameID, "playerID", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			client.sendError(fmt.Sprintf("invalid message: %v", err))
			continue
		}

		if err := wsc.handleMessage(gameID, msg); err != nil {
			logger().Debug("Command rejected", "gameID", gameID, "type", msg.Type, "error", err)
			client.sendError(err.Error())
			continue
		}
		if err := wsc.sendState(client, gameID); err != nil {
			logger().Warn("Failed to send state", "gameID", gameID, "error", err)
			return
		}
	}
}

func (wsc *WebSocketController) sendState(client *wsClient, gameID string) error {
	view, err := wsc.gameService.GetGameState(gameID, client.orientation)
	if err != nil {
		return err
	}
	return client.send(ws.MessageTypeGameState, view)
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeResolve, ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("invalid move: %w", err)
		}
		if msg.Type == ws.MessageTypeMove {
			_, err := wsc.gameService.HandleMove(gameID, move)
			return err
		}
		_, err := wsc.gameService.Resolve(gameID, move)
		return err

	case ws.MessageTypeTake:
		taken, err := wsc.gameService.Take(gameID)
		if err != nil {
			return err
		}
		if !taken {
			return errors.New("no legal move is pending")
		}
		return nil

	case ws.MessageTypeAbandon:
		return wsc.gameService.Abandon(gameID)
	case ws.MessageTypeUndo:
		return wsc.gameService.Undo(gameID)
	case ws.MessageTypeRedo:
		return wsc.gameService.Redo(gameID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
