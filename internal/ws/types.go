package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeResolve MessageType = "resolve"
	MessageTypeTake    MessageType = "take"
	MessageTypeMove    MessageType = "move"
	MessageTypeAbandon MessageType = "abandon"
	MessageTypeUndo    MessageType = "undo"
	MessageTypeRedo    MessageType = "redo"

	// server -> client
	MessageTypeGameState MessageType = "gameState"
	MessageTypeEvent     MessageType = "event"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
