package engine

import (
	"sync"
)

type EventKind string

const (
	EventActionResolved    EventKind = "actionResolved"
	EventActionTaken       EventKind = "actionTaken"
	EventActionUndone      EventKind = "actionUndone"
	EventActionRedone      EventKind = "actionRedone"
	EventActionsRestored   EventKind = "actionsRestored"
	EventMessage           EventKind = "message"
	EventInCheck           EventKind = "inCheck"
	EventNotInCheck        EventKind = "notInCheck"
	EventGameStatusChanged EventKind = "gameStatusChanged"
)

type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageWarning MessageKind = "warning"
)

type Message struct {
	Text string      `json:"text"`
	Kind MessageKind `json:"kind"`
}

// Event is a state transition pushed to listeners. Data depends on Kind:
//
//	actionResolved     model.Resolution
//	actionTaken        model.ActionRecord (also actionUndone, actionRedone)
//	actionsRestored    []model.ActionRecord
//	message            Message
//	inCheck            model.Check
//	notInCheck         model.Side
//	gameStatusChanged  model.GameStatus
type Event struct {
	Kind EventKind `json:"kind"`
	Data any       `json:"data"`
}

type Listener func(Event)

// Notifier fans events out to listeners in registration order.
type Notifier struct {
	mu        sync.RWMutex
	order     []string
	listeners map[string]Listener
}

func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make(map[string]Listener),
	}
}

// Register adds a listener under id. Registering an id again replaces its
// listener and keeps its place in the order.
func (n *Notifier) Register(id string, l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.listeners[id]; !exists {
		n.order = append(n.order, id)
	}
	n.listeners[id] = l
}

func (n *Notifier) Unregister(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.listeners[id]; !exists {
		return
	}
	delete(n.listeners, id)
	for i, existing := range n.order {
		if existing == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.order)
}

// Emit delivers e to every listener. Listeners are called without the lock
// held, so they may register or unregister.
func (n *Notifier) Emit(e Event) {
	n.mu.RLock()
	active := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		active = append(active, n.listeners[id])
	}
	n.mu.RUnlock()

	for _, l := range active {
		l(e)
	}
}
