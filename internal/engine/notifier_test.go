package engine

import (
	"reflect"
	"sync"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
)

func TestNotifierOrder(t *testing.T) {
	n := NewNotifier()
	var calls []string
	listener := func(name string) Listener {
		return func(Event) { calls = append(calls, name) }
	}

	n.Register("a", listener("a"))
	n.Register("b", listener("b"))
	n.Register("c", listener("c"))
	n.Register("a", listener("a2"))
	if n.Len() != 3 {
		t.Fatalf("Len() = %d", n.Len())
	}

	n.Emit(Event{Kind: EventMessage})
	if want := []string{"a2", "b", "c"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}

	calls = nil
	n.Unregister("b")
	n.Unregister("missing")
	n.Emit(Event{Kind: EventMessage})
	if want := []string{"a2", "c"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestNotifierListenerMayUnregister(t *testing.T) {
	n := NewNotifier()
	fired := 0
	n.Register("once", func(Event) {
		fired++
		n.Unregister("once")
	})
	n.Emit(Event{Kind: EventMessage})
	n.Emit(Event{Kind: EventMessage})
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
}

func TestNotifierConcurrentRegistration(t *testing.T) {
	n := NewNotifier()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := string(rune('a' + id))
			n.Register(name, func(Event) {})
			n.Emit(Event{Kind: EventMessage})
		}(i)
	}
	wg.Wait()
	if n.Len() != 8 {
		t.Fatalf("Len() = %d", n.Len())
	}
}

func TestGameEvents(t *testing.T) {
	g := NewGame()
	rec := record(g)
	play(t, g, "e2e4", "f7f6", "d1h5")

	var kinds []EventKind
	for _, e := range rec.events {
		kinds = append(kinds, e.Kind)
	}
	want := []EventKind{
		EventActionResolved, EventActionTaken,
		EventActionResolved, EventActionTaken,
		EventActionResolved, EventInCheck, EventActionTaken,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	check, ok := rec.events[5].Data.(model.Check)
	if !ok || check.Side != model.Black || len(check.From) != 1 || check.From[0].String() != "h5" {
		t.Fatalf("inCheck payload = %+v", rec.events[5].Data)
	}

	rec.events = nil
	play(t, g, "g7g6")
	if rec.count(EventNotInCheck) != 1 {
		t.Fatalf("events = %v", rec.events)
	}
	if side, _ := rec.events[1].Data.(model.Side); side != model.Black {
		t.Fatalf("notInCheck payload = %v", rec.events[1].Data)
	}
}
