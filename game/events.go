package game

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// EventKind identifies an engine event
type EventKind string

const (
	EventTrumpRevealed EventKind = "trump_revealed"
	EventTurnChanged   EventKind = "turn_changed"
	EventCardPlayed    EventKind = "card_played"
	EventMoveRejected  EventKind = "move_rejected"
	EventTrickWon      EventKind = "trick_won"
	EventGameEnded     EventKind = "game_ended"
	EventGameRestarted EventKind = "game_restarted"
)

// Event is emitted by engine operations. Fields not relevant to Kind are zero.
// CardID and Points are always encoded: card 0 (2S) and a 0-point trick are real values.
type Event struct {
	Kind   EventKind `json:"kind"`
	GameID uuid.UUID `json:"gameId"`
	Round  int       `json:"round"`
	Seat   int       `json:"seat"`
	CardID int       `json:"cardId"`
	Points int       `json:"points"`
	Reason string    `json:"reason,omitempty"`
}

// Listener receives published events
type Listener func(Event)

// EventBus fans events out to subscribers in publish order
type EventBus struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	next      int
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns a function that removes it
func (b *EventBus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.listeners[id] = l
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish delivers each event to every listener
func (b *EventBus) Publish(events ...Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	// subscription order
	slices.Sort(ids)
	for _, ev := range events {
		for _, id := range ids {
			b.mu.RLock()
			l, ok := b.listeners[id]
			b.mu.RUnlock()
			if ok {
				l(ev)
			}
		}
	}
}
