package server

import (
	"errors"
	"sync"
	"testing"
	"time"

	"sueca/game"
)

type scheduled struct {
	f       func()
	stopped bool
}

// manualClock collects AI timers so tests decide when they fire
type manualClock struct {
	mu      sync.Mutex
	pending []*scheduled
}

func (m *manualClock) afterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &scheduled{f: f}
	m.pending = append(m.pending, s)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		s.stopped = true
		return true
	}
}

// next pops the oldest timer that was not stopped
func (m *manualClock) next() (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.pending) > 0 {
		s := m.pending[0]
		m.pending = m.pending[1:]
		if !s.stopped {
			return s.f, true
		}
	}
	return nil, false
}

func (m *manualClock) last() *scheduled {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil
	}
	return m.pending[len(m.pending)-1]
}

func newTestTable(t *testing.T, seed int64) (*Table, *manualClock) {
	t.Helper()
	table, err := NewTable(TableConfig{Seed: seed}, nil)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	clock := &manualClock{}
	table.after = clock.afterFunc
	return table, clock
}

// runAI fires AI timers until no AI seat is waiting to play
func runAI(t *testing.T, table *Table, clock *manualClock) {
	t.Helper()
	for i := 0; table.AIPending(); i++ {
		if i > game.NumPlayers {
			t.Fatal("AI kept playing past the human seat")
		}
		f, ok := clock.next()
		if !ok {
			t.Fatal("AI pending without a scheduled timer")
		}
		f()
	}
}

// restartUntilAIPending restarts until an AI seat leads the new game
func restartUntilAIPending(t *testing.T, table *Table) {
	t.Helper()
	for i := 0; !table.AIPending(); i++ {
		if i > 50 {
			t.Fatal("No game with an AI lead after 50 restarts")
		}
		if _, err := table.Restart(); err != nil {
			t.Fatalf("Restart failed: %v", err)
		}
	}
}

func TestTableRequiresStart(t *testing.T) {
	table, _ := newTestTable(t, 1)
	if _, err := table.Play(0); !errors.Is(err, ErrGameNotStarted) {
		t.Errorf("Expected ErrGameNotStarted from Play, got %v", err)
	}
	if _, err := table.Continue(); !errors.Is(err, ErrGameNotStarted) {
		t.Errorf("Expected ErrGameNotStarted from Continue, got %v", err)
	}
	if snap := table.Snapshot(); snap.State.Phase != game.PhaseTrumpSelection {
		t.Errorf("Expected phase %s, got %s", game.PhaseTrumpSelection, snap.State.Phase)
	}
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := table.Start(); !errors.Is(err, game.ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction on second Start, got %v", err)
	}
}

func TestTableAIPlaysUntilHumanTurn(t *testing.T) {
	table, clock := newTestTable(t, 2)
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	runAI(t, table, clock)

	snap := table.Snapshot()
	if !snap.State.CanAct || snap.State.CurrentPlayer != game.HumanSeat {
		t.Fatalf("Expected the human seat to act, got player %d canAct=%v", snap.State.CurrentPlayer, snap.State.CanAct)
	}
	if len(snap.Legal) == 0 {
		t.Error("Expected legal cards for the human seat")
	}
	if len(snap.Hand) != game.HandSize {
		t.Errorf("Expected %d cards in hand, got %d", game.HandSize, len(snap.Hand))
	}
}

func TestTableRejectsPlayWhileAIPending(t *testing.T) {
	table, _ := newTestTable(t, 3)
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	restartUntilAIPending(t, table)

	hand := table.Snapshot().Hand
	if _, err := table.Play(hand[0].ID); !errors.Is(err, ErrAIPending) {
		t.Errorf("Expected ErrAIPending, got %v", err)
	}
	if snap := table.Snapshot(); snap.State.CanAct || len(snap.Legal) != 0 {
		t.Error("Expected the human seat to be blocked while an AI move is pending")
	}
}

func TestTableRestartDiscardsPendingAI(t *testing.T) {
	table, clock := newTestTable(t, 4)
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	restartUntilAIPending(t, table)
	stale := clock.last()
	oldGame := table.Snapshot().State.GameID

	if _, err := table.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if !stale.stopped {
		t.Error("Expected restart to stop the pending timer")
	}
	before := table.Snapshot()
	if before.State.GameID == oldGame {
		t.Fatal("Expected a new game after restart")
	}

	// The timer fires anyway, as a real one can when Stop loses the race
	stale.f()

	after := table.Snapshot()
	if len(after.State.CurrentTrick.Cards) != len(before.State.CurrentTrick.Cards) {
		t.Errorf("Stale AI move reached the new game: trick %d -> %d cards",
			len(before.State.CurrentTrick.Cards), len(after.State.CurrentTrick.Cards))
	}
	for i := range after.State.Players {
		if after.State.Players[i].CardCount != game.HandSize {
			t.Errorf("Seat %d lost a card to a stale move", i)
		}
	}
	if after.State.AIPending != before.State.AIPending {
		t.Error("Stale timer changed the pending AI flag")
	}
}

func TestTableRejectedPlayIsReported(t *testing.T) {
	table, clock := newTestTable(t, 6)
	var updates [][]game.Event
	table.OnUpdate(func(snap Snapshot, events []game.Event) {
		updates = append(updates, events)
	})
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	runAI(t, table, clock)

	held := map[int]bool{}
	for _, c := range table.Snapshot().Hand {
		held[c.ID] = true
	}
	missing := 0
	for held[missing] {
		missing++
	}

	updates = nil
	_, err := table.Play(missing)
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}
	if len(updates) != 1 || len(updates[0]) != 1 || updates[0][0].Kind != game.EventMoveRejected {
		t.Errorf("Expected one move_rejected update, got %v", updates)
	}
	if !table.Snapshot().State.CanAct {
		t.Error("Expected the human seat to keep the turn")
	}
}

func TestTablePlaysFullGame(t *testing.T) {
	table, clock := newTestTable(t, 7)
	ended := 0
	table.OnUpdate(func(snap Snapshot, events []game.Event) {
		for _, ev := range events {
			if ev.Kind == game.EventGameEnded {
				ended++
			}
		}
	})
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for step := 0; ; step++ {
		if step > 200 {
			t.Fatal("Game did not end")
		}
		runAI(t, table, clock)
		snap := table.Snapshot()
		if snap.State.Phase == game.PhaseGameEnded {
			break
		}

		var err error
		switch {
		case snap.State.Phase == game.PhaseTrickComplete:
			_, err = table.Continue()
		case snap.State.CanAct:
			_, err = table.Play(snap.Legal[0])
		default:
			t.Fatalf("Stuck in phase %s with player %d", snap.State.Phase, snap.State.CurrentPlayer)
		}
		if err != nil {
			t.Fatalf("Step %d failed: %v", step, err)
		}
	}

	out := table.Snapshot().State.Outcome
	if out == nil || !out.Final {
		t.Fatal("Expected a final outcome")
	}
	if out.Points[0]+out.Points[1] != game.TotalPoints {
		t.Errorf("Expected %d points, got %v", game.TotalPoints, out.Points)
	}
	if ended != 1 {
		t.Errorf("Expected one game_ended event, got %d", ended)
	}
}

func TestTableDelayRange(t *testing.T) {
	table, err := NewTable(TableConfig{Seed: 1, AIDelayMin: 10 * time.Millisecond, AIDelayMax: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		d := table.delay()
		if d < 10*time.Millisecond || d > 20*time.Millisecond {
			t.Fatalf("Delay %v outside [10ms, 20ms]", d)
		}
	}

	fixed, _ := NewTable(TableConfig{Seed: 1, AIDelayMin: 5 * time.Millisecond}, nil)
	if d := fixed.delay(); d != 5*time.Millisecond {
		t.Errorf("Expected a fixed 5ms delay, got %v", d)
	}
}

func TestTableRealTimerReachesHumanTurn(t *testing.T) {
	table, err := NewTable(TableConfig{Seed: 8, AIDelayMin: time.Millisecond, AIDelayMax: 2 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	defer table.Close()
	if err := table.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !table.Snapshot().State.CanAct {
		if time.Now().After(deadline) {
			t.Fatal("AI seats did not reach the human turn")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
