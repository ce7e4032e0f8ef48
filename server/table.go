package server

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"sueca/game"
)

var (
	ErrAIPending      = errors.New("waiting for an AI seat to play")
	ErrGameNotStarted = errors.New("game not started")
)

// UpdateFunc receives the table snapshot and the events that produced it.
// It runs with the table locked and must not call back into the Table.
type UpdateFunc func(snap Snapshot, events []game.Event)

// afterFunc schedules f after d and returns a function that cancels it
type afterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// TableConfig controls the engine seed and AI pacing
type TableConfig struct {
	Seed       int64
	AIDelayMin time.Duration
	AIDelayMax time.Duration
}

// Table owns one game for one human seat. All engine access goes through
// the table lock; AI seats play after a random delay.
type Table struct {
	mu         sync.Mutex
	engine     *game.Engine
	delayRng   *rand.Rand
	cfg        TableConfig
	logger     *zap.Logger
	onUpdate   UpdateFunc
	after      afterFunc
	stopTimer  func() bool
	generation uint64
	version    uint64
	aiPending  bool
	started    bool
}

// NewTable deals a game. Call Start to reveal trump and begin play.
func NewTable(cfg TableConfig, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AIDelayMax < cfg.AIDelayMin {
		cfg.AIDelayMax = cfg.AIDelayMin
	}
	engine, err := game.New(game.NewRand(cfg.Seed), logger.Named("engine"))
	if err != nil {
		return nil, err
	}
	return &Table{
		engine:   engine,
		delayRng: game.NewRand(0),
		cfg:      cfg,
		logger:   logger,
		after:    realAfterFunc,
	}, nil
}

// OnUpdate sets the function notified after every state change
func (t *Table) OnUpdate(fn UpdateFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// Start begins the dealt game
func (t *Table) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	events, err := t.engine.Start()
	if err != nil {
		return err
	}
	t.started = true
	t.logger.Info("table started", zap.String("game_id", t.engine.GameID().String()))
	t.afterChange(events)
	return nil
}

// Play submits the human seat's card
func (t *Table) Play(cardID int) ([]game.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil, ErrGameNotStarted
	}
	if t.aiPending {
		return nil, ErrAIPending
	}

	events, err := t.engine.PlayCard(cardID)
	if err != nil {
		var rejected *game.RejectedPlayError
		if errors.As(err, &rejected) {
			t.afterChange(events)
		}
		return events, err
	}
	t.afterChange(events)
	return events, nil
}

// Continue clears a finished trick, or ends the game after the last one
func (t *Table) Continue() ([]game.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil, ErrGameNotStarted
	}
	events, err := t.engine.Continue()
	if err != nil {
		return nil, err
	}
	t.afterChange(events)
	return events, nil
}

// Restart abandons the current game, cancelling any pending AI turn
func (t *Table) Restart() ([]game.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelAI()
	events, err := t.engine.Restart()
	if err != nil {
		return nil, err
	}
	t.started = true
	t.afterChange(events)
	return events, nil
}

// Snapshot returns the current view of the table
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// WithSnapshot calls fn with the current view while no change can happen.
// Like UpdateFunc, fn must not call back into the Table.
func (t *Table) WithSnapshot(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.snapshot())
}

func (t *Table) snapshot() Snapshot {
	snap := BuildSnapshot(t.engine, t.aiPending)
	snap.State.Version = t.version
	return snap
}

// AIPending reports whether an AI seat is about to play
func (t *Table) AIPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aiPending
}

// Close stops any pending AI turn
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelAI()
}

// afterChange notifies the listener and schedules the next AI turn
func (t *Table) afterChange(events []game.Event) {
	t.version++
	t.scheduleAI()
	if t.onUpdate != nil {
		t.onUpdate(t.snapshot(), events)
	}
}

func (t *Table) scheduleAI() {
	if t.aiPending || t.engine.Phase() != game.PhaseRoundInProgress || t.engine.CanHumanAct() {
		return
	}

	move, err := t.engine.DecideAIMove()
	if err != nil {
		t.logger.Warn("ai could not decide", zap.Error(err))
		return
	}

	gen := t.generation
	delay := t.delay()
	t.aiPending = true
	t.stopTimer = t.after(delay, func() { t.fireAI(gen, move) })
	t.logger.Debug("ai move scheduled",
		zap.Int("seat", move.Seat),
		zap.Duration("delay", delay))
}

func (t *Table) fireAI(gen uint64, move game.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		t.logger.Debug("discarding ai move from a previous game", zap.Int("seat", move.Seat))
		return
	}
	t.aiPending = false
	t.stopTimer = nil

	events, err := t.engine.ApplyAIMove(move)
	if err != nil {
		t.logger.Warn("ai move refused", zap.Int("seat", move.Seat), zap.Error(err))
		return
	}
	t.afterChange(events)
}

func (t *Table) cancelAI() {
	if t.stopTimer != nil {
		t.stopTimer()
		t.stopTimer = nil
	}
	t.generation++
	t.aiPending = false
}

func (t *Table) delay() time.Duration {
	spread := t.cfg.AIDelayMax - t.cfg.AIDelayMin
	if spread <= 0 {
		return t.cfg.AIDelayMin
	}
	return t.cfg.AIDelayMin + time.Duration(t.delayRng.Int63n(int64(spread)+1))
}
