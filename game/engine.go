package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action types
type ActionType string

const (
	ActionPlayCard ActionType = "playCard" // Human seat plays a card by id
	ActionAIMove   ActionType = "aiMove"   // Apply a move returned by DecideAIMove
	ActionContinue ActionType = "continue" // Clear a completed trick
	ActionRestart  ActionType = "restart"
)

// Action represents a request from the UI layer
type Action struct {
	Type   ActionType
	CardID int
	Move   Move // For ActionAIMove
}

// Move is an AI decision bound to the game and turn it was made for
type Move struct {
	GameID uuid.UUID `json:"gameId"`
	Round  int       `json:"round"`
	Seat   int       `json:"seat"`
	Card   Card      `json:"card"`
}

// Common errors
var (
	ErrInvalidAction     = errors.New("invalid action for current phase")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidCard       = errors.New("invalid card provided")
	ErrIllegalMove       = errors.New("card not in hand")
	ErrMustFollowSuit    = errors.New("must follow suit if able")
	ErrInsufficientCards = errors.New("not enough cards in deck")
	ErrStaleMove         = errors.New("move belongs to a previous turn or game")
)

// Engine owns one game and is the only writer of its state.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	state  *GameState
	rng    *rand.Rand
	logger *zap.Logger
	bus    *EventBus
}

// New deals a fresh game and selects trump. The game is left in
// PhaseTrumpSelection until Start is called.
func New(rng *rand.Rand, logger *zap.Logger) (*Engine, error) {
	if rng == nil {
		rng = NewRand(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{rng: rng, logger: logger, bus: NewEventBus()}
	if err := e.deal(); err != nil {
		return nil, err
	}
	return e, nil
}

// deal replaces the whole game state
func (e *Engine) deal() error {
	state := newGameState()

	deck := NewDeck().Shuffle(e.rng)
	for i := 0; i < NumPlayers; i++ {
		cards, err := deck.Deal(HandSize)
		if err != nil {
			return fmt.Errorf("deal seat %d: %w", i, err)
		}
		state.Players[i].Hand = NewHand(cards)
	}

	state.CurrentPlayer = e.rng.Intn(NumPlayers)
	state.Leader = state.CurrentPlayer

	// Trump comes from a random card of a random seat
	state.TrumpPlayer = e.rng.Intn(NumPlayers)
	held := state.Players[state.TrumpPlayer].Hand.Cards()
	state.TrumpCard = held[e.rng.Intn(len(held))]
	state.Trump = state.TrumpCard.Suit

	e.state = state
	e.logger.Info("game dealt",
		zap.String("game_id", state.ID.String()),
		zap.String("trump", state.Trump.String()),
		zap.String("trump_card", state.TrumpCard.String()),
		zap.Int("trump_player", state.TrumpPlayer),
		zap.Int("first_player", state.CurrentPlayer))
	return nil
}

// Subscribe registers a listener for every event the engine emits
func (e *Engine) Subscribe(l Listener) func() {
	return e.bus.Subscribe(l)
}

// ApplyAction applies a UI request to the game and returns the emitted events
func (e *Engine) ApplyAction(action Action) ([]Event, error) {
	switch action.Type {
	case ActionPlayCard:
		return e.PlayCard(action.CardID)
	case ActionAIMove:
		return e.ApplyAIMove(action.Move)
	case ActionContinue:
		return e.Continue()
	case ActionRestart:
		return e.Restart()
	default:
		return nil, ErrInvalidAction
	}
}

// Start moves a freshly dealt game into its first trick
func (e *Engine) Start() ([]Event, error) {
	s := e.state
	if s.Phase != PhaseTrumpSelection {
		return nil, ErrInvalidAction
	}
	s.Phase = PhaseRoundInProgress

	events := []Event{
		e.event(EventTrumpRevealed, func(ev *Event) {
			ev.Seat = s.TrumpPlayer
			ev.CardID = s.TrumpCard.ID
		}),
		e.turnChanged(),
	}
	return e.publish(events), nil
}

// PlayCard plays a card from the human seat's hand.
// Rejected plays leave the state unchanged and the turn with the same seat.
func (e *Engine) PlayCard(cardID int) ([]Event, error) {
	s := e.state
	if s.Phase != PhaseRoundInProgress {
		return nil, ErrInvalidAction
	}
	if s.CurrentPlayer != HumanSeat {
		return nil, ErrNotYourTurn
	}

	if !ValidCardID(cardID) {
		e.logger.Warn("invalid card provided", zap.Int("card_id", cardID), zap.Int("seat", HumanSeat))
		return e.reject(&RejectedPlayError{Seat: HumanSeat, CardID: cardID, Err: ErrInvalidCard})
	}

	card, err := s.Players[HumanSeat].ActOnRequest(cardID, s.CurrentTrick)
	if err != nil {
		var rejected *RejectedPlayError
		if errors.As(err, &rejected) {
			e.logger.Info("play rejected",
				zap.Int("seat", rejected.Seat),
				zap.Int("card_id", rejected.CardID),
				zap.Error(rejected.Err))
			return e.reject(rejected)
		}
		return nil, err
	}

	return e.publish(e.recordPlay(card, HumanSeat)), nil
}

func (e *Engine) reject(rejected *RejectedPlayError) ([]Event, error) {
	ev := e.event(EventMoveRejected, func(ev *Event) {
		ev.Seat = rejected.Seat
		ev.CardID = rejected.CardID
		ev.Reason = rejected.Err.Error()
	})
	return e.publish([]Event{ev}), rejected
}

// DecideAIMove chooses a uniformly random legal card for the AI seat to act.
// It does not change the game; apply the result with ApplyAIMove.
func (e *Engine) DecideAIMove() (Move, error) {
	s := e.state
	if s.Phase != PhaseRoundInProgress {
		return Move{}, ErrInvalidAction
	}
	player := s.Players[s.CurrentPlayer]
	if player.IsHuman() {
		return Move{}, ErrNotYourTurn
	}

	card, ok := player.Hand.ChooseRandomLegal(e.rng, s.CurrentTrick)
	if !ok {
		return Move{}, ErrInvalidAction
	}
	return Move{GameID: s.ID, Round: s.Round, Seat: player.Seat, Card: card}, nil
}

// ApplyAIMove plays a previously decided AI move
func (e *Engine) ApplyAIMove(m Move) ([]Event, error) {
	s := e.state
	if m.GameID != s.ID || m.Round != s.Round {
		return nil, ErrStaleMove
	}
	if s.Phase != PhaseRoundInProgress {
		return nil, ErrInvalidAction
	}
	if m.Seat != s.CurrentPlayer || m.Seat == HumanSeat {
		return nil, ErrNotYourTurn
	}

	card, err := s.Players[m.Seat].Hand.Play(m.Card.ID, s.CurrentTrick)
	if err != nil {
		return nil, fmt.Errorf("ai seat %d: %w", m.Seat, err)
	}
	return e.publish(e.recordPlay(card, m.Seat)), nil
}

// StepAI lets the AI seat to act play a random legal card immediately
func (e *Engine) StepAI() ([]Event, error) {
	s := e.state
	if s.Phase != PhaseRoundInProgress {
		return nil, ErrInvalidAction
	}
	player := s.Players[s.CurrentPlayer]
	if player.IsHuman() {
		return nil, ErrNotYourTurn
	}

	seat := player.Seat
	card, ok := player.Act(e.rng, s.CurrentTrick)
	if !ok {
		return nil, ErrInvalidAction
	}
	return e.publish(e.recordPlay(card, seat)), nil
}

// recordPlay appends a card to the trick and advances the turn
func (e *Engine) recordPlay(card Card, seat int) []Event {
	s := e.state
	if !ValidCardID(card.ID) {
		e.logger.Warn("invalid card provided", zap.Int("card_id", card.ID), zap.Int("seat", seat))
		return nil
	}

	s.CurrentTrick = append(s.CurrentTrick, TrickEntry{Card: card, PlayerIndex: seat})
	events := []Event{e.event(EventCardPlayed, func(ev *Event) {
		ev.Seat = seat
		ev.CardID = card.ID
	})}

	if len(s.CurrentTrick) == NumPlayers {
		return append(events, e.completeTrick()...)
	}

	s.CurrentPlayer = NextPlayer(seat)
	return append(events, e.turnChanged())
}

// completeTrick scores a full trick and waits for Continue
func (e *Engine) completeTrick() []Event {
	s := e.state
	winner, ok := TrickWinner(s.CurrentTrick, s.Trump)
	if !ok {
		e.logger.Warn("trick evaluated with wrong number of cards", zap.Int("cards", len(s.CurrentTrick)))
		return nil
	}
	points := TrickPoints(s.CurrentTrick)

	s.Teams[GetTeamForPlayer(winner)].Score += points

	completed := CompletedTrick{
		Round:  s.Round,
		Cards:  make([]TrickEntry, len(s.CurrentTrick)),
		Winner: winner,
		Points: points,
	}
	copy(completed.Cards, s.CurrentTrick)
	s.CompletedTricks = append(s.CompletedTricks, completed)
	s.LastTrick = &completed

	s.CurrentPlayer = winner
	s.Phase = PhaseTrickComplete

	e.logger.Debug("trick won",
		zap.Int("round", s.Round),
		zap.Int("winner", winner),
		zap.Int("points", points))

	return []Event{e.event(EventTrickWon, func(ev *Event) {
		ev.Seat = winner
		ev.Points = points
	})}
}

// Continue clears a completed trick and starts the next one, or ends the game
// after the last round
func (e *Engine) Continue() ([]Event, error) {
	s := e.state
	if s.Phase != PhaseTrickComplete {
		return nil, ErrInvalidAction
	}

	if s.Round >= MaxRounds {
		for _, p := range s.Players {
			if !p.Hand.IsEmpty() {
				e.logger.Warn("game ended with cards in hand", zap.Int("seat", p.Seat), zap.Int("cards", p.Hand.Len()))
			}
		}
		s.Phase = PhaseGameEnded
		out := s.Outcome()
		e.logger.Info("game ended",
			zap.String("game_id", s.ID.String()),
			zap.Int("team0", out.Points[0]),
			zap.Int("team1", out.Points[1]),
			zap.Int("winner", out.Winner))
		return e.publish([]Event{e.event(EventGameEnded, nil)}), nil
	}

	s.Round++
	s.CurrentTrick = make([]TrickEntry, 0, NumPlayers)
	s.Leader = s.CurrentPlayer
	s.Phase = PhaseRoundInProgress
	return e.publish([]Event{e.turnChanged()}), nil
}

// Restart discards the current game, including a trick in progress, and
// starts a new one with fresh cards, trump and first seat
func (e *Engine) Restart() ([]Event, error) {
	old := e.state.ID
	if err := e.deal(); err != nil {
		return nil, err
	}
	e.logger.Info("game restarted", zap.String("previous_game_id", old.String()))

	events := e.publish([]Event{e.event(EventGameRestarted, nil)})
	started, err := e.Start()
	if err != nil {
		return nil, err
	}
	return append(events, started...), nil
}

func (e *Engine) turnChanged() Event {
	return e.event(EventTurnChanged, func(ev *Event) {
		ev.Seat = e.state.CurrentPlayer
	})
}

func (e *Engine) event(kind EventKind, fill func(*Event)) Event {
	ev := Event{Kind: kind, GameID: e.state.ID, Round: e.state.Round}
	if fill != nil {
		fill(&ev)
	}
	return ev
}

func (e *Engine) publish(events []Event) []Event {
	e.bus.Publish(events...)
	return events
}
