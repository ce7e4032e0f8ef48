package server

import (
	"errors"

	"sueca/game"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client -> Server messages
	MsgPlayCard     MessageType = "playCard"
	MsgContinue     MessageType = "continue" // Clear the finished trick
	MsgRestart      MessageType = "restart"
	MsgRequestState MessageType = "requestState"

	// Server -> Client messages
	MsgStateUpdate MessageType = "stateUpdate"
	MsgEvent       MessageType = "event"
	MsgError       MessageType = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type   MessageType `json:"type"`
	CardID *int        `json:"cardId,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type     MessageType   `json:"type"`
	State    *PublicState  `json:"state,omitempty"`
	YourHand []game.Card   `json:"yourHand,omitempty"`
	Legal    []int         `json:"legal,omitempty"` // Card ids the human may play now
	Event    *game.Event   `json:"event,omitempty"`
	Error    *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PublicState is the table as the browser sees it. Other seats' cards are
// reduced to counts.
type PublicState struct {
	Version       uint64         `json:"version"` // Increases with every table change
	GameID        string         `json:"gameId"`
	Phase         game.Phase     `json:"phase"`
	Round         int            `json:"round"`
	Players       []PublicPlayer `json:"players"`
	Teams         [2]TeamState   `json:"teams"`
	CurrentTrick  *TrickState    `json:"currentTrick"`
	LastTrick     *TrickState    `json:"lastTrick"` // Previous trick for display
	Trump         game.Suit      `json:"trump"`
	TrumpCard     *game.Card     `json:"trumpCard,omitempty"` // Only while revealed
	TrumpPlayer   int            `json:"trumpPlayer"`
	CurrentPlayer int            `json:"currentPlayer"`
	CanAct        bool           `json:"canAct"`
	AIPending     bool           `json:"aiPending"`
	Outcome       *game.Outcome  `json:"outcome,omitempty"` // Set once the game has ended
}

// PublicPlayer is seat info visible to all
type PublicPlayer struct {
	SeatIndex int  `json:"seatIndex"`
	IsHuman   bool `json:"isHuman"`
	CardCount int  `json:"cardCount"`
}

// TeamState is team info visible to all
type TeamState struct {
	PlayerIndices []int `json:"playerIndices"`
	Score         int   `json:"score"`
}

// TrickState is a trick visible to all
type TrickState struct {
	Cards    []TrickCardState `json:"cards"`
	Leader   int              `json:"leader"`
	LeadSuit *game.Suit       `json:"leadSuit,omitempty"`
	Winner   *int             `json:"winner,omitempty"` // Set when trick is complete
	Points   int              `json:"points"`
}

// TrickCardState is a played card visible to all
type TrickCardState struct {
	Card        game.Card `json:"card"`
	PlayerIndex int       `json:"playerIndex"`
}

// Snapshot is everything a client needs to redraw the table
type Snapshot struct {
	State *PublicState
	Hand  []game.Card
	Legal []int
}

// BuildPublicState creates the public state from the engine
func BuildPublicState(e *game.Engine, aiPending bool) *PublicState {
	trump, trumpCard, trumpPlayer := e.Trump()
	scores := e.Scores()
	ps := &PublicState{
		GameID:        e.GameID().String(),
		Phase:         e.Phase(),
		Round:         e.Round(),
		Players:       make([]PublicPlayer, 0, game.NumPlayers),
		Trump:         trump,
		TrumpPlayer:   trumpPlayer,
		CurrentPlayer: e.CurrentPlayer(),
		CanAct:        e.CanHumanAct() && !aiPending,
		AIPending:     aiPending,
	}

	for seat, count := range e.HandSizes() {
		ps.Players = append(ps.Players, PublicPlayer{
			SeatIndex: seat,
			IsHuman:   seat == game.HumanSeat,
			CardCount: count,
		})
	}

	for i := range ps.Teams {
		ps.Teams[i] = TeamState{
			PlayerIndices: []int{i, i + 2},
			Score:         scores[i],
		}
	}

	if e.TrumpRevealed() {
		ps.TrumpCard = &trumpCard
	}

	ps.CurrentTrick = &TrickState{
		Cards:  trickCards(e.CurrentTrick()),
		Leader: e.Leader(),
		Points: game.TrickPoints(e.CurrentTrick()),
	}
	if lead, ok := game.LeadSuit(e.CurrentTrick()); ok {
		ps.CurrentTrick.LeadSuit = &lead
	}

	// Last trick (for showing who won)
	if last, ok := e.LastTrick(); ok {
		winner := last.Winner
		lead, _ := game.LeadSuit(last.Cards)
		ps.LastTrick = &TrickState{
			Cards:    trickCards(last.Cards),
			Leader:   last.Cards[0].PlayerIndex,
			LeadSuit: &lead,
			Winner:   &winner,
			Points:   last.Points,
		}
		if e.Phase() == game.PhaseTrickComplete {
			ps.CurrentTrick.Winner = &winner
		}
	}

	if out := e.Outcome(); out.Final {
		ps.Outcome = &out
	}

	return ps
}

func trickCards(entries []game.TrickEntry) []TrickCardState {
	cards := make([]TrickCardState, 0, len(entries))
	for _, entry := range entries {
		cards = append(cards, TrickCardState{
			Card:        entry.Card,
			PlayerIndex: entry.PlayerIndex,
		})
	}
	return cards
}

// BuildSnapshot collects the public state plus the human seat's private view
func BuildSnapshot(e *game.Engine, aiPending bool) Snapshot {
	snap := Snapshot{
		State: BuildPublicState(e, aiPending),
		Hand:  e.HumanHand(),
		Legal: []int{},
	}
	if snap.State.CanAct {
		for _, c := range e.LegalCards(game.HumanSeat) {
			snap.Legal = append(snap.Legal, c.ID)
		}
	}
	return snap
}

// NewErrorMessage creates an error message
func NewErrorMessage(code, message string) ServerMessage {
	return ServerMessage{
		Type: MsgError,
		Error: &ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// NewStateUpdateMessage creates a state update message for the human seat
func NewStateUpdateMessage(snap Snapshot) ServerMessage {
	return ServerMessage{
		Type:     MsgStateUpdate,
		State:    snap.State,
		YourHand: snap.Hand,
		Legal:    snap.Legal,
	}
}

// NewEventMessage wraps one engine event
func NewEventMessage(ev game.Event) ServerMessage {
	return ServerMessage{Type: MsgEvent, Event: &ev}
}

// ErrorCode maps an error to a stable protocol code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAIPending):
		return "ai_pending"
	case errors.Is(err, ErrGameNotStarted):
		return "not_started"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrMustFollowSuit):
		return "must_follow_suit"
	case errors.Is(err, game.ErrIllegalMove):
		return "card_not_in_hand"
	case errors.Is(err, game.ErrInvalidCard):
		return "invalid_card"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	default:
		return "action_failed"
	}
}

// NewActionErrorMessage creates an error message for a failed request
func NewActionErrorMessage(err error) ServerMessage {
	return NewErrorMessage(ErrorCode(err), err.Error())
}
