package game

import "github.com/google/uuid"

const (
	// NumPlayers is the fixed number of seats
	NumPlayers = 4
	// HandSize is the number of cards dealt to each seat
	HandSize = 10
	// MaxRounds is the number of tricks in a game
	MaxRounds = 10
)

// Phase represents the current game phase
type Phase string

const (
	PhaseTrumpSelection  Phase = "trumpSelection"
	PhaseRoundInProgress Phase = "roundInProgress"
	PhaseTrickComplete   Phase = "trickComplete" // Waiting for Continue
	PhaseGameEnded       Phase = "gameEnded"
)

// Team represents a partnership of two seats
type Team struct {
	PlayerIndices []int `json:"playerIndices"`
	Score         int   `json:"score"`
}

// GameState represents the complete state of one game
type GameState struct {
	ID              uuid.UUID           `json:"id"`
	Phase           Phase               `json:"phase"`
	Players         [NumPlayers]*Player `json:"players"`
	Teams           [2]*Team            `json:"teams"`
	CurrentTrick    []TrickEntry        `json:"currentTrick"`
	LastTrick       *CompletedTrick     `json:"lastTrick"` // Previous trick for display
	CompletedTricks []CompletedTrick    `json:"-"`
	Round           int                 `json:"round"`
	CurrentPlayer   int                 `json:"currentPlayer"`
	Leader          int                 `json:"leader"` // Seat that led the current trick
	Trump           Suit                `json:"trump"`
	TrumpCard       Card                `json:"trumpCard"`
	TrumpPlayer     int                 `json:"trumpPlayer"` // Seat whose card set the trump
}

// newGameState creates an empty game with partnerships {0,2} and {1,3}
func newGameState() *GameState {
	gs := &GameState{
		ID:    uuid.New(),
		Phase: PhaseTrumpSelection,
		Teams: [2]*Team{
			{PlayerIndices: []int{0, 2}},
			{PlayerIndices: []int{1, 3}},
		},
		CurrentTrick: make([]TrickEntry, 0, NumPlayers),
		Round:        1,
	}
	for i := range gs.Players {
		gs.Players[i] = &Player{Seat: i, Hand: NewHand(nil)}
	}
	return gs
}

// GetTeamForPlayer returns the team index (0 or 1) for a seat
func GetTeamForPlayer(playerIndex int) int {
	return playerIndex % 2
}

// NextPlayer returns the next seat (wrapping around)
func NextPlayer(current int) int {
	return (current + 1) % NumPlayers
}

// TrumpRevealed reports whether the trump card itself is still shown.
// The trump suit stays public for the whole game; the card only during round 1.
func (g *GameState) TrumpRevealed() bool {
	return g.Round == 1 && g.Phase != PhaseGameEnded
}

// Scores returns the cumulative points of both teams
func (g *GameState) Scores() [2]int {
	return [2]int{g.Teams[0].Score, g.Teams[1].Score}
}
