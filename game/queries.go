package game

import "github.com/google/uuid"

// GameID identifies the current game; it changes on every restart
func (e *Engine) GameID() uuid.UUID {
	return e.state.ID
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// Round returns the current trick number (1..MaxRounds)
func (e *Engine) Round() int {
	return e.state.Round
}

// CurrentPlayer returns the seat expected to act
func (e *Engine) CurrentPlayer() int {
	return e.state.CurrentPlayer
}

// Leader returns the seat that led the current trick
func (e *Engine) Leader() int {
	return e.state.Leader
}

// Trump returns the trump suit, the card that set it and the seat that held it
func (e *Engine) Trump() (Suit, Card, int) {
	return e.state.Trump, e.state.TrumpCard, e.state.TrumpPlayer
}

// TrumpRevealed reports whether the trump card is still shown (round 1 only)
func (e *Engine) TrumpRevealed() bool {
	return e.state.TrumpRevealed()
}

// CanHumanAct reports whether a play request from the human seat would be considered now
func (e *Engine) CanHumanAct() bool {
	return e.state.Phase == PhaseRoundInProgress && e.state.CurrentPlayer == HumanSeat
}

// HumanHand returns the human seat's cards in display order
func (e *Engine) HumanHand() []Card {
	return e.state.Players[HumanSeat].Hand.Sorted()
}

// Hand returns a copy of any seat's cards
func (e *Engine) Hand(seat int) []Card {
	if seat < 0 || seat >= NumPlayers {
		return nil
	}
	return e.state.Players[seat].Hand.Cards()
}

// HandSizes returns the number of cards each seat holds
func (e *Engine) HandSizes() [NumPlayers]int {
	var sizes [NumPlayers]int
	for i, p := range e.state.Players {
		sizes[i] = p.Hand.Len()
	}
	return sizes
}

// LegalCards returns the cards the seat may play onto the current trick
func (e *Engine) LegalCards(seat int) []Card {
	if seat < 0 || seat >= NumPlayers {
		return nil
	}
	return e.state.Players[seat].Hand.LegalCards(e.state.CurrentTrick)
}

// CurrentTrick returns a copy of the cards played in the current trick
func (e *Engine) CurrentTrick() []TrickEntry {
	out := make([]TrickEntry, len(e.state.CurrentTrick))
	copy(out, e.state.CurrentTrick)
	return out
}

// LastTrick returns the most recently completed trick, if any
func (e *Engine) LastTrick() (CompletedTrick, bool) {
	if e.state.LastTrick == nil {
		return CompletedTrick{}, false
	}
	return *e.state.LastTrick, true
}

// CompletedTricks returns every trick finished in this game
func (e *Engine) CompletedTricks() []CompletedTrick {
	out := make([]CompletedTrick, len(e.state.CompletedTricks))
	copy(out, e.state.CompletedTricks)
	return out
}

// Scores returns the cumulative team points ({0,2} and {1,3})
func (e *Engine) Scores() [2]int {
	return e.state.Scores()
}

// Outcome returns the game result; Final is false until the game ends
func (e *Engine) Outcome() Outcome {
	return e.state.Outcome()
}
