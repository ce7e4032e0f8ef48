package game

import (
	"fmt"
	"math/rand"
)

// HumanSeat is the seat controlled by the user; the other seats are AI
const HumanSeat = 0

// Player occupies one seat and owns one hand
type Player struct {
	Seat int   `json:"seat"`
	Hand *Hand `json:"-"`
}

// IsHuman reports whether the seat is driven by external play requests
func (p *Player) IsHuman() bool {
	return p.Seat == HumanSeat
}

// Act plays a uniformly random legal card for an AI seat
func (p *Player) Act(rng *rand.Rand, trick []TrickEntry) (Card, bool) {
	return p.Hand.PlayRandomLegal(rng, trick)
}

// ActOnRequest plays the requested card for the human seat.
// Failures come back as *RejectedPlayError wrapping ErrIllegalMove or ErrMustFollowSuit.
func (p *Player) ActOnRequest(cardID int, trick []TrickEntry) (Card, error) {
	card, err := p.Hand.Play(cardID, trick)
	if err != nil {
		return Card{}, &RejectedPlayError{Seat: p.Seat, CardID: cardID, Err: err}
	}
	return card, nil
}

// RejectedPlayError reports a play request that was refused. State is unchanged.
type RejectedPlayError struct {
	Seat   int
	CardID int
	Err    error
}

func (e *RejectedPlayError) Error() string {
	return fmt.Sprintf("seat %d cannot play card %d: %v", e.Seat, e.CardID, e.Err)
}

func (e *RejectedPlayError) Unwrap() error {
	return e.Err
}
