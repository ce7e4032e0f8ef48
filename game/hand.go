package game

import (
	"math/rand"

	"golang.org/x/exp/slices"
)

// Hand holds the cards owned by one player. Card ids are unique within a hand.
type Hand struct {
	cards []Card
}

// NewHand creates a hand from dealt cards. Duplicate ids are dropped.
func NewHand(cards []Card) *Hand {
	h := &Hand{cards: make([]Card, 0, len(cards))}
	for _, c := range cards {
		if !h.Contains(c.ID) {
			h.cards = append(h.cards, c)
		}
	}
	return h
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// IsEmpty reports whether the hand has no cards left
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Contains reports whether the hand holds the card with the given id
func (h *Hand) Contains(cardID int) bool {
	return slices.ContainsFunc(h.cards, func(c Card) bool { return c.ID == cardID })
}

// Cards returns a copy of the held cards
func (h *Hand) Cards() []Card {
	return slices.Clone(h.cards)
}

// Sorted returns the cards ordered by suit, then rank, for display
func (h *Hand) Sorted() []Card {
	out := slices.Clone(h.cards)
	slices.SortFunc(out, func(a, b Card) int {
		if a.Suit != b.Suit {
			return int(a.Suit) - int(b.Suit)
		}
		return int(a.Rank) - int(b.Rank)
	})
	return out
}

// hasSuit reports whether any held card is of the given suit
func (h *Hand) hasSuit(suit Suit) bool {
	return slices.ContainsFunc(h.cards, func(c Card) bool { return c.Suit == suit })
}

// LegalCards returns the cards that may be played onto the trick.
// When the trick has a lead suit and the hand can follow it, only lead-suit
// cards are legal; otherwise every held card is.
func (h *Hand) LegalCards(trick []TrickEntry) []Card {
	if len(trick) == 0 {
		return h.Cards()
	}
	lead := trick[0].Card.Suit
	if !h.hasSuit(lead) {
		return h.Cards()
	}
	legal := make([]Card, 0, len(h.cards))
	for _, c := range h.cards {
		if c.Suit == lead {
			legal = append(legal, c)
		}
	}
	return legal
}

// CheckPlay validates a play without mutating the hand
func (h *Hand) CheckPlay(cardID int, trick []TrickEntry) (Card, error) {
	idx := slices.IndexFunc(h.cards, func(c Card) bool { return c.ID == cardID })
	if idx == -1 {
		return Card{}, ErrIllegalMove
	}
	card := h.cards[idx]

	if len(trick) > 0 {
		lead := trick[0].Card.Suit
		if card.Suit != lead && h.hasSuit(lead) {
			return Card{}, ErrMustFollowSuit
		}
	}
	return card, nil
}

// Play removes and returns the card with the given id.
// Returns ErrIllegalMove if the card is not held and ErrMustFollowSuit
// if the card breaks the follow-suit rule. The hand is unchanged on error.
func (h *Hand) Play(cardID int, trick []TrickEntry) (Card, error) {
	card, err := h.CheckPlay(cardID, trick)
	if err != nil {
		return Card{}, err
	}
	h.remove(cardID)
	return card, nil
}

// ChooseRandomLegal picks a legal card uniformly at random without removing it.
// Returns false only when the hand is empty.
func (h *Hand) ChooseRandomLegal(rng *rand.Rand, trick []TrickEntry) (Card, bool) {
	legal := h.LegalCards(trick)
	if len(legal) == 0 {
		return Card{}, false
	}
	return legal[rng.Intn(len(legal))], true
}

// PlayRandomLegal removes and returns a uniformly chosen legal card
func (h *Hand) PlayRandomLegal(rng *rand.Rand, trick []TrickEntry) (Card, bool) {
	card, ok := h.ChooseRandomLegal(rng, trick)
	if !ok {
		return Card{}, false
	}
	h.remove(card.ID)
	return card, true
}

func (h *Hand) remove(cardID int) {
	h.cards = slices.DeleteFunc(h.cards, func(c Card) bool { return c.ID == cardID })
}
