package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mathrand "math/rand"
	"time"
)

// DeckSize is the number of cards in a Sueca deck
const DeckSize = 40

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitCodes = [...]string{"S", "H", "D", "C"}

func (s Suit) String() string {
	return [...]string{"spades", "hearts", "diamonds", "clubs"}[s]
}

// Code returns the one-letter suit code (S, H, D, C)
func (s Suit) Code() string {
	return suitCodes[s]
}

// Symbol returns the unicode suit symbol
func (s Suit) Symbol() string {
	return [...]string{"♠", "♥", "♦", "♣"}[s]
}

// IsRed reports whether the suit is hearts or diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// MarshalText encodes the suit as its one-letter code
func (s Suit) MarshalText() ([]byte, error) {
	if s < Spades || s > Clubs {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.Code()), nil
}

// UnmarshalText accepts either the one-letter code or the full suit name
func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit parses a suit from its code ("H") or name ("hearts")
func ParseSuit(v string) (Suit, error) {
	switch v {
	case "S", "spades":
		return Spades, nil
	case "H", "hearts":
		return Hearts, nil
	case "D", "diamonds":
		return Diamonds, nil
	case "C", "clubs":
		return Clubs, nil
	default:
		return Spades, fmt.Errorf("invalid suit %q", v)
	}
}

// AllSuits returns all suits in id order
func AllSuits() []Suit {
	return []Suit{Spades, Hearts, Diamonds, Clubs}
}

// Rank is the strength index of a card within its suit (0 weakest, 9 strongest).
// Sueca orders the ranks 2 3 4 5 6 Q J K 7 A.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Queen
	Jack
	King
	Seven
	Ace
)

var rankCodes = [...]string{"2", "3", "4", "5", "6", "Q", "J", "K", "7", "A"}

// rankPoints is indexed by Rank
var rankPoints = [...]int{0, 0, 0, 0, 0, 2, 3, 4, 10, 11}

func (r Rank) String() string {
	return rankCodes[r]
}

// MarshalText encodes the rank as its display symbol
func (r Rank) MarshalText() ([]byte, error) {
	if r < Two || r > Ace {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a rank symbol ("2".."A")
func (r *Rank) UnmarshalText(b []byte) error {
	for i, code := range rankCodes {
		if code == string(b) {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("invalid rank %q", string(b))
}

// Points returns the card point value for the rank
// A=11, 7=10, K=4, J=3, Q=2, all others=0
func (r Rank) Points() int {
	return rankPoints[r]
}

// AllRanks returns all ranks from weakest to strongest
func AllRanks() []Rank {
	return []Rank{Two, Three, Four, Five, Six, Queen, Jack, King, Seven, Ace}
}

// ValidCardID reports whether id names a card of the deck
func ValidCardID(id int) bool {
	return id >= 0 && id < DeckSize
}

// SuitOf returns the suit encoded in a card id
func SuitOf(id int) Suit {
	return Suit(id / 10)
}

// RankOf returns the rank encoded in a card id
func RankOf(id int) Rank {
	return Rank(id % 10)
}

// PointsOf returns the point value of the card with the given id
func PointsOf(id int) int {
	return RankOf(id).Points()
}

// CardID builds the id for a suit and rank
func CardID(suit Suit, rank Rank) int {
	return int(suit)*10 + int(rank)
}

// Card represents a playing card. Suit and Rank are derived from ID.
type Card struct {
	ID   int  `json:"id"`
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// CardFromID returns the card for an id, or ErrInvalidCard if out of range
func CardFromID(id int) (Card, error) {
	if !ValidCardID(id) {
		return Card{}, fmt.Errorf("%w: %d", ErrInvalidCard, id)
	}
	return Card{ID: id, Suit: SuitOf(id), Rank: RankOf(id)}, nil
}

// NewCard creates the card for a suit and rank
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: CardID(suit, rank), Suit: suit, Rank: rank}
}

// MustCard is CardFromID for ids known to be valid
func MustCard(id int) Card {
	c, err := CardFromID(id)
	if err != nil {
		panic(err)
	}
	return c
}

// Points returns the card's point value
func (c Card) Points() int {
	return c.Rank.Points()
}

// String returns the short code, e.g. "AS" or "7H"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Code()
}

// Beats reports whether c beats the current best card of a trick.
// Trump beats non-trump; within one suit the higher rank wins. Any other
// pairing keeps the earlier card.
func (c Card) Beats(best Card, trump Suit) bool {
	if c.Suit == trump && best.Suit != trump {
		return true
	}
	if c.Suit == best.Suit {
		return c.Rank > best.Rank
	}
	return false
}

// Deck represents the ordered, undealt cards
type Deck struct {
	Cards []Card
}

// NewDeck creates the 40-card deck in id order
func NewDeck() *Deck {
	d := &Deck{Cards: make([]Card, 0, DeckSize)}
	for id := 0; id < DeckSize; id++ {
		d.Cards = append(d.Cards, MustCard(id))
	}
	return d
}

// Shuffle randomizes the deck order in place (Fisher–Yates) and returns the deck
func (d *Deck) Shuffle(rng *mathrand.Rand) *Deck {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
	return d
}

// Deal removes and returns n cards from the top of the deck.
// Returns a copy of the cards to prevent slice aliasing issues.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.Cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.Cards))
	}
	dealt := make([]Card, n)
	copy(dealt, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return dealt, nil
}

// Remaining returns how many cards are left
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// seedSource supplies seeds for NewRand(0)
var seedSource io.Reader = crand.Reader

// NewRand returns a math/rand source. A zero seed is replaced with
// cryptographically secure random bytes, or the clock if those are unavailable.
func NewRand(seed int64) *mathrand.Rand {
	if seed == 0 {
		seed = randomSeed()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

func randomSeed() int64 {
	var seed int64
	if err := binary.Read(seedSource, binary.LittleEndian, &seed); err != nil || seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
