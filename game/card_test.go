package game

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"testing/iotest"
)

func TestCardDerivation(t *testing.T) {
	for id := 0; id < DeckSize; id++ {
		card, err := CardFromID(id)
		if err != nil {
			t.Fatalf("CardFromID(%d) failed: %v", id, err)
		}
		if card.Suit != SuitOf(id) || card.Rank != RankOf(id) {
			t.Errorf("Card %d: expected %v/%v, got %v/%v", id, SuitOf(id), RankOf(id), card.Suit, card.Rank)
		}
		if CardID(card.Suit, card.Rank) != id {
			t.Errorf("Card %d: id does not round-trip, got %d", id, CardID(card.Suit, card.Rank))
		}
		if card.Points() != PointsOf(id) {
			t.Errorf("Card %d: expected %d points, got %d", id, PointsOf(id), card.Points())
		}
	}
}

func TestCardFromIDRejectsOutOfRange(t *testing.T) {
	for _, id := range []int{-1, 40, 100} {
		if _, err := CardFromID(id); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("CardFromID(%d): expected ErrInvalidCard, got %v", id, err)
		}
	}
}

func TestDeckPointBudget(t *testing.T) {
	total := 0
	for id := 0; id < DeckSize; id++ {
		total += PointsOf(id)
	}
	if total != TotalPoints {
		t.Errorf("Expected deck to be worth %d points, got %d", TotalPoints, total)
	}
}

func TestCardLabels(t *testing.T) {
	tests := []struct {
		suit  Suit
		rank  Rank
		label string
		pts   int
	}{
		{Spades, Two, "2S", 0},
		{Hearts, Jack, "JH", 3},
		{Spades, Queen, "QS", 2},
		{Diamonds, Seven, "7D", 10},
		{Spades, Ace, "AS", 11},
		{Clubs, King, "KC", 4},
	}
	for _, tt := range tests {
		c := NewCard(tt.suit, tt.rank)
		if c.String() != tt.label {
			t.Errorf("Expected label %s, got %s", tt.label, c.String())
		}
		if c.Points() != tt.pts {
			t.Errorf("%s: expected %d points, got %d", tt.label, tt.pts, c.Points())
		}
	}
	if NewCard(Spades, Two).ID != 0 || NewCard(Spades, Ace).ID != 9 {
		t.Errorf("Expected 2S=0 and AS=9")
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()

	if len(deck.Cards) != DeckSize {
		t.Errorf("Expected %d cards, got %d", DeckSize, len(deck.Cards))
	}

	seen := make(map[int]bool)
	for _, card := range deck.Cards {
		if seen[card.ID] {
			t.Errorf("Duplicate card found: %s", card)
		}
		seen[card.ID] = true
	}

	suitCounts := make(map[Suit]int)
	for _, card := range deck.Cards {
		suitCounts[card.Suit]++
	}
	for _, suit := range AllSuits() {
		if suitCounts[suit] != 10 {
			t.Errorf("Expected 10 cards for suit %s, got %d", suit, suitCounts[suit])
		}
	}
}

func TestDeckShuffleIsPermutation(t *testing.T) {
	deck1 := NewDeck().Shuffle(NewRand(1))
	deck2 := NewDeck().Shuffle(NewRand(2))

	sameOrder := true
	for i := range deck1.Cards {
		if deck1.Cards[i].ID != deck2.Cards[i].ID {
			sameOrder = false
			break
		}
	}
	if sameOrder {
		t.Error("Two differently seeded decks have identical order - shuffle may not be working")
	}

	for _, deck := range []*Deck{deck1, deck2} {
		if len(deck.Cards) != DeckSize {
			t.Errorf("Expected %d cards after shuffle, got %d", DeckSize, len(deck.Cards))
		}
		seen := make(map[int]bool)
		for _, card := range deck.Cards {
			if seen[card.ID] {
				t.Errorf("Duplicate card found after shuffle: %s", card)
			}
			seen[card.ID] = true
		}
	}
}

func TestDeckShuffleDeterministicForSeed(t *testing.T) {
	a := NewDeck().Shuffle(NewRand(42))
	b := NewDeck().Shuffle(NewRand(42))
	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			t.Fatalf("Expected identical order for the same seed, differs at %d", i)
		}
	}
}

func TestDeckDealPartitions(t *testing.T) {
	deck := NewDeck().Shuffle(NewRand(7))
	original := append([]Card(nil), deck.Cards...)

	dealt, err := deck.Deal(13)
	if err != nil {
		t.Fatalf("Deal failed: %v", err)
	}
	if len(dealt) != 13 {
		t.Errorf("Expected 13 cards dealt, got %d", len(dealt))
	}
	if deck.Remaining() != DeckSize-13 {
		t.Errorf("Expected %d cards remaining, got %d", DeckSize-13, deck.Remaining())
	}

	seen := make(map[int]bool)
	for _, c := range append(append([]Card(nil), dealt...), deck.Cards...) {
		if seen[c.ID] {
			t.Errorf("Card %s both dealt and remaining", c)
		}
		seen[c.ID] = true
	}
	if len(seen) != DeckSize {
		t.Errorf("Expected %d unique cards total, got %d", DeckSize, len(seen))
	}
	for i, c := range dealt {
		if c != original[i] {
			t.Errorf("Deal should return the top of the deck; position %d expected %s, got %s", i, original[i], c)
		}
	}
}

func TestDeckDealInsufficient(t *testing.T) {
	deck := NewDeck()
	for i := 0; i < NumPlayers; i++ {
		if _, err := deck.Deal(HandSize); err != nil {
			t.Fatalf("Deal %d failed: %v", i, err)
		}
	}
	if deck.Remaining() != 0 {
		t.Errorf("Expected empty deck, got %d", deck.Remaining())
	}
	if _, err := deck.Deal(1); !errors.Is(err, ErrInsufficientCards) {
		t.Errorf("Expected ErrInsufficientCards, got %v", err)
	}
	if _, err := NewDeck().Deal(-1); !errors.Is(err, ErrInsufficientCards) {
		t.Errorf("Expected ErrInsufficientCards for negative deal, got %v", err)
	}
}

func TestAllRanksOrder(t *testing.T) {
	ranks := AllRanks()
	if len(ranks) != 10 {
		t.Errorf("Expected 10 ranks, got %d", len(ranks))
	}
	expected := []string{"2", "3", "4", "5", "6", "Q", "J", "K", "7", "A"}
	for i, rank := range ranks {
		if int(rank) != i {
			t.Errorf("Rank %d: expected index %d, got %d", i, i, int(rank))
		}
		if rank.String() != expected[i] {
			t.Errorf("Rank %d: expected %s, got %s", i, expected[i], rank)
		}
	}
}

func TestParseSuit(t *testing.T) {
	for _, suit := range AllSuits() {
		got, err := ParseSuit(suit.Code())
		if err != nil || got != suit {
			t.Errorf("ParseSuit(%q): expected %v, got %v (%v)", suit.Code(), suit, got, err)
		}
		got, err = ParseSuit(suit.String())
		if err != nil || got != suit {
			t.Errorf("ParseSuit(%q): expected %v, got %v (%v)", suit.String(), suit, got, err)
		}
	}
	if _, err := ParseSuit("X"); err == nil {
		t.Error("Expected error for unknown suit")
	}
}

func withSeedSource(t *testing.T, src []byte, fail bool) {
	t.Helper()
	prev := seedSource
	t.Cleanup(func() { seedSource = prev })
	if fail {
		seedSource = iotest.ErrReader(errors.New("entropy unavailable"))
		return
	}
	seedSource = bytes.NewReader(src)
}

func TestRandomSeedReadsSource(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, 12345)
	withSeedSource(t, buf, false)

	if got := randomSeed(); got != 12345 {
		t.Errorf("Expected seed 12345 from the source, got %d", got)
	}
}

func TestRandomSeedFallsBackWhenSourceFails(t *testing.T) {
	withSeedSource(t, nil, true)

	if got := randomSeed(); got == 0 {
		t.Error("Expected a non-zero clock seed when the source fails")
	}
	if NewRand(0) == nil {
		t.Error("Expected a usable source")
	}
}
