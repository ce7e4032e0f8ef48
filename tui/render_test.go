package tui

import (
	"strings"
	"testing"

	"sueca/game"
)

func TestCardLabel(t *testing.T) {
	if got := CardLabel(game.NewCard(game.Spades, game.Ace)); !strings.Contains(got, "A♠") {
		t.Errorf("Expected A♠ in %q", got)
	}
	if got := CardLabel(game.NewCard(game.Hearts, game.Seven)); !strings.Contains(got, "7♥") {
		t.Errorf("Expected 7♥ in %q", got)
	}
}

func TestRenderHandNumbersCards(t *testing.T) {
	cards := []game.Card{game.NewCard(game.Spades, game.Two), game.NewCard(game.Hearts, game.Jack)}
	out := RenderHand(cards, []int{cards[0].ID})
	for _, want := range []string{"2♠", "J♥", "1", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in hand:\n%s", want, out)
		}
	}
}

func TestRenderTrickMarksWinner(t *testing.T) {
	trick := []game.TrickEntry{
		{Card: game.NewCard(game.Spades, game.Queen), PlayerIndex: 0},
		{Card: game.NewCard(game.Hearts, game.Queen), PlayerIndex: 1},
	}
	out := RenderTrick(trick, 1)
	if !strings.Contains(out, "You") || !strings.Contains(out, "Right") {
		t.Errorf("Expected seat names in:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "wins") || strings.Contains(lines[0], "wins") {
		t.Errorf("Expected only the second line to win:\n%s", out)
	}
	if got := RenderTrick(nil, -1); !strings.Contains(got, "no cards") {
		t.Errorf("Expected empty trick placeholder, got %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	e, err := game.New(game.NewRand(1), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	out := RenderTable(e)
	trump, _, _ := e.Trump()
	for _, want := range []string{"round 1/10", "Trump " + trump.Symbol(), "showed", "Partner:10"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table:\n%s", want, out)
		}
	}
}

func TestRenderOutcome(t *testing.T) {
	tests := []struct {
		out  game.Outcome
		want string
	}{
		{game.Outcome{Final: true, Points: [2]int{80, 40}, Winner: 0, Value: 1}, "You win 80-40"},
		{game.Outcome{Final: true, Points: [2]int{0, 120}, Winner: 1, Value: 4}, "You lose 0-120 (worth 4)"},
		{game.Outcome{Final: true, Points: [2]int{60, 60}, Winner: -1}, "Draw 60-60"},
	}
	for _, tt := range tests {
		if got := RenderOutcome(tt.out); !strings.Contains(got, tt.want) {
			t.Errorf("Expected %q in %q", tt.want, got)
		}
	}
}
