// Package tui renders the table for terminal play.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sueca/game"
)

var (
	clrBorder = lipgloss.Color("#30363d")
	clrSubtle = lipgloss.Color("#8b949e")
	clrGold   = lipgloss.Color("#e3b341")
	clrGreen  = lipgloss.Color("#3fb950")
	clrRed    = lipgloss.Color("#f85149")
	clrWhite  = lipgloss.Color("#e6edf3")
	clrTitle  = lipgloss.Color("#58a6ff")

	cardBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(clrBorder).
		Padding(0, 1)
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(clrTitle).
		Padding(0, 1)
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var seatNames = [game.NumPlayers]string{"You", "Right", "Partner", "Left"}

// SeatName labels a seat from the human's point of view
func SeatName(seat int) string {
	if seat < 0 || seat >= game.NumPlayers {
		return "?"
	}
	return seatNames[seat]
}

// CardLabel renders a card as rank and suit symbol, red suits in red
func CardLabel(c game.Card) string {
	label := c.Rank.String() + c.Suit.Symbol()
	if c.Suit.IsRed() {
		return bold(clrRed).Render(label)
	}
	return bold(clrWhite).Render(label)
}

// RenderHand draws the hand as numbered boxes. Cards not in legal are dimmed;
// a nil legal slice marks every card as playable.
func RenderHand(cards []game.Card, legal []int) string {
	playable := make(map[int]bool, len(legal))
	for _, id := range legal {
		playable[id] = true
	}

	boxes := make([]string, 0, len(cards))
	for i, c := range cards {
		label := CardLabel(c)
		box := cardBox
		if legal != nil && !playable[c.ID] {
			label = fg(clrSubtle).Render(c.Rank.String() + c.Suit.Symbol())
		} else {
			box = box.BorderForeground(clrGreen)
		}
		boxes = append(boxes, lipgloss.JoinVertical(lipgloss.Center,
			box.Render(label),
			fg(clrSubtle).Render(fmt.Sprintf("%d", i+1))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// RenderTrick lists the cards on the table in play order
func RenderTrick(trick []game.TrickEntry, winner int) string {
	if len(trick) == 0 {
		return fg(clrSubtle).Render("(no cards played)")
	}
	lines := make([]string, 0, len(trick))
	for _, entry := range trick {
		line := fmt.Sprintf("%-8s %s", SeatName(entry.PlayerIndex), CardLabel(entry.Card))
		if entry.PlayerIndex == winner {
			line += " " + bold(clrGold).Render("wins")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderScores shows both partnerships' points
func RenderScores(scores [2]int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %3d", fg(clrGreen).Render("Us   (You+Partner)"), scores[0]),
		fmt.Sprintf("%s %3d", fg(clrRed).Render("Them (Right+Left) "), scores[1]))
}

// RenderTable draws trump, trick, scores and seat card counts
func RenderTable(e *game.Engine) string {
	trump, trumpCard, trumpSeat := e.Trump()
	trumpLine := fmt.Sprintf("Trump %s", trump.Symbol())
	if e.TrumpRevealed() {
		trumpLine = fmt.Sprintf("Trump %s (%s showed %s)", trump.Symbol(), SeatName(trumpSeat), CardLabel(trumpCard))
	}

	winner := -1
	if last, ok := e.LastTrick(); ok && e.Phase() == game.PhaseTrickComplete {
		winner = last.Winner
	}

	counts := make([]string, 0, game.NumPlayers)
	for seat, n := range e.HandSizes() {
		counts = append(counts, fmt.Sprintf("%s:%d", SeatName(seat), n))
	}

	header := bold(clrTitle).Render(fmt.Sprintf("Sueca  round %d/%d", e.Round(), game.MaxRounds))
	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		bold(clrGold).Render(trumpLine),
		"",
		RenderTrick(e.CurrentTrick(), winner),
		"",
		RenderScores(e.Scores()),
		fg(clrSubtle).Render(strings.Join(counts, "  ")),
	)
	return panel.Render(body)
}

// RenderOutcome describes the final result
func RenderOutcome(out game.Outcome) string {
	switch out.Winner {
	case 0:
		return bold(clrGreen).Render(fmt.Sprintf("You win %d-%d (worth %d)", out.Points[0], out.Points[1], out.Value))
	case 1:
		return bold(clrRed).Render(fmt.Sprintf("You lose %d-%d (worth %d)", out.Points[0], out.Points[1], out.Value))
	default:
		return bold(clrGold).Render(fmt.Sprintf("Draw %d-%d", out.Points[0], out.Points[1]))
	}
}
