package game

// TrickEntry records a card played within the current trick
type TrickEntry struct {
	Card        Card `json:"card"`
	PlayerIndex int  `json:"playerIndex"`
}

// CompletedTrick stores a finished trick with its result
type CompletedTrick struct {
	Round  int          `json:"round"`
	Cards  []TrickEntry `json:"cards"`
	Winner int          `json:"winner"`
	Points int          `json:"points"`
}

// LeadSuit returns the suit of the first card played, if any
func LeadSuit(trick []TrickEntry) (Suit, bool) {
	if len(trick) == 0 {
		return Spades, false
	}
	return trick[0].Card.Suit, true
}

// TrickWinner returns the seat that won a full trick.
// The result depends on play order: the first card sets the lead and ties
// between unrelated suits go to the earlier card. ok is false unless the
// trick has exactly one entry per seat.
func TrickWinner(trick []TrickEntry, trump Suit) (winner int, ok bool) {
	if len(trick) != NumPlayers {
		return -1, false
	}

	best := trick[0]
	for _, entry := range trick[1:] {
		if entry.Card.Beats(best.Card, trump) {
			best = entry
		}
	}
	return best.PlayerIndex, true
}

// TrickPoints sums the point values of the played cards
func TrickPoints(trick []TrickEntry) int {
	total := 0
	for _, entry := range trick {
		total += entry.Card.Points()
	}
	return total
}
