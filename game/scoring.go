package game

// TotalPoints is the sum of all card points in the deck
const TotalPoints = 120

// Outcome summarizes the result of a game
type Outcome struct {
	Final  bool   `json:"final"`
	Points [2]int `json:"points"`
	Winner int    `json:"winner"` // Team index, -1 for a 60-60 draw or unfinished game
	Value  int    `json:"value"`  // Games scored by the winner: 1, 2 (91+) or 4 (all 120)
}

// Outcome scores the game so far.
// A team needs more than half the points to win; 60-60 is a draw.
func (g *GameState) Outcome() Outcome {
	out := Outcome{
		Final:  g.Phase == PhaseGameEnded,
		Points: g.Scores(),
		Winner: -1,
	}
	if !out.Final {
		return out
	}

	half := TotalPoints / 2
	for team, pts := range out.Points {
		if pts > half {
			out.Winner = team
			out.Value = GameValue(pts)
		}
	}
	return out
}

// GameValue returns how many games a winning point total is worth
func GameValue(points int) int {
	switch {
	case points >= TotalPoints:
		return 4
	case points > 90:
		return 2
	case points > TotalPoints/2:
		return 1
	default:
		return 0
	}
}
