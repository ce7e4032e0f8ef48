// Package sim drives whole games with random seats and checks the engine's
// invariants after every step.
package sim

import (
	"fmt"

	"sueca/game"
)

// ActionRecord is one step of a simulated game
type ActionRecord struct {
	Game  int
	Step  int
	Phase game.Phase
	Seat  int
	Kind  game.ActionType
	Card  string
}

// RunSelfPlay plays the given number of games from one seed. The human seat
// plays a random legal card through PlayCard so the request path is covered too.
func RunSelfPlay(seed int64, games int, maxStepsPerGame int) error {
	rng := game.NewRand(seed)
	e, err := game.New(rng, nil)
	if err != nil {
		return fmt.Errorf("seed=%d: %w", seed, err)
	}
	if _, err := e.Start(); err != nil {
		return fmt.Errorf("seed=%d: %w", seed, err)
	}

	for g := 0; g < games; g++ {
		if g > 0 {
			if _, err := e.Restart(); err != nil {
				return failure(seed, g, 0, e.Phase(), -1, nil, fmt.Sprintf("restart: %v", err))
			}
		}

		records := []ActionRecord{}
		ended := false
		for step := 0; step < maxStepsPerGame; step++ {
			seat := e.CurrentPlayer()
			rec := ActionRecord{Game: g, Step: step, Phase: e.Phase(), Seat: seat}

			switch {
			case e.Phase() == game.PhaseTrickComplete:
				rec.Kind = game.ActionContinue
				_, err = e.Continue()
			case e.CanHumanAct():
				legal := e.LegalCards(game.HumanSeat)
				if len(legal) == 0 {
					return failure(seed, g, step, e.Phase(), seat, records, "no legal cards")
				}
				c := legal[rng.Intn(len(legal))]
				rec.Kind, rec.Card = game.ActionPlayCard, c.String()
				_, err = e.PlayCard(c.ID)
			default:
				var move game.Move
				move, err = e.DecideAIMove()
				if err == nil {
					rec.Kind, rec.Card = game.ActionAIMove, move.Card.String()
					_, err = e.ApplyAIMove(move)
				}
			}
			records = append(records, rec)
			if err != nil {
				return failure(seed, g, step, e.Phase(), seat, records, fmt.Sprintf("apply error: %v", err))
			}
			if err := checkInvariants(e); err != nil {
				return failure(seed, g, step, e.Phase(), seat, records, err.Error())
			}
			if e.Phase() == game.PhaseGameEnded {
				ended = true
				break
			}
		}
		if !ended {
			return failure(seed, g, maxStepsPerGame, e.Phase(), -1, records, "game did not end")
		}
		if err := checkFinal(e); err != nil {
			return failure(seed, g, maxStepsPerGame, e.Phase(), -1, records, err.Error())
		}
	}
	return nil
}

func checkInvariants(e *game.Engine) error {
	seen := map[int]bool{}
	total := 0
	add := func(c game.Card) error {
		total++
		if seen[c.ID] {
			return fmt.Errorf("duplicate card %s", c)
		}
		seen[c.ID] = true
		return nil
	}

	for seat := 0; seat < game.NumPlayers; seat++ {
		for _, c := range e.Hand(seat) {
			if err := add(c); err != nil {
				return err
			}
		}
	}
	trick := e.CurrentTrick()
	if len(trick) > game.NumPlayers {
		return fmt.Errorf("invalid trick size: %d", len(trick))
	}
	if e.Phase() == game.PhaseRoundInProgress {
		for _, entry := range trick {
			if err := add(entry.Card); err != nil {
				return err
			}
		}
	}
	points := 0
	for _, done := range e.CompletedTricks() {
		points += done.Points
		for _, entry := range done.Cards {
			if err := add(entry.Card); err != nil {
				return err
			}
		}
	}
	if total != game.DeckSize {
		return fmt.Errorf("card count mismatch: %d", total)
	}

	scores := e.Scores()
	if scores[0]+scores[1] != points {
		return fmt.Errorf("scores %v do not match trick points %d", scores, points)
	}

	sizes := e.HandSizes()
	played := map[int]bool{}
	if e.Phase() == game.PhaseRoundInProgress {
		for _, entry := range trick {
			played[entry.PlayerIndex] = true
		}
	}
	want := game.HandSize - len(e.CompletedTricks())
	for seat, size := range sizes {
		expected := want
		if played[seat] {
			expected--
		}
		if size != expected {
			return fmt.Errorf("seat %d holds %d cards, expected %d", seat, size, expected)
		}
	}
	return nil
}

func checkFinal(e *game.Engine) error {
	out := e.Outcome()
	if !out.Final {
		return fmt.Errorf("outcome not final after game end")
	}
	if out.Points[0]+out.Points[1] != game.TotalPoints {
		return fmt.Errorf("final points %v do not add up to %d", out.Points, game.TotalPoints)
	}
	if len(e.CompletedTricks()) != game.MaxRounds {
		return fmt.Errorf("expected %d tricks, got %d", game.MaxRounds, len(e.CompletedTricks()))
	}
	return nil
}

func failure(seed int64, g int, step int, phase game.Phase, seat int, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[g%d s%d p%d %v] %s %s\n", r.Game, r.Step, r.Seat, r.Phase, r.Kind, r.Card)
	}
	return fmt.Errorf("seed=%d game=%d step=%d phase=%v seat=%d reason=%s\nlast actions:\n%s",
		seed, g, step, phase, seat, reason, log)
}
