package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"sueca/config"
	"sueca/game"
	"sueca/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	seed := flag.Int64("seed", 0, "Shuffle seed (0 = random)")
	fast := flag.Bool("fast", false, "Let AI seats play without pausing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *fast {
		cfg.AIDelayMinMs, cfg.AIDelayMaxMs = 0, 0
	}
	// Terminal output belongs to the game; only errors go to the log
	cfg.LogLevel = "error"

	logger, err := cfg.NewLogger()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine, pace, err := newSession(cfg, logger)
	if err != nil {
		logger.Fatal("failed to deal", zap.Error(err))
	}
	engine.Subscribe(printEvent)

	pterm.DefaultHeader.WithFullWidth().Println("Sueca")
	if _, err := engine.Start(); err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	for {
		switch {
		case engine.Phase() == game.PhaseGameEnded:
			fmt.Println(tui.RenderOutcome(engine.Outcome()))
			again, _ := pterm.DefaultInteractiveConfirm.Show("Play again?")
			if !again {
				return
			}
			if _, err := engine.Restart(); err != nil {
				logger.Fatal("failed to restart", zap.Error(err))
			}

		case engine.Phase() == game.PhaseTrickComplete:
			fmt.Println(tui.RenderTable(engine))
			pterm.DefaultInteractiveContinue.WithOptions([]string{"next"}).Show("Trick done")
			if _, err := engine.Continue(); err != nil {
				logger.Fatal("continue failed", zap.Error(err))
			}

		case engine.CanHumanAct():
			fmt.Println(tui.RenderTable(engine))
			if err := humanTurn(engine); err != nil {
				pterm.Warning.Println(err)
			}

		default:
			time.Sleep(pace.next())
			if _, err := engine.StepAI(); err != nil {
				logger.Fatal("ai move failed", zap.Error(err))
			}
		}
	}
}

// humanTurn asks for a card; the engine decides whether it is legal
func humanTurn(engine *game.Engine) error {
	hand := engine.HumanHand()
	legal := engine.LegalCards(game.HumanSeat)
	ids := make([]int, len(legal))
	for i, c := range legal {
		ids[i] = c.ID
	}
	fmt.Println(tui.RenderHand(hand, ids))

	options := make([]string, len(hand))
	for i, c := range hand {
		options[i] = fmt.Sprintf("%d  %s", i+1, c.Rank.String()+c.Suit.Symbol())
	}
	choice, err := pterm.DefaultInteractiveSelect.WithOptions(options).Show("Your card")
	if err != nil {
		return err
	}
	for i, opt := range options {
		if opt == choice {
			_, err := engine.PlayCard(hand[i].ID)
			var rejected *game.RejectedPlayError
			if errors.As(err, &rejected) {
				// already reported through the move_rejected event
				return nil
			}
			return err
		}
	}
	return fmt.Errorf("unknown choice %q", choice)
}

// newSession deals the first game. The pacer draws from its own source so a
// seeded deck replays the same deals no matter how often AI seats paused.
func newSession(cfg config.Config, logger *zap.Logger) (*game.Engine, *pacer, error) {
	engine, err := game.New(game.NewRand(cfg.Seed), logger)
	if err != nil {
		return nil, nil, err
	}
	return engine, &pacer{min: cfg.AIDelayMin(), max: cfg.AIDelayMax(), rng: game.NewRand(0)}, nil
}

// pacer picks the pause before each AI move
type pacer struct {
	min, max time.Duration
	rng      *rand.Rand
}

func (p *pacer) next() time.Duration {
	spread := p.max - p.min
	if spread <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.rng.Int63n(int64(spread)+1))
}

func printEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventTrumpRevealed:
		c := game.MustCard(ev.CardID)
		pterm.Info.Printfln("%s turned up %s: trump is %s", tui.SeatName(ev.Seat), tui.CardLabel(c), c.Suit)
	case game.EventCardPlayed:
		if ev.Seat != game.HumanSeat {
			pterm.Printfln("%s plays %s", tui.SeatName(ev.Seat), tui.CardLabel(game.MustCard(ev.CardID)))
		}
	case game.EventMoveRejected:
		pterm.Warning.Println(ev.Reason)
	case game.EventTrickWon:
		pterm.Success.Printfln("%s won trick %d for %d points", tui.SeatName(ev.Seat), ev.Round, ev.Points)
	case game.EventGameEnded:
		pterm.DefaultSection.Println("Game over")
	case game.EventGameRestarted:
		pterm.DefaultSection.Println("New game")
	}
}
