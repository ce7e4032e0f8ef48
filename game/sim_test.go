package game_test

import (
	"testing"

	"sueca/game"
	"sueca/game/sim"
)

func TestSelfPlayManySeeds(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		if err := sim.RunSelfPlay(seed, 3, 200); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	}
}

func FuzzSelfPlay(f *testing.F) {
	f.Add(int64(1))
	f.Add(int64(42))
	f.Add(int64(20260101))
	f.Fuzz(func(t *testing.T, seed int64) {
		if err := sim.RunSelfPlay(replayableSeed(seed), 2, 200); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	})
}

// replayableSeed keeps fuzz inputs deterministic; NewRand(0) would pick a random seed
func replayableSeed(seed int64) int64 {
	if seed == 0 {
		return 1
	}
	return seed
}

func TestReplayableSeed(t *testing.T) {
	if got := replayableSeed(0); got == 0 {
		t.Error("Expected seed 0 to map to a fixed non-zero seed")
	}
	if got := replayableSeed(42); got != 42 {
		t.Errorf("Expected 42 unchanged, got %d", got)
	}

	a := game.NewRand(replayableSeed(0)).Int63()
	b := game.NewRand(replayableSeed(0)).Int63()
	if a != b {
		t.Errorf("Expected identical draws for the mapped seed, got %d and %d", a, b)
	}
}
