package aidirector

import (
	"testing"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/sirupsen/logrus"
)

func newTestDirector(cfg aiconfig.Config) *Director {
	return New(cfg, nil, nil, logrus.NewEntry(logrus.New()))
}

func makeAiSlots(n int) []*entrycar.EntryCar {
	slots := make([]*entrycar.EntryCar, n)
	for i := range slots {
		slots[i] = entrycar.New(uint8(i), entrycar.AiModeAuto)
	}
	return slots
}

func sumOverbooking(slots []*entrycar.EntryCar) int {
	sum := 0
	for _, s := range slots {
		sum += s.Overbooking
	}
	return sum
}

// TestOverbookingConservesTarget verifies §8 Invariant 5: the sum of every
// slot's Overbooking always exactly equals target_ai = min(player_count *
// per_player, max_ai_target) — §4.9 never clamps target_ai to ai_slots.len,
// since overbooking's whole purpose is multiplexing more than one AI
// identity per slot when target_ai exceeds the slot count.
func TestOverbookingConservesTarget(t *testing.T) {
	cases := []struct {
		name           string
		playerCount    int
		aiPerPlayer    float64
		trafficDensity float64
		maxAiTarget    int
		slotCount      int
		wantTarget     int
	}{
		{"even division", 4, 3, 1.0, 50, 12, 12},
		{"remainder spread across slots", 5, 3, 1.0, 50, 7, 15},
		{"clamped by MaxAiTarget", 20, 3, 1.0, 10, 15, 10},
		{"target exceeds slot count via overbooking multiplexing", 20, 3, 1.0, 1000, 5, 60},
		{"zero players", 0, 3, 1.0, 50, 8, 0},
		{"fractional density rounds per-player count", 4, 3, 0.5, 50, 12, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := aiconfig.DefaultConfig()
			cfg.AiPerPlayerTarget = c.aiPerPlayer
			cfg.TrafficDensity = c.trafficDensity
			cfg.MaxAiTarget = c.maxAiTarget

			d := newTestDirector(cfg)
			slots := makeAiSlots(c.slotCount)
			d.Overbooking(c.playerCount, slots)

			sum := sumOverbooking(slots)
			for _, s := range slots {
				if s.Overbooking < 0 {
					t.Errorf("slot %d has negative Overbooking %d", s.SessionID, s.Overbooking)
				}
			}
			if sum != c.wantTarget {
				t.Errorf("sum of Overbooking = %d, want exactly target_ai %d", sum, c.wantTarget)
			}
			maxPerSlot := (c.wantTarget + c.slotCount - 1) / c.slotCount
			for _, s := range slots {
				if s.Overbooking > maxPerSlot {
					t.Errorf("slot %d has Overbooking %d, exceeds ceil(target/slots) %d", s.SessionID, s.Overbooking, maxPerSlot)
				}
			}
		})
	}
}

func TestOverbookingNoSlots(t *testing.T) {
	d := newTestDirector(aiconfig.DefaultConfig())
	d.Overbooking(5, nil) // must not panic
}
