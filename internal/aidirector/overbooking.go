package aidirector

import (
	"math"

	"github.com/racecraft/aidirector/internal/entrycar"
)

// Overbooking implements §4.9: how many AI identities each AI-eligible slot
// may multiplex. It is called after each director tick in the demo binary
// and from the connection callbacks (connection.go); calls are serialized
// by overbookingMu. It only touches EntryCar.Overbooking, a field neither
// the spawn/despawn pass nor obstacle detection reads.
func (d *Director) Overbooking(playerCount int, aiSlots []*entrycar.EntryCar) {
	d.overbookingMu.Lock()
	defer d.overbookingMu.Unlock()

	if len(aiSlots) == 0 {
		return
	}

	perPlayer := int(math.Round(d.cfg.AiPerPlayerTarget * d.cfg.TrafficDensity))
	if perPlayer < 0 {
		perPlayer = 0
	}
	if perPlayer > len(aiSlots) {
		perPlayer = len(aiSlots)
	}

	target := playerCount * perPlayer
	if target > d.cfg.MaxAiTarget {
		target = d.cfg.MaxAiTarget
	}
	// §4.9 only clamps target_ai to max_ai_target, never to ai_slots.len —
	// overbooking's whole purpose is multiplexing more than one AI identity
	// per slot when target_ai exceeds the slot count.

	// Distribute target identically to the teacher's lap-count bookkeeping
	// style — base count per slot plus a remainder handed to the first N
	// slots — so Σ slot.Overbooking == target exactly (§8 I5), never a
	// rounded approximation.
	base := target / len(aiSlots)
	rest := target % len(aiSlots)
	for i, car := range aiSlots {
		n := base
		if i < rest {
			n++
		}
		car.Overbooking = n
	}
}
