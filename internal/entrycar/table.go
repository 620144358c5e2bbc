package entrycar

// Table is the fixed-size indexed array of slots (§2 EntryCar table). It is
// populated before the directors start and is treated as read-only in
// shape (no slot is ever added or removed) for the lifetime of a run,
// mirroring the teacher's carInfos/carStates arrays being sized once in
// NewCarServer and never resized afterward.
type Table struct {
	Slots []*EntryCar
}

func NewTable(slots []*EntryCar) *Table {
	return &Table{Slots: slots}
}

// ConnectedCars returns the slots that currently have a live client,
// indexed by session id, mirroring EntryCarManager.connected_cars (§6).
func (t *Table) ConnectedCars() map[uint8]*EntryCar {
	out := make(map[uint8]*EntryCar)
	for _, c := range t.Slots {
		if cl := c.Client(); cl != nil {
			out[c.SessionID] = c
		}
	}
	return out
}

// AiSlots returns slots with no client that are under AI control (§4.9
// ai_slots).
func (t *Table) AiSlots() []*EntryCar {
	out := make([]*EntryCar, 0, len(t.Slots))
	for _, c := range t.Slots {
		if c.Client() == nil && c.AiControlled() {
			out = append(out, c)
		}
	}
	return out
}
