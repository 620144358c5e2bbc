package aidirector

import "github.com/racecraft/aidirector/internal/entrycar"

// OnClientConnected implements the checksum-passed half of §4.8's
// connection-transition handling: the slot's EntryCar.SetClient already
// flips ai_controlled off (entrycar.go), so this only has to retune
// overbooking across the surviving AI slots so the freed capacity is
// redistributed rather than left idle until the next scheduled pass.
func (d *Director) OnClientConnected(car *entrycar.EntryCar, client entrycar.Client, playerCount int, aiSlots []*entrycar.EntryCar) {
	car.SetClient(client)
	d.Overbooking(playerCount, aiSlots)
}

// OnClientDisconnected implements the disconnected half: SetClient(nil)
// restores ai_controlled per the slot's AiMode, then overbooking is
// retuned the same way.
func (d *Director) OnClientDisconnected(car *entrycar.EntryCar, playerCount int, aiSlots []*entrycar.EntryCar) {
	car.SetClient(nil)
	d.Overbooking(playerCount, aiSlots)
}
