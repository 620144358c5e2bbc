// Package telemetry builds and packs the AiDebugPacket side channel (§4.7,
// §6). Unlike the rest of the wire packets, the debug packet's layout is
// spelled out in the spec down to field width, so it is encoded with
// encoding/binary rather than left as a plain Go struct for the caller to
// serialize however it likes: a fixed little-endian layout is the contract,
// not an implementation detail.
package telemetry

import (
	"bytes"
	"encoding/binary"
)

// BatchSize (L in the spec) is the fixed number of AI slots carried per
// AiDebugPacket chunk.
const BatchSize = 20

// UnusedSessionID pads slack entries in a partially-filled chunk.
const UnusedSessionID = 0xFF

// Entry is one AI slot's debug sample, in the units the director tracks
// them (m/s, cm) before packing to the wire's km/h / cm units.
type Entry struct {
	SessionID               uint8
	ClosestAiObstacleCm      int16
	CurrentSpeedMs           float32
	TargetSpeedMs            float32
	MaxSpeedMs               float32
}

// Packet is one AiDebugPacket (§6): fixed-size parallel arrays, unused
// slots padded with UnusedSessionID.
type Packet struct {
	SessionIDs          [BatchSize]uint8
	ClosestAiObstaclesCm [BatchSize]int16
	CurrentSpeedsKmh     [BatchSize]uint8
	MaxSpeedsKmh         [BatchSize]uint8
	TargetSpeedsKmh      [BatchSize]uint8
}

func msToKmh(ms float32) uint8 {
	kmh := ms * 3.6
	if kmh < 0 {
		kmh = 0
	}
	if kmh > 255 {
		kmh = 255
	}
	return uint8(kmh)
}

// BuildPackets chunks entries into fixed-size Packets, padding the final
// chunk with UnusedSessionID (§4.7).
func BuildPackets(entries []Entry) []Packet {
	packets := make([]Packet, 0, (len(entries)+BatchSize-1)/BatchSize)
	for start := 0; start < len(entries); start += BatchSize {
		end := start + BatchSize
		if end > len(entries) {
			end = len(entries)
		}
		var p Packet
		for i := range p.SessionIDs {
			p.SessionIDs[i] = UnusedSessionID
		}
		for i, e := range entries[start:end] {
			p.SessionIDs[i] = e.SessionID
			p.ClosestAiObstaclesCm[i] = e.ClosestAiObstacleCm
			p.CurrentSpeedsKmh[i] = msToKmh(e.CurrentSpeedMs)
			p.MaxSpeedsKmh[i] = msToKmh(e.MaxSpeedMs)
			p.TargetSpeedsKmh[i] = msToKmh(e.TargetSpeedMs)
		}
		packets = append(packets, p)
	}
	return packets
}

// Encode packs a Packet to its little-endian wire form.
func (p Packet) Encode() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, p.SessionIDs)
	binary.Write(buf, binary.LittleEndian, p.ClosestAiObstaclesCm)
	binary.Write(buf, binary.LittleEndian, p.CurrentSpeedsKmh)
	binary.Write(buf, binary.LittleEndian, p.MaxSpeedsKmh)
	binary.Write(buf, binary.LittleEndian, p.TargetSpeedsKmh)
	return buf.Bytes()
}
