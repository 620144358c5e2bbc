// Package wire holds the plain-struct packet types the core emits (§6).
// These are handed to an iface.PacketSink for actual framing/transmission —
// this module owns their shape and construction, never their bytes on a
// socket (packet framing is an explicit Non-goal, §1).
package wire

import "github.com/racecraft/aidirector/internal/iface"

// ServerSessionID is the session id that denotes "server" on chat packets
// (§6 ChatMessage).
const ServerSessionID uint8 = 255

type ChatMessage struct {
	SessionID uint8
	Message   string
}

type CurrentSessionUpdate struct {
	CurrentSession iface.SessionConfig
	Grid           string
	TrackGrip      float32
	StartTimeMs    int64
}

// AutoModerationFlag bits (§6).
type AutoModerationFlag uint8

const (
	FlagNoLights AutoModerationFlag = 1 << iota
	FlagWrongWay
	FlagNoParking
)

type AutoModerationFlags struct {
	Flags AutoModerationFlag
}
