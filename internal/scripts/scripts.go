// Package scripts ships the CSP client-side Lua payloads that visualize
// the debug telemetry and auto-moderation side channels (§6
// CspServerScriptProvider). These exist in the original system as
// distributed client scripts; the distillation's prose drops them, but the
// interface already requires something to register, so the module embeds
// the two payloads its own wire packets are shaped for rather than leaving
// AddScript uncalled.
package scripts

import (
	_ "embed"

	"github.com/racecraft/aidirector/internal/iface"
)

//go:embed lua/ai_debug.lua
var aiDebugLua []byte

//go:embed lua/automoderation.lua
var autoModerationLua []byte

// RegisterDebug registers the AI debug overlay script; callers gate this on
// the AI director's Debug config flag (§4.7), the flag under which
// AiDebugPackets are broadcast.
func RegisterDebug(provider iface.ScriptProvider) error {
	return provider.AddScript(aiDebugLua, "ai_debug.lua")
}

// RegisterAutoModeration registers the auto-moderation HUD script; callers
// gate this on automodconfig.Config.EnableClientMessages.
func RegisterAutoModeration(provider iface.ScriptProvider) error {
	return provider.AddScript(autoModerationLua, "automoderation.lua")
}
