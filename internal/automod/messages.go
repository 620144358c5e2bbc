package automod

import "fmt"

// The distilled spec specifies the escalation table (§4.10) but not the
// literal chat copy; this is the one-line addition SPEC_FULL.md §12
// flags as a supplemented feature. Wording follows the server-voice,
// second-person register AssettoServer's own auto-moderation script uses.
func warningMessage(violation string, secondsRemaining int) string {
	return fmt.Sprintf("Warning: %s detected. You will be sent to the pits in %d seconds if this continues.", violation, secondsRemaining)
}

func pitMessage(violation string) string {
	return fmt.Sprintf("You have been sent to the pits for: %s.", violation)
}

func kickMessage(violation string) string {
	return fmt.Sprintf("You have been kicked for: %s (repeated after being sent to the pits).", violation)
}

const (
	reasonNoLights     = "driving without lights at night"
	reasonWrongWay     = "driving the wrong way"
	reasonBlockingRoad = "blocking the road"
)
