package main

import (
	"github.com/sirupsen/logrus"

	"github.com/racecraft/aidirector/internal/iface"
)

// fixedSessionManager is a stand-in for the real SessionManager (§6); a demo
// binary has no actual session layer to query.
type fixedSessionManager struct{}

func (fixedSessionManager) ServerTimeMs() int64 { return 0 }

func (fixedSessionManager) CurrentSession() iface.SessionConfig {
	return iface.SessionConfig{Configuration: "demo_oval", Grid: "start"}
}

// fixedWeatherManager is a stand-in WeatherManager holding constant values.
type fixedWeatherManager struct {
	trackGrip   float32
	sunAltitude float64
}

func (w *fixedWeatherManager) TrackGrip() float32 { return w.trackGrip }

func (w *fixedWeatherManager) SunAltitudeDeg() (float64, bool) { return w.sunAltitude, true }

// loggingPacketSink logs every would-be wire send instead of framing and
// transmitting it — packet framing is out of scope (§1 Non-goals).
type loggingPacketSink struct {
	log *logrus.Entry
}

func (s *loggingPacketSink) BroadcastPacket(p any) error {
	s.log.WithField("packet", p).Debug("broadcast")
	return nil
}

func (s *loggingPacketSink) SendPacket(sessionID uint8, p any) error {
	s.log.WithField("session_id", sessionID).WithField("packet", p).Debug("send")
	return nil
}

func (s *loggingPacketSink) KickAsync(sessionID uint8, reason string) {
	s.log.WithField("session_id", sessionID).WithField("reason", reason).Warn("kick")
}

// loggingScriptProvider logs script registration instead of pushing it to a
// connected CSP client population, which this demo binary does not have.
type loggingScriptProvider struct {
	log *logrus.Entry
}

func (p *loggingScriptProvider) AddScript(data []byte, name string) error {
	p.log.WithField("script", name).WithField("bytes", len(data)).Info("registered script")
	return nil
}

// fakeClient is the one connected human this demo simulates, on slot 0.
type fakeClient struct{}

func (fakeClient) HasSentFirstUpdate() bool { return true }
func (fakeClient) IsAdministrator() bool    { return false }
