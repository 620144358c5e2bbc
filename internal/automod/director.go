package automod

import (
	"sync"
	"time"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/automodconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/iface"
	"github.com/racecraft/aidirector/internal/wire"
	"github.com/sirupsen/logrus"
)

type action int

const (
	actionNone action = iota
	actionWarn
	actionPit
	actionKick
)

// evaluate implements the single state machine table shared by all three
// violations (§4.10): seconds increments and the flag is set while the
// predicate holds; past duration/2 a once-per-streak warning fires; past
// duration, a pit-teleport fires while PitCount is below the limit, else a
// kick fires; a false predicate resets seconds and the warning bit and
// clears the flag (§8 reset law, escalation law).
func evaluate(v *ViolationState, cfg automodconfig.ViolationConfig, predicateTrue bool, flagBit wire.AutoModerationFlag, flags *wire.AutoModerationFlag) action {
	if !predicateTrue {
		v.reset()
		*flags &^= flagBit
		return actionNone
	}

	v.Seconds++
	*flags |= flagBit

	act := actionNone
	if v.Seconds > cfg.DurationSeconds {
		if v.PitCount < cfg.PitsBeforeKick {
			v.PitCount++
			act = actionPit
		} else {
			act = actionKick
		}
	} else if v.Seconds > cfg.DurationSeconds/2 && !v.WarningSent {
		v.WarningSent = true
		act = actionWarn
	}
	return act
}

// Director evaluates every connected, non-administrator EntryCar's three
// violations once per tick (§4.10).
type Director struct {
	cfg          automodconfig.Config
	laneRadiusSq float32 // (lane_width_m/2 * 1.25)^2, shared with the AI director's lane config (§4.10)
	spline       iface.AiSpline // nil disables WrongWay/BlockingRoad
	weather      iface.WeatherManager
	sessions     iface.SessionManager
	sink         iface.PacketSink
	log          *logrus.Entry

	mu        sync.Mutex
	instances map[uint8]*Instance
}

// New validates cfg against the available collaborators and returns a
// Director, or the ConfigurationError from automodconfig.Config.Validate if
// a kick-capable violation is enabled without its required collaborator
// (§4.10, §7 ConfigurationError — fatal, refuses to start). laneCfg supplies
// lane_width_m, which auto-moderation shares with the AI director's
// configuration rather than duplicating it.
func New(cfg automodconfig.Config, laneCfg aiconfig.Config, spline iface.AiSpline, weather iface.WeatherManager, sessions iface.SessionManager, sink iface.PacketSink, log *logrus.Entry) (*Director, error) {
	_, hasSun := weather.SunAltitudeDeg()
	if err := cfg.Validate(spline != nil, hasSun); err != nil {
		return nil, err
	}
	return &Director{
		cfg:          cfg,
		laneRadiusSq: laneCfg.LaneRadiusSq(),
		spline:       spline,
		weather:      weather,
		sessions:     sessions,
		sink:         sink,
		log:          log,
		instances:    make(map[uint8]*Instance),
	}, nil
}

func (d *Director) instanceFor(sessionID uint8) *Instance {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, ok := d.instances[sessionID]
	if !ok {
		inst = NewInstance()
		d.instances[sessionID] = inst
	}
	return inst
}

// Tick runs the 1 Hz auto-moderation pass over every slot in cars (§4.10).
// Errors from an individual slot are logged and swallowed (§7 TickError) so
// one malformed client never stops the rest of the pass.
func (d *Director) Tick(now time.Time, cars []*entrycar.EntryCar) {
	for _, car := range cars {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.WithField("session_id", car.SessionID).WithField("panic", r).Error("automod: tick panic recovered")
				}
			}()
			d.tickOne(now, car)
		}()
	}
}

func (d *Director) tickOne(now time.Time, car *entrycar.EntryCar) {
	client := car.Client()
	if client == nil || !client.HasSentFirstUpdate() || client.IsAdministrator() {
		return
	}

	inst := d.instanceFor(car.SessionID)
	oldFlags := inst.CurrentFlags

	if d.spline != nil {
		inst.CurrentSplinePointID, inst.CurrentSplinePointDistanceSquared = d.spline.WorldToSpline(car.Position)
	} else {
		inst.CurrentSplinePointID = -1
	}

	speedSq := car.Velocity.LengthSq()
	laneRadiusSq := d.laneRadiusSq

	if d.cfg.NoLights.Enabled {
		altitude, ok := d.weather.SunAltitudeDeg()
		predicate := ok && altitude < -12 &&
			(car.Flags&entrycar.LightsOn) == 0 &&
			speedSq > d.cfg.NoLights.MinimumSpeedMs*d.cfg.NoLights.MinimumSpeedMs
		d.apply(now, car, &inst.NoLights, d.cfg.NoLights, predicate, wire.FlagNoLights, reasonNoLights, &inst.CurrentFlags)
	}

	if d.cfg.WrongWay.Enabled && d.spline != nil {
		predicate := inst.CurrentSplinePointID >= 0 &&
			inst.CurrentSplinePointDistanceSquared < laneRadiusSq &&
			speedSq > d.cfg.WrongWay.MinimumSpeedMs*d.cfg.WrongWay.MinimumSpeedMs &&
			d.spline.Forward(inst.CurrentSplinePointID).Dot(car.Velocity) < 0
		d.apply(now, car, &inst.WrongWay, d.cfg.WrongWay, predicate, wire.FlagWrongWay, reasonWrongWay, &inst.CurrentFlags)
	}

	if d.cfg.BlockingRoad.Enabled && d.spline != nil {
		predicate := inst.CurrentSplinePointID >= 0 &&
			inst.CurrentSplinePointDistanceSquared < laneRadiusSq &&
			speedSq < d.cfg.BlockingRoad.MaximumSpeedMs*d.cfg.BlockingRoad.MaximumSpeedMs
		d.apply(now, car, &inst.BlockingRoad, d.cfg.BlockingRoad, predicate, wire.FlagNoParking, reasonBlockingRoad, &inst.CurrentFlags)
	}

	if d.cfg.EnableClientMessages && inst.CurrentFlags != oldFlags {
		if err := d.sink.SendPacket(car.SessionID, wire.AutoModerationFlags{Flags: inst.CurrentFlags}); err != nil {
			d.log.WithError(err).WithField("session_id", car.SessionID).Warn("automod: failed to send AutoModerationFlags")
		}
	}
}

func (d *Director) apply(now time.Time, car *entrycar.EntryCar, v *ViolationState, cfg automodconfig.ViolationConfig, predicate bool, flagBit wire.AutoModerationFlag, reason string, flags *wire.AutoModerationFlag) {
	act := evaluate(v, cfg, predicate, flagBit, flags)
	switch act {
	case actionWarn:
		d.sendChat(car.SessionID, warningMessage(reason, cfg.DurationSeconds-v.Seconds))
	case actionPit:
		d.teleportToPits(now, car, reason)
	case actionKick:
		d.sink.KickAsync(car.SessionID, kickMessage(reason))
	}
}

func (d *Director) sendChat(sessionID uint8, message string) {
	if err := d.sink.SendPacket(wire.ServerSessionID, wire.ChatMessage{SessionID: wire.ServerSessionID, Message: message}); err != nil {
		d.log.WithError(err).Warn("automod: failed to send chat message")
	}
}

// teleportToPits implements the §4.10 "Teleport to pits" action: a
// CurrentSessionUpdate packet recomputing start_time against the slot's
// own time_offset, plus a chat notice.
func (d *Director) teleportToPits(now time.Time, car *entrycar.EntryCar, reason string) {
	session := d.sessions.CurrentSession()
	update := wire.CurrentSessionUpdate{
		CurrentSession: session,
		Grid:           session.Grid,
		TrackGrip:      d.weather.TrackGrip(),
		StartTimeMs:    session.StartTimeMs - car.TimeOffset.Milliseconds(),
	}
	if err := d.sink.SendPacket(car.SessionID, update); err != nil {
		d.log.WithError(err).WithField("session_id", car.SessionID).Warn("automod: failed to send pit teleport")
	}
	d.sendChat(car.SessionID, pitMessage(reason))
}
