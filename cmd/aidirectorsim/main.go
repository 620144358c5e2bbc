// Command aidirectorsim is a standalone demonstration binary: it wires a
// small synthetic track, a handful of EntryCar slots, and fake
// implementations of the external collaborators (§6) to the AI director,
// auto-moderation director, and obstacle detector, then runs all three
// tick loops via internal/runloop until interrupted. It plays the role the
// teacher's main.go plays for server/physics.go — a runnable entry point —
// without carrying over the teacher's gRPC/network surface, which is out
// of this module's scope (§1 Non-goals).
package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/aidirector"
	"github.com/racecraft/aidirector/internal/automod"
	"github.com/racecraft/aidirector/internal/automodconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
	"github.com/racecraft/aidirector/internal/runloop"
	"github.com/racecraft/aidirector/internal/scripts"
	"github.com/racecraft/aidirector/internal/spline"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logrus.NewEntry(log)

	track := buildOvalTrack(200, 12)
	cars := buildEntryCars(8)

	sessions := &fixedSessionManager{}
	weather := &fixedWeatherManager{trackGrip: 0.98, sunAltitude: 20}
	sink := &loggingPacketSink{log: entry}
	scriptProvider := &loggingScriptProvider{log: entry}

	aiCfg := aiconfig.DefaultConfig()
	aiCfg.Debug = true

	director := aidirector.New(aiCfg, track, sink, entry)
	obstacles := aidirector.NewObstacleDetector(track, sink, entry, aiCfg.Debug)

	automodCfg := automodconfig.DefaultConfig()
	automodDirector, err := automod.New(automodCfg, aiCfg, track, weather, sessions, sink, entry)
	if err != nil {
		entry.WithError(err).Fatal("automod: startup validation failed")
	}

	if aiCfg.Debug {
		if err := scripts.RegisterDebug(scriptProvider); err != nil {
			entry.WithError(err).Warn("failed to register debug overlay script")
		}
	}
	if automodCfg.EnableClientMessages {
		if err := scripts.RegisterAutoModeration(scriptProvider); err != nil {
			entry.WithError(err).Warn("failed to register auto-moderation overlay script")
		}
	}

	scheduler := runloop.NewScheduler(entry,
		runloop.Runner{
			Name:     "ai-director",
			Interval: aiCfg.BehaviorUpdateInterval,
			Fn: func(now time.Time) {
				director.Tick(now, now.UnixMilli(), cars)
				director.Overbooking(countActivePlayers(cars), aiSlots(cars))
			},
		},
		runloop.Runner{
			Name:     "obstacle-detection",
			Interval: 100 * time.Millisecond,
			Fn: func(now time.Time) {
				obstacles.Tick(cars)
			},
		},
		runloop.Runner{
			Name:     "auto-moderation",
			Interval: time.Second,
			Fn: func(now time.Time) {
				automodDirector.Tick(now, cars)
			},
		},
	)

	entry.Info("aidirectorsim: starting tick loops")
	scheduler.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	entry.Info("aidirectorsim: shutting down")
	scheduler.Stop()
}

func countActivePlayers(cars []*entrycar.EntryCar) int {
	n := 0
	for _, c := range cars {
		if !c.AiControlled() {
			n++
		}
	}
	return n
}

func aiSlots(cars []*entrycar.EntryCar) []*entrycar.EntryCar {
	var slots []*entrycar.EntryCar
	for _, c := range cars {
		if c.AiControlled() {
			slots = append(slots, c)
		}
	}
	return slots
}

// buildOvalTrack lays out a simple closed-loop spline, grounded on the
// teacher's loadTrackFromCSV (track.go) producing an ordered ring of
// centerline points, generalized here to an in-memory generator instead of
// a CSV reader since this demo has no on-disk track asset.
func buildOvalTrack(radius, pointCount int) *spline.Graph {
	points := make([]spline.Point, pointCount)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(pointCount)
		pos := geom.Vec3{
			X: float32(radius) * float32(math.Cos(angle)),
			Z: float32(radius) * float32(math.Sin(angle)),
		}
		next := (i + 1) % pointCount
		prev := (i - 1 + pointCount) % pointCount
		points[i] = spline.Point{
			Position: pos,
			NextID:   next,
			PrevID:   prev,
		}
	}
	// Forward needs every Position settled first, so it is a second pass.
	for i := range points {
		next := points[i].NextID
		d := points[next].Position.Sub(points[i].Position)
		points[i].Forward = d.Normalize()
	}
	return spline.NewGraph(points)
}

func buildEntryCars(n int) []*entrycar.EntryCar {
	cars := make([]*entrycar.EntryCar, n)
	for i := range cars {
		mode := entrycar.AiModeAuto
		if i == 0 {
			mode = entrycar.AiModeNone
		}
		car := entrycar.New(uint8(i), mode)
		if mode != entrycar.AiModeNone {
			for j := 0; j < 3; j++ {
				car.AiStates = append(car.AiStates, entrycar.NewAiState(uuid.New().String()))
			}
		}
		cars[i] = car
	}

	// Slot 0 is the one connected human in this demo; the rest stay under
	// AiModeAuto's default AI control from entrycar.New.
	cars[0].SetClient(fakeClient{})
	cars[0].LastActive = time.Now()
	cars[0].Position = geom.Vec3{X: 200}
	cars[0].Velocity = geom.Vec3{Z: 20}

	return cars
}
