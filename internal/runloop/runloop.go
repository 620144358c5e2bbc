// Package runloop generalizes the teacher's single physicsLoop
// (server/physics.go: time.NewTicker + "for range ticker.C") into three
// independently-cadenced tick loops — the AI director, obstacle detection,
// and auto-moderation (§5) — each its own goroutine so a slow tick in one
// never delays another. Shutdown fan-in uses channerics.Merge the way
// tabular/reinforcement/learning.go fans in its agent workers, generalized
// from "merge data channels" to "merge done-signal channels".
package runloop

import (
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/sirupsen/logrus"
)

// Runner owns one periodic tick function. Fn receives the tick's wall-clock
// time; a panic in Fn is recovered and logged by the scheduler, so a single
// bad tick does not take the whole loop down (§7 TickError).
type Runner struct {
	Name     string
	Interval time.Duration
	Fn       func(now time.Time)
}

// Scheduler runs a fixed set of Runners concurrently and can stop all of
// them from one call to Stop, mirroring the server's single shutdown path
// rather than giving each loop its own cancellation handle to manage.
type Scheduler struct {
	runners []Runner
	log     *logrus.Entry
	done    chan struct{}
	stopped []<-chan struct{}
}

func NewScheduler(log *logrus.Entry, runners ...Runner) *Scheduler {
	return &Scheduler{
		runners: runners,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start launches every runner's ticker loop. Each loop recovers its own
// panics and logs them rather than propagating, the same "one car's
// physics never aborts the loop" contract the teacher's physicsLoop
// maintains implicitly by never panicking in the first place — these loops
// drive arbitrary AI/automod logic, so the recover is made explicit.
func (s *Scheduler) Start() {
	for _, r := range s.runners {
		r := r
		stopped := make(chan struct{})
		s.stopped = append(s.stopped, stopped)
		go func() {
			defer close(stopped)
			ticker := time.NewTicker(r.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-s.done:
					return
				case now := <-ticker.C:
					s.runTick(r, now)
				}
			}
		}()
	}
}

func (s *Scheduler) runTick(r Runner, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.WithField("loop", r.Name).Errorf("recovered panic in tick: %v", rec)
		}
	}()
	r.Fn(now)
}

// Stop signals every loop to exit and blocks until they have all finished
// their current tick, via channerics.Merge over each loop's own "I'm done"
// channel. Merge's own cancellation signal is a separate, never-closed
// channel — s.done is what tells the loops to stop, and passing it to
// Merge too would let Merge abandon the wait the instant it closes,
// before the loops have actually finished their last tick.
func (s *Scheduler) Stop() {
	close(s.done)
	neverCancel := make(chan struct{})
	for range channerics.Merge(neverCancel, s.stopped...) {
	}
}
