package sim

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/unit"
)

// TickEvents is everything that happened during one tick.
type TickEvents struct {
	Tick   int
	Events []unit.Event
	// Finished is set once the player is gone or every mob has been removed.
	Finished bool
}

// Scheduler advances a Region one tick at a time.
type Scheduler struct {
	region *Region
	logger *zap.Logger
}

// NewScheduler creates a Scheduler for region.
func NewScheduler(region *Region) *Scheduler {
	return &Scheduler{region: region, logger: region.logger}
}

// Region returns the driven region.
func (s *Scheduler) Region() *Region { return s.region }

// Tick runs one simulation step in four ordered phases over the units in
// registration order:
//
//  1. prayer drain
//  2. movement
//  3. delayed actions, then inbound projectiles, then attacks
//  4. death detection and removal
func (s *Scheduler) Tick() TickEvents {
	r := s.region
	r.tick++
	r.events = nil
	units := r.Units()

	for _, u := range units {
		u.DrainPrayer(r)
	}

	for _, u := range units {
		if !u.Removed() {
			u.MovementStep(r)
		}
	}

	r.runPending()
	for _, u := range units {
		if !u.Removed() {
			u.ProcessIncomingAttacks(r)
		}
	}
	for _, u := range units {
		if !u.Removed() {
			u.AttackStep(r)
		}
	}

	for _, u := range units {
		if u.Removed() {
			continue
		}
		if u.DetectDeath(r) {
			r.RemoveUnit(u)
			r.Record(unit.Event{Type: unit.EventRemoved, ActorID: u.ID, Actor: u.Name})
		}
	}

	out := TickEvents{Tick: r.tick, Events: r.events, Finished: s.Finished()}
	s.logger.Debug("tick",
		zap.Int("tick", out.Tick),
		zap.Int("units", len(r.units)),
		zap.Int("events", len(out.Events)),
	)
	return out
}

// Finished reports whether the encounter is over.
func (s *Scheduler) Finished() bool {
	r := s.region
	if r.player == nil || r.player.IsDead() {
		return true
	}
	return len(r.Mobs()) == 0
}

// Run ticks until the encounter finishes or maxTicks have run. A maxTicks of
// zero means no limit. It returns the number of ticks run.
func (s *Scheduler) Run(maxTicks int, onTick func(TickEvents)) int {
	n := 0
	for maxTicks == 0 || n < maxTicks {
		ev := s.Tick()
		n++
		if onTick != nil {
			onTick(ev)
		}
		if ev.Finished {
			break
		}
	}
	return n
}
