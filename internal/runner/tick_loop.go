// Package runner drives a simulation scheduler from a host loop.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/sim"
)

// Result is how a run ended.
type Result struct {
	// Ticks is the number of ticks executed.
	Ticks int
	// Err is the context error when the run was cancelled, else nil.
	Err error
}

// TickLoop advances a Scheduler either at a fixed wall-clock cadence or, in
// fast-forward mode, back to back.
//
// Invariant: the scheduler is only touched from the loop goroutine.
type TickLoop struct {
	sched    *sim.Scheduler
	interval time.Duration
	logger   *zap.Logger

	// MaxTicks stops the loop after this many ticks. 0 means no limit.
	MaxTicks int
	// Realtime paces ticks at the interval; otherwise they run back to back.
	Realtime bool
	// OnTick, when set, receives every tick's events on the loop goroutine.
	OnTick func(sim.TickEvents)
}

// NewTickLoop returns a loop ticking sched every interval.
//
// Precondition: sched must be non-nil and interval must be > 0.
func NewTickLoop(sched *sim.Scheduler, interval time.Duration, logger *zap.Logger) *TickLoop {
	if sched == nil {
		panic("runner.NewTickLoop: sched must not be nil")
	}
	if interval <= 0 {
		panic("runner.NewTickLoop: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TickLoop{sched: sched, interval: interval, logger: logger}
}

// Start runs the loop in its own goroutine and returns a channel that receives
// exactly one Result when it stops.
func (l *TickLoop) Start(ctx context.Context) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		done <- l.Run(ctx)
		close(done)
	}()
	return done
}

// Run ticks until the encounter finishes, MaxTicks is reached or ctx is
// cancelled.
//
// Postcondition: Result.Err is non-nil only when ctx ended the run.
func (l *TickLoop) Run(ctx context.Context) Result {
	start := time.Now()
	var ticker *time.Ticker
	if l.Realtime {
		ticker = time.NewTicker(l.interval)
		defer ticker.Stop()
	}

	ticks := 0
	for !l.sched.Finished() && (l.MaxTicks == 0 || ticks < l.MaxTicks) {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return l.stopped(ticks, start, ctx.Err())
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return l.stopped(ticks, start, err)
		}

		ev := l.sched.Tick()
		ticks++
		if l.OnTick != nil {
			l.OnTick(ev)
		}
	}
	return l.stopped(ticks, start, nil)
}

func (l *TickLoop) stopped(ticks int, start time.Time, err error) Result {
	l.logger.Info("tick loop stopped",
		zap.Int("ticks", ticks),
		zap.Bool("finished", l.sched.Finished()),
		zap.Duration("elapsed", time.Since(start)),
		zap.NamedError("cause", err),
	)
	return Result{Ticks: ticks, Err: err}
}
