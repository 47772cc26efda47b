// internal/schedule/scheduler.go
//
// Runs engine effects against a renderer after their delays.
//
// The puzzle engine only describes deferred work; this package owns the
// timers. Effects of one batch are dispatched in delay order (ties keep the
// order the engine emitted them in). Nothing is cancelled or retried.

package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/edgepuzzle/internal/puzzle"
)

// Renderer consumes effects; implementations must tolerate calls from
// timer goroutines.
type Renderer interface {
	Render(e puzzle.Effect)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(e puzzle.Effect)

func (f RendererFunc) Render(e puzzle.Effect) { f(e) }

// Clock defers f by d.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// RealClock uses time.AfterFunc.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// ImmediateClock runs f synchronously, ignoring d.
type ImmediateClock struct{}

func (ImmediateClock) AfterFunc(_ time.Duration, f func()) { f() }

// Scheduler dispatches effects to a Renderer through a Clock.
type Scheduler struct {
	clock    Clock
	renderer Renderer
	wg       sync.WaitGroup
}

// New builds a Scheduler. A nil clock means RealClock.
func New(clock Clock, r Renderer) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock, renderer: r}
}

// Schedule queues a batch of effects. Zero-delay effects are rendered
// before Schedule returns.
func (s *Scheduler) Schedule(effects []puzzle.Effect) {
	batch := append([]puzzle.Effect(nil), effects...)
	sort.SliceStable(batch, func(i, j int) bool { return batch[i].Delay < batch[j].Delay })

	for _, e := range batch {
		e := e
		if e.Delay <= 0 {
			s.renderer.Render(e)
			continue
		}
		s.wg.Add(1)
		s.clock.AfterFunc(e.Delay, func() {
			defer s.wg.Done()
			s.renderer.Render(e)
		})
	}
}

// Wait blocks until every scheduled effect has been rendered.
func (s *Scheduler) Wait() { s.wg.Wait() }

// LogRenderer writes each effect as a structured log line.
type LogRenderer struct {
	Logger zerolog.Logger
}

func (r LogRenderer) Render(e puzzle.Effect) {
	ev := r.Logger.Info().Str("effect", string(e.Kind))
	if e.PieceID != "" {
		ev = ev.Str("piece", e.PieceID)
	}
	if e.Delay > 0 {
		ev = ev.Dur("delay", e.Delay)
	}
	if e.Duration > 0 {
		ev = ev.Dur("duration", e.Duration)
	}
	ev.Msg("render")
}
