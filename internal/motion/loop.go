package motion

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// FrameClock delivers display frames. Timestamps must strictly increase.
type FrameClock interface {
	NextFrame(ctx context.Context) (int64, error)
}

// TickerClock is a FrameClock backed by a time.Ticker.
type TickerClock struct {
	ticker *time.Ticker
	start  time.Time
	last   int64
}

// NewTickerClock returns a clock that fires every interval.
func NewTickerClock(interval time.Duration) *TickerClock {
	return &TickerClock{ticker: time.NewTicker(interval), start: time.Now()}
}

// NextFrame waits for the next tick and returns nanoseconds since the clock started.
func (c *TickerClock) NextFrame(ctx context.Context) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-c.ticker.C:
		n := t.Sub(c.start).Nanoseconds()
		if n <= c.last {
			n = c.last + 1
		}
		c.last = n
		return n, nil
	}
}

// Stop releases the ticker.
func (c *TickerClock) Stop() { c.ticker.Stop() }

// Loop ticks a set of motion values once per frame while any of them has
// work, and sleeps otherwise. State shared with the values should only be
// changed from inside Post callbacks, which run on the loop goroutine.
type Loop struct {
	clock  FrameClock
	values []*MotionValue

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	running atomic.Bool

	// OnFrame, when set, runs after every frame's ticks.
	OnFrame func(frameNanos int64)
}

// NewLoop returns a loop over values. Sources of derived values are added
// automatically and always tick before the values derived from them.
func NewLoop(clock FrameClock, values ...*MotionValue) *Loop {
	l := &Loop{clock: clock, wake: make(chan struct{}, 1)}
	for _, v := range values {
		l.add(v)
	}
	return l
}

func (l *Loop) add(v *MotionValue) {
	if v == nil || slices.Contains(l.values, v) {
		return
	}
	if v.source != nil {
		l.add(v.source)
	}
	l.values = append(l.values, v)
}

// Values returns the motion values in tick order.
func (l *Loop) Values() []*MotionValue {
	return slices.Clone(l.values)
}

// Post queues fn to run on the loop goroutine before the next frame, waking
// the loop if it is idle. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	l.Wake()
}

// Wake makes an idle loop re-check its values.
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the values until continueWhile returns false, which is checked
// once per frame, or ctx is done. Spring state is left as last computed.
//
// An idle loop has no frames, so continueWhile is not polled while every
// value is at rest. Callers that flip it from outside must Wake the loop, or
// flip it inside Post.
func (l *Loop) Run(ctx context.Context, continueWhile func() bool) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for i, v := range l.values {
		if !v.running.CompareAndSwap(false, true) {
			for _, acquired := range l.values[:i] {
				acquired.running.Store(false)
			}
			return ErrAlreadyRunning
		}
	}
	defer func() {
		for _, v := range l.values {
			v.running.Store(false)
		}
	}()

	for {
		l.runPending()
		if continueWhile != nil && !continueWhile() {
			return nil
		}
		if !l.needsTick() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
				continue
			}
		}

		frame, err := l.clock.NextFrame(ctx)
		if err != nil {
			return err
		}
		l.runPending()
		for _, v := range l.values {
			if _, err := v.Tick(frame); err != nil {
				return err
			}
		}
		if l.OnFrame != nil {
			l.OnFrame(frame)
		}
	}
}

// KeepRunning drives a single value; see Loop.Run.
func (mv *MotionValue) KeepRunning(ctx context.Context, clock FrameClock, continueWhile func() bool) error {
	return NewLoop(clock, mv).Run(ctx, continueWhile)
}

// IsRunning reports whether a loop is currently driving the value.
func (mv *MotionValue) IsRunning() bool { return mv.running.Load() }

func (l *Loop) needsTick() bool {
	return slices.ContainsFunc(l.values, (*MotionValue).NeedsTick)
}

func (l *Loop) runPending() {
	l.mu.Lock()
	fns := l.pending
	l.pending = nil
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
