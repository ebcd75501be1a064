// Package clock abstracts wall-clock time and deferred callbacks so that the
// debouncer and the session lifecycle can be driven deterministically in
// tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable deferred action.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer has
	// already fired or been stopped.
	Stop() bool
}

// Clock provides the current time and schedules deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake is a manually advanced Clock. Callbacks run synchronously on the
// goroutine that calls Add or Set, in deadline order.
type Fake struct {
	now    time.Time
	timers []*fakeTimer
	mu     sync.Mutex
	seq    int
}

type fakeTimer struct {
	at    time.Time
	fn    func()
	clock *Fake
	id    int
	done  bool
}

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++

	t := &fakeTimer{
		at:    f.now.Add(d),
		fn:    fn,
		clock: f,
		id:    f.seq,
	}

	f.timers = append(f.timers, t)

	return t
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.timers)
}

// Add advances the clock by d, firing every timer that falls due.
func (f *Fake) Add(d time.Duration) {
	f.Set(f.Now().Add(d))
}

// Set moves the clock to t, firing every timer that falls due on the way.
func (f *Fake) Set(t time.Time) {
	for {
		f.mu.Lock()

		sort.SliceStable(f.timers, func(i, j int) bool {
			if f.timers[i].at.Equal(f.timers[j].at) {
				return f.timers[i].id < f.timers[j].id
			}

			return f.timers[i].at.Before(f.timers[j].at)
		})

		if len(f.timers) == 0 || f.timers[0].at.After(t) {
			if t.After(f.now) {
				f.now = t
			}

			f.mu.Unlock()

			return
		}

		next := f.timers[0]
		f.timers = f.timers[1:]
		next.done = true

		if next.at.After(f.now) {
			f.now = next.at
		}

		f.mu.Unlock()

		next.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	f := t.clock

	f.mu.Lock()
	defer f.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true

	for i := range f.timers {
		if f.timers[i] == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			break
		}
	}

	return true
}
