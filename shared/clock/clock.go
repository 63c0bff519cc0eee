package clock

import (
	"sync"
	"tably/shared/timezone"
	"time"
)

// Clock supplies the current time to lifecycle services. Window checks and
// code expiry are evaluated against an injected Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

type appClock struct{}

func (appClock) Now() time.Time {
	return timezone.Now()
}

// New returns the production clock, backed by the application timezone.
func New() Clock {
	return appClock{}
}

// Fake is a settable clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = now
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}
