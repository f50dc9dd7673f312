package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker rejects a call without running it.
var ErrOpen = errors.New("breaker open")

// State represents the breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the breaker. Zero values select defaults.
type Settings struct {
	// TripAfter is the number of consecutive failures that opens the
	// breaker.
	TripAfter uint32
	// Cooldown is how long the breaker stays open before allowing a
	// probe.
	Cooldown time.Duration
	// Probes is how many calls may run concurrently in half-open state.
	Probes uint32
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
}

// Breaker stops calling a failing dependency until it has had time to
// recover. After TripAfter consecutive failures every call fails fast
// with ErrOpen; once Cooldown passes a limited number of probes go
// through, and a successful probe closes the breaker again.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	failures   uint32
	probes     uint32
	generation uint64
	openedAt   time.Time
}

// New creates a breaker with the given settings.
func New(name string, settings Settings) *Breaker {
	if settings.TripAfter == 0 {
		settings.TripAfter = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Do runs fn if the breaker allows it. When the breaker is open, Do
// returns ErrOpen without calling fn.
func (b *Breaker) Do(fn func() error) error {
	generation, err := b.before()
	if err != nil {
		return err
	}
	err = fn()
	b.after(generation, err == nil)
	return err
}

func (b *Breaker) before() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return b.generation, ErrOpen
	case StateHalfOpen:
		if b.probes >= b.settings.Probes {
			return b.generation, ErrOpen
		}
		b.probes++
	}
	return b.generation, nil
}

func (b *Breaker) after(generation uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)

	// The breaker moved on while this call ran; its outcome no longer
	// says anything about the current state.
	if generation != b.generation {
		return
	}

	switch {
	case success:
		b.failures = 0
		if state == StateHalfOpen {
			b.setState(StateClosed, now)
		}
	case state == StateHalfOpen:
		b.setState(StateOpen, now)
	default:
		b.failures++
		if b.failures >= b.settings.TripAfter {
			b.setState(StateOpen, now)
		}
	}
}

// currentState must be called with the lock held.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen, now)
	}
	return b.state
}

// setState must be called with the lock held.
func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state
	b.generation++
	b.failures = 0
	b.probes = 0
	if state == StateOpen {
		b.openedAt = now
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
