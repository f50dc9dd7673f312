package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestBreakerStartsClosed(t *testing.T) {
	b := New("test", Settings{})
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Do(succeed))
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Settings{TripAfter: 3, Cooldown: time.Hour})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(fail), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	// Open breaker rejects without calling fn.
	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New("test", Settings{TripAfter: 3})

	require.Error(t, b.Do(fail))
	require.Error(t, b.Do(fail))
	require.NoError(t, b.Do(succeed))
	require.Error(t, b.Do(fail))
	require.Error(t, b.Do(fail))

	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenRecovery(t *testing.T) {
	b := New("test", Settings{TripAfter: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Do(fail))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b := New("test", Settings{TripAfter: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Do(fail))
	time.Sleep(15 * time.Millisecond)

	require.ErrorIs(t, b.Do(fail), errBoom)
	assert.Equal(t, StateOpen, b.State())
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	b := New("test", Settings{TripAfter: 1, Cooldown: 10 * time.Millisecond, Probes: 1})

	require.Error(t, b.Do(fail))
	time.Sleep(15 * time.Millisecond)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(func() error {
			<-release
			return nil
		})
	}()

	// Wait for the probe to occupy the half-open slot.
	require.Eventually(t, func() bool {
		return b.Do(succeed) == ErrOpen
	}, time.Second, time.Millisecond)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, b.State())
}

func TestOnStateChange(t *testing.T) {
	var transitions []string
	b := New("ext", Settings{
		TripAfter: 1,
		Cooldown:  time.Hour,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})

	require.Error(t, b.Do(fail))
	assert.Equal(t, []string{"closed>open"}, transitions)
	assert.Equal(t, "ext", b.Name())
}
