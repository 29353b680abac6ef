package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(3, 15*time.Minute, 10*time.Minute)
	l.now = func() time.Time { return now }

	assert.Equal(t, 2, l.RecordFailure("a"))
	assert.Equal(t, 1, l.RecordFailure("a"))
	assert.Zero(t, l.Check("a"))
	assert.Equal(t, 0, l.RecordFailure("a"))
	assert.Equal(t, 10*time.Minute, l.Check("a"))
	assert.Zero(t, l.Check("b"))

	now = now.Add(10 * time.Minute)
	assert.Zero(t, l.Check("a"))
	// A served lockout starts a fresh window
	assert.Equal(t, 2, l.RecordFailure("a"))
}

func TestLimiter_WindowExpires(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute, time.Hour)
	l.now = func() time.Time { return now }

	l.RecordFailure("a")
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.RecordFailure("a"))
	assert.Zero(t, l.Check("a"))
}

func TestLimiter_Reset(t *testing.T) {
	l := NewLimiter(1, time.Minute, time.Minute)
	l.RecordFailure("a")
	assert.NotZero(t, l.Check("a"))

	l.Reset("a")
	assert.Zero(t, l.Check("a"))
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0, time.Minute, time.Minute)
	assert.Nil(t, l)
	assert.Zero(t, l.RecordFailure("a"))
	assert.Zero(t, l.Check("a"))
	l.Reset("a")
}

func TestLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute, time.Hour)
	l.now = func() time.Time { return now }

	for i := range 100 {
		l.RecordFailure(fmt.Sprintf("198.51.100.%d", i))
	}
	l.RecordFailure("locked")
	l.RecordFailure("locked")
	assert.Equal(t, 101, l.Len())

	assert.Zero(t, l.Sweep(now))

	// Windows have passed for the one-off failures, the lockout still runs
	assert.Equal(t, 100, l.Sweep(now.Add(2*time.Minute)))
	assert.Equal(t, 1, l.Len())
	now = now.Add(2 * time.Minute)
	assert.NotZero(t, l.Check("locked"))

	assert.Equal(t, 1, l.Sweep(now.Add(time.Hour)))
	assert.Zero(t, l.Len())
}

func TestLimiter_Run(t *testing.T) {
	l := NewLimiter(1, time.Millisecond, time.Millisecond)
	l.RecordFailure("a")
	l.RecordFailure("b")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	var disabled *Limiter
	disabled.Run(ctx, time.Millisecond)
	assert.Zero(t, disabled.Sweep(time.Now()))
}
