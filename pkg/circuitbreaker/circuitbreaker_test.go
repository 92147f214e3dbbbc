package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var states []gobreaker.State
	cb := NewCircuitBreaker(Settings{
		Name:                "test",
		MaxRequests:         1,
		Timeout:             time.Minute,
		ConsecutiveFailures: 2,
		OnStateChange: func(_ string, s gobreaker.State) {
			states = append(states, s)
		},
	})

	boom := errors.New("boom")
	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, states)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", Timeout: time.Minute, ConsecutiveFailures: 2})
	boom := errors.New("boom")

	_ = cb.Execute(func() error { return boom })
	assert.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return boom })

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestStateValue(t *testing.T) {
	assert.Equal(t, 0.0, StateValue(gobreaker.StateClosed))
	assert.Equal(t, 1.0, StateValue(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, StateValue(gobreaker.StateOpen))
}
