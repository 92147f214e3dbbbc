package circuitbreaker

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type Settings struct {
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	OnStateChange       func(name string, state gobreaker.State)
}

func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             5 * time.Second,
		ConsecutiveFailures: 5,
	}
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: settings.MaxRequests,
			Interval:    settings.Interval,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
				if settings.OnStateChange != nil {
					settings.OnStateChange(name, to)
				}
			},
		}),
	}
}

// Execute runs fn unless the breaker is open, in which case it returns gobreaker.ErrOpenState.
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// StateValue maps a state to the gauge value exported in metrics.
func StateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
