// Package service holds helpers shared by the domain services in its subpackages.
package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}

func IsReferenced(err error) bool {
	return errors.Is(err, repository.ErrReferenced)
}

// Optional turns a repository not-found into a nil result with no error.
func Optional[T any](v *T, err error) (*T, error) {
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// RoundMoney rounds to whole cents, matching NUMERIC(18,2) storage.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Cents compares money values without float drift.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// TrimmedPtr trims s and returns nil for blank input.
func TrimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// UTCPtr converts an optional timestamp to UTC.
func UTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
