package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwalitptl/hospital-api/pkg/clock"
)

type NumberLister interface {
	ListNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// NumberGenerator derives invoice numbers of the form INV-YYYYMM-NNNNNN with a
// sequence that restarts each month. It does not reserve numbers; the unique
// index on invoice_number rejects a concurrent duplicate.
type NumberGenerator struct {
	clock  clock.Clock
	lister NumberLister
}

func NewNumberGenerator(clk clock.Clock, lister NumberLister) *NumberGenerator {
	return &NumberGenerator{clock: clk, lister: lister}
}

func Prefix(year int, month int) string {
	return fmt.Sprintf("INV-%d%02d-", year, month)
}

func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	now := g.clock.Now()
	prefix := Prefix(now.Year(), int(now.Month()))

	numbers, err := g.lister.ListNumbersWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read invoice numbers: %w", err)
	}

	highest := 0
	for _, n := range numbers {
		suffix, ok := strings.CutPrefix(n, prefix)
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil || seq < 0 {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}

	return fmt.Sprintf("%s%06d", prefix, highest+1), nil
}
