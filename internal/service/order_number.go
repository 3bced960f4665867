package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const orderSuffixSpace = 1000

// OrderNumberGenerator выдаёт номера вида ORD-<6 цифр мс>-<3 цифры>.
// Суффикс начинается со случайного смещения и идёт по кругу, занятые
// номера пропускаются.
type OrderNumberGenerator struct {
	mu     sync.Mutex
	cursor int
}

func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{cursor: rand.IntN(orderSuffixSpace)}
}

// NewOrderNumberGeneratorAt starts the suffix cursor at a fixed position.
func NewOrderNumberGeneratorAt(cursor int) *OrderNumberGenerator {
	return &OrderNumberGenerator{cursor: ((cursor % orderSuffixSpace) + orderSuffixSpace) % orderSuffixSpace}
}

const orderMillisSpace = 1_000_000

// FormatOrderNumber keeps the last six digits of ms; clocks before 1970 wrap
// into the same 000000..999999 window.
func FormatOrderNumber(ms int64, suffix int) string {
	return fmt.Sprintf("ORD-%06d-%03d", ((ms%orderMillisSpace)+orderMillisSpace)%orderMillisSpace, suffix)
}

// Next returns the first candidate for which taken reports false. When every
// suffix of a millisecond is in use the millisecond part moves forward.
func (g *OrderNumberGenerator) Next(ctx context.Context, now time.Time, taken func(ctx context.Context, number string) (bool, error)) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	// the 6-digit window wraps after 10^6 ms, so this bound covers every number
	for step := 0; step < orderMillisSpace; step++ {
		for i := 0; i < orderSuffixSpace; i++ {
			suffix := g.cursor
			g.cursor = (g.cursor + 1) % orderSuffixSpace

			candidate := FormatOrderNumber(ms, suffix)
			used, err := taken(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !used {
				return candidate, nil
			}
		}
		ms++
	}
	return "", fmt.Errorf("order numbers exhausted")
}
