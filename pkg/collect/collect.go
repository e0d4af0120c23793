// Package collect implements the scroll-driven collection loop shared
// by every listing operation. It is browser-free: the rendered page is
// reached only through injected extract and scroll capabilities, which
// keeps the dedup and budget logic testable against synthetic batches.
package collect

import (
	"context"
	"fmt"

	"github.com/linkout/linkout/internal/logger"
)

// MaxAttempts caps the number of extract/scroll cycles regardless of
// how many items were requested.
const MaxAttempts = 10

// Keyed is implemented by records that carry a stable identity. Lazy
// rendering re-emits the same record across scroll steps; the key is
// what makes collection at-most-once.
type Keyed interface {
	DedupKey() string
}

// ExtractFunc returns the batch of candidate records currently
// rendered on the page. Implementations skip malformed candidates
// item-wise rather than failing the batch.
type ExtractFunc[T Keyed] func(ctx context.Context) ([]T, error)

// ScrollFunc advances the page by one step and waits for lazy content
// to settle.
type ScrollFunc func(ctx context.Context) error

// Collect drives extract/scroll cycles until target records have been
// seen or the attempt budget runs out. Results preserve first-seen
// order, contain each key at most once, and are truncated to target.
// Exhausting the budget is not an error: the target is a ceiling, not
// a guarantee.
func Collect[T Keyed](ctx context.Context, extract ExtractFunc[T], scroll ScrollFunc, target int) ([]T, error) {
	if target <= 0 {
		return nil, nil
	}

	attempts := target + 2
	if attempts > MaxAttempts {
		attempts = MaxAttempts
	}

	seen := make(map[string]struct{})
	var items []T

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return truncate(items, target), err
		}

		batch, err := extract(ctx)
		if err != nil {
			return truncate(items, target), fmt.Errorf("extract failed on attempt %d: %w", attempt+1, err)
		}

		added := 0
		for _, item := range batch {
			key := item.DedupKey()
			if key == "" {
				// No identity means no safe dedup; drop it.
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, item)
			added++
		}

		logger.Debug("collect cycle",
			"attempt", attempt+1,
			"batch", len(batch),
			"new", added,
			"total", len(items),
			"target", target)

		if len(items) >= target {
			break
		}

		// Skip the trailing scroll when the budget is spent.
		if attempt == attempts-1 {
			break
		}

		if err := scroll(ctx); err != nil {
			return truncate(items, target), fmt.Errorf("scroll failed on attempt %d: %w", attempt+1, err)
		}
	}

	if len(items) < target {
		logger.Debug("collect budget exhausted", "collected", len(items), "target", target)
	}

	return truncate(items, target), nil
}

func truncate[T any](items []T, target int) []T {
	if len(items) > target {
		return items[:target]
	}
	return items
}
