/*

The two fan-out policies used by the aggregation components, named so tests
can assert on each independently.

SettleAll: every task runs to completion or failure; nothing is cancelled
because a sibling failed, and outcomes come back in registration order.

BestEffortEach: like SettleAll, but per-task failures are swallowed into an
empty contribution and only logged.

*/

package source

import (
	"context"
	"sync"

	"github.com/teckmodel/aptai/internal/logger"
)

// Task produces one source's contribution to a fan-out.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is the settled result of one task.
type Outcome[T any] struct {
	Source string
	Value  T
	Err    error
}

// SettleAll runs all tasks concurrently and waits for every one of them.
// The returned slice is indexed by registration order, not completion
// order, so merges over it are deterministic. names and tasks must have
// equal length.
func SettleAll[T any](ctx context.Context, names []string, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))

	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := tasks[i](ctx)
			outcomes[i] = Outcome[T]{Source: names[i], Value: value, Err: err}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// BestEffortEach runs all slice-producing tasks concurrently and
// concatenates the successful contributions in registration order. A failed
// source contributes nothing; its error is logged and dropped.
func BestEffortEach[T any](ctx context.Context, names []string, tasks []Task[[]T]) []T {
	log := logger.GetForComponent("source_fanout")

	outcomes := SettleAll(ctx, names, tasks)

	var merged []T
	for _, o := range outcomes {
		if o.Err != nil {
			log.Warn().Err(o.Err).Str("source", o.Source).Msg("Source contributed nothing")
			continue
		}
		merged = append(merged, o.Value...)
	}
	return merged
}
