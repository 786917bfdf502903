package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAllPreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	errB := errors.New("b failed")

	names := []string{"a", "b", "c"}
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			time.Sleep(30 * time.Millisecond) // slowest finishes first in the output anyway
			return 1, nil
		},
		func(ctx context.Context) (int, error) {
			return 0, errB
		},
		func(ctx context.Context) (int, error) {
			return 3, nil
		},
	}

	outcomes := SettleAll(context.Background(), names, tasks)

	require.Len(t, outcomes, 3)
	assert.Equal(t, "a", outcomes[0].Source)
	assert.Equal(t, 1, outcomes[0].Value)
	require.NoError(t, outcomes[0].Err)

	assert.Equal(t, "b", outcomes[1].Source)
	require.ErrorIs(t, outcomes[1].Err, errB)

	assert.Equal(t, "c", outcomes[2].Source)
	assert.Equal(t, 3, outcomes[2].Value)
}

func TestSettleAllSiblingFailureDoesNotCancel(t *testing.T) {
	t.Parallel()

	names := []string{"failing", "slow"}
	tasks := []Task[string]{
		func(ctx context.Context) (string, error) {
			return "", errors.New("immediate failure")
		},
		func(ctx context.Context) (string, error) {
			select {
			case <-time.After(50 * time.Millisecond):
				return "survived", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}

	outcomes := SettleAll(context.Background(), names, tasks)

	require.Error(t, outcomes[0].Err)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, "survived", outcomes[1].Value)
}

func TestBestEffortEachConcatenatesSurvivors(t *testing.T) {
	t.Parallel()

	names := []string{"first", "broken", "second"}
	tasks := []Task[[]string]{
		func(ctx context.Context) ([]string, error) {
			return []string{"a1", "a2"}, nil
		},
		func(ctx context.Context) ([]string, error) {
			return nil, errors.New("endpoint down")
		},
		func(ctx context.Context) ([]string, error) {
			return []string{"c1"}, nil
		},
	}

	merged := BestEffortEach(context.Background(), names, tasks)
	assert.Equal(t, []string{"a1", "a2", "c1"}, merged)
}

func TestBestEffortEachAllFailingYieldsEmpty(t *testing.T) {
	t.Parallel()

	names := []string{"x", "y"}
	fail := func(ctx context.Context) ([]int, error) {
		return nil, errors.New("down")
	}

	merged := BestEffortEach(context.Background(), names, []Task[[]int]{fail, fail})
	assert.Empty(t, merged)
}
