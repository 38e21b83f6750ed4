package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestListRunsOrderedByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of order; listing is by id (UUIDv7 ids sort by time).
	for _, id := range []string{"run-3", "run-1", "run-2"} {
		_, err := s.WriteRun(ctx, sampleRun(id))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, "run-3", runs[2].ID)
	assert.Equal(t, "swap_pv", runs[0].Model)
	assert.Equal(t, 2, runs[0].Results)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSensitivitiesForVariable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, sampleRun("run-1"))
	require.NoError(t, err)

	svs, err := s.SensitivitiesForVariable(ctx, "x")
	require.NoError(t, err)
	require.Len(t, svs, 2)

	// Ordered by seq within the run: pv before delta.
	assert.Equal(t, "pv", svs[0].Output)
	assert.Equal(t, 2.5, svs[0].Gradient)
	assert.Equal(t, 0, svs[0].Index)
	assert.Equal(t, "delta", svs[1].Output)
	assert.Equal(t, 1.0, svs[1].Gradient)
}

func TestSensitivitiesForUnknownVariable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, sampleRun("run-1"))
	require.NoError(t, err)

	svs, err := s.SensitivitiesForVariable(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, svs)
}

func TestHasRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.HasRun(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.WriteRun(ctx, sampleRun("run-1"))
	require.NoError(t, err)

	ok, err = s.HasRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
