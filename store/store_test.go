// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvImplementations(t *testing.T) map[string]KV {
	t.Helper()

	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestKV(t *testing.T) {
	for name, kv := range kvImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "a_1", "one"))
			require.NoError(t, kv.Set(ctx, "a_1", "uno"))
			require.NoError(t, kv.Set(ctx, "a_12", "twelve"))
			require.NoError(t, kv.Set(ctx, "a%_x", "wild"))
			require.NoError(t, kv.Set(ctx, "b_1", "other"))

			v, ok, err := kv.Get(ctx, "a_1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "uno", v)

			require.NoError(t, kv.DeletePrefix(ctx, "a_1"))

			_, ok, _ = kv.Get(ctx, "a_1")
			assert.False(t, ok)
			_, ok, _ = kv.Get(ctx, "a_12")
			assert.False(t, ok, "a_12 shares the prefix")
			_, ok, _ = kv.Get(ctx, "a%_x")
			assert.True(t, ok, "wildcard characters must be literal")
			_, ok, _ = kv.Get(ctx, "b_1")
			assert.True(t, ok)
		})
	}
}

func TestSQLite_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "scores_1_1", `{"3":2}`))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get(ctx, "scores_1_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"3":2}`, v)
	assert.Equal(t, path, kv.Path())
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Len())
}

func TestRepository_Scores(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewRepository(kv)

	state, err := repo.Scores(ctx, 7, 1)
	require.NoError(t, err)
	assert.Empty(t, state.Current)
	assert.Empty(t, state.Existing)
	assert.NotNil(t, state.Current)

	want := ScoreState{
		Current:  map[int64]int{3: 2, 4: 1},
		Existing: map[int64]int{3: 2},
	}
	require.NoError(t, repo.PutScores(ctx, 7, 1, want))

	raw, ok, _ := kv.Get(ctx, "scores_7_1")
	require.True(t, ok)
	assert.JSONEq(t, `{"3":2,"4":1}`, raw)
	raw, ok, _ = kv.Get(ctx, "existing_scores_7_1")
	require.True(t, ok)
	assert.JSONEq(t, `{"3":2}`, raw)

	got, err := repo.Scores(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := repo.Scores(ctx, 7, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Current, "sections are scoped separately")
}

func TestRepository_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, "scores_1_1", "not json"))
	require.NoError(t, kv.Set(ctx, "images_1_1", "null"))

	repo := NewRepository(kv)
	_, err := repo.Scores(ctx, 1, 1)
	assert.Error(t, err)

	images, err := repo.Images(ctx, 1, 1)
	require.NoError(t, err)
	assert.NotNil(t, images)
}

func TestRepository_Images(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemory())

	require.NoError(t, repo.PutImages(ctx, 7, 1, map[int64]string{3: "file:///a.jpg", 4: "file:///b.jpg"}))
	require.NoError(t, repo.PutImages(ctx, 7, 1, map[int64]string{3: "file:///c.jpg"}))

	images, err := repo.Images(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{3: "file:///c.jpg"}, images, "the whole map is replaced")

	require.NoError(t, repo.PutImages(ctx, 7, 1, nil))
	images, err = repo.Images(ctx, 7, 1)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestRepository_Clear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewRepository(kv)

	state := ScoreState{Current: map[int64]int{1: 3}, Existing: map[int64]int{1: 3}}
	require.NoError(t, repo.PutScores(ctx, 1, 1, state))
	require.NoError(t, repo.PutScores(ctx, 1, 2, state))
	require.NoError(t, repo.PutImages(ctx, 1, 1, map[int64]string{1: "file:///x.jpg"}))
	require.NoError(t, repo.PutScores(ctx, 12, 1, state))

	require.NoError(t, repo.Clear(ctx, 1))

	got, err := repo.Scores(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Current)
	images, err := repo.Images(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, images)

	kept, err := repo.Scores(ctx, 12, 1)
	require.NoError(t, err)
	assert.Equal(t, state, kept, "user 12 must survive clearing user 1")
	assert.Equal(t, 2, kv.Len())
}

func TestScoreState_Clone(t *testing.T) {
	s := ScoreState{Current: map[int64]int{1: 1}}
	c := s.Clone()
	c.Current[1] = 3
	assert.Equal(t, 1, s.Current[1])
	assert.NotNil(t, c.Existing)
}
