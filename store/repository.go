// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
)

// ScoreState is the locally mirrored score state of one section.
// Existing is what the server is known to hold; Current is what the screen
// shows. Both map subsection id to score value.
type ScoreState struct {
	Current  map[int64]int
	Existing map[int64]int
}

// Clone returns a deep copy
func (s ScoreState) Clone() ScoreState {
	return ScoreState{Current: cloneScores(s.Current), Existing: cloneScores(s.Existing)}
}

func cloneScores(m map[int64]int) map[int64]int {
	if m == nil {
		return map[int64]int{}
	}
	return maps.Clone(m)
}

// Repository stores score mirrors and image URIs under per user and section
// keys of a KV.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

func scoresKey(userID, sectionID int64) string {
	return fmt.Sprintf("scores_%d_%d", userID, sectionID)
}

func existingScoresKey(userID, sectionID int64) string {
	return fmt.Sprintf("existing_scores_%d_%d", userID, sectionID)
}

func imagesKey(userID, sectionID int64) string {
	return fmt.Sprintf("images_%d_%d", userID, sectionID)
}

func getJSON[T any](ctx context.Context, kv KV, key string, out *T) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b))
}

// Scores loads the mirrored state. Missing keys yield empty maps.
func (r *Repository) Scores(ctx context.Context, userID, sectionID int64) (ScoreState, error) {
	state := ScoreState{Current: map[int64]int{}, Existing: map[int64]int{}}
	if err := getJSON(ctx, r.kv, scoresKey(userID, sectionID), &state.Current); err != nil {
		return state, err
	}
	if err := getJSON(ctx, r.kv, existingScoresKey(userID, sectionID), &state.Existing); err != nil {
		return state, err
	}
	// A stored "null" decodes to a nil map
	if state.Current == nil {
		state.Current = map[int64]int{}
	}
	if state.Existing == nil {
		state.Existing = map[int64]int{}
	}
	return state, nil
}

// PutScores writes both mappings. The two writes are independent; a failure
// on the second leaves the first in place.
func (r *Repository) PutScores(ctx context.Context, userID, sectionID int64, state ScoreState) error {
	if err := setJSON(ctx, r.kv, scoresKey(userID, sectionID), cloneScores(state.Current)); err != nil {
		return err
	}
	return setJSON(ctx, r.kv, existingScoresKey(userID, sectionID), cloneScores(state.Existing))
}

// Images returns subsection id to local image URI
func (r *Repository) Images(ctx context.Context, userID, sectionID int64) (map[int64]string, error) {
	images := map[int64]string{}
	if err := getJSON(ctx, r.kv, imagesKey(userID, sectionID), &images); err != nil {
		return map[int64]string{}, err
	}
	if images == nil {
		images = map[int64]string{}
	}
	return images, nil
}

// PutImages replaces the cached images of a section with images
func (r *Repository) PutImages(ctx context.Context, userID, sectionID int64, images map[int64]string) error {
	if images == nil {
		images = map[int64]string{}
	}
	return setJSON(ctx, r.kv, imagesKey(userID, sectionID), images)
}

// Clear drops every cached score and image of the user. The server is not
// contacted.
func (r *Repository) Clear(ctx context.Context, userID int64) error {
	for _, prefix := range []string{
		fmt.Sprintf("scores_%d_", userID),
		fmt.Sprintf("existing_scores_%d_", userID),
		fmt.Sprintf("images_%d_", userID),
	} {
		if err := r.kv.DeletePrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}
