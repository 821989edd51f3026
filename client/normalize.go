// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/dairy-survey/models"
)

// ErrUnexpectedShape is returned when a score list is neither a JSON array
// nor an object wrapping one
var ErrUnexpectedShape = errors.New("unexpected score list shape")

// Field paths tried in order when reading a score record. Each path is a
// dotted walk through nested objects.
var (
	subsectionIDPaths = []string{"subsectionId", "subsection_id", "subsection.id"}
	scoreValuePaths   = []string{"scoreCategory.scoreValue", "scoreValue", "score_value", "score"}
	userIDPaths       = []string{"userId", "user_id", "user.id"}
	sectionIDPaths    = []string{"sectionId", "section_id", "subsection.section.id", "subsection.sectionId"}
	updatedAtPaths    = []string{"updatedAt", "updated_at"}
)

// ParseScoreRecords normalizes a score list into models.ScoreRecord.
//
// Accepted list shapes: a JSON array, or an object whose "data" or "scores"
// member is an array. Within each element:
//
//	subsection id: subsectionId | subsection_id | subsection.id
//	score value:   scoreCategory.scoreValue | scoreValue | score_value | score
//	user id:       userId | user_id | user.id
//	section id:    sectionId | section_id | subsection.section.id | subsection.sectionId
//
// Numbers may arrive as JSON numbers or numeric strings. Elements without a
// subsection id or with a score outside 1..3 are dropped and logged at debug
// level. An empty body yields an empty list.
func ParseScoreRecords(raw []byte, log *slog.Logger) ([]models.ScoreRecord, error) {
	if log == nil {
		log = slog.Default()
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.ScoreRecord{}, nil
	}

	items, err := scoreItems(raw)
	if err != nil {
		return nil, err
	}

	records := make([]models.ScoreRecord, 0, len(items))
	for i, item := range items {
		rec, reason := normalizeScore(item)
		if reason != "" {
			log.Debug("dropping score record", "index", i, "reason", reason)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseScoreRecord normalizes a single record, as returned by a submit
func parseScoreRecord(raw []byte) (models.ScoreRecord, bool) {
	var item map[string]any
	if err := decodeNumbers(raw, &item); err != nil || item == nil {
		return models.ScoreRecord{}, false
	}
	rec, reason := normalizeScore(item)
	return rec, reason == ""
}

func scoreItems(raw []byte) ([]map[string]any, error) {
	var top any
	if err := decodeNumbers(raw, &top); err != nil {
		return nil, fmt.Errorf("failed to decode score list: %w", err)
	}

	var list []any
	switch v := top.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range []string{"data", "scores"} {
			if l, ok := v[key].([]any); ok {
				list = l
				break
			}
		}
		if list == nil {
			return nil, ErrUnexpectedShape
		}
	default:
		return nil, ErrUnexpectedShape
	}

	items := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			items = append(items, m)
		} else {
			items = append(items, nil)
		}
	}
	return items, nil
}

// normalizeScore returns the record, or a non-empty reason it was rejected
func normalizeScore(item map[string]any) (models.ScoreRecord, string) {
	var rec models.ScoreRecord
	if item == nil {
		return rec, "not an object"
	}

	subsectionID, ok := firstInt(item, subsectionIDPaths)
	if !ok || subsectionID <= 0 {
		return rec, "missing subsection id"
	}
	value, ok := firstInt(item, scoreValuePaths)
	if !ok || !models.ValidScore(int(value)) {
		return rec, "score value outside 1..3"
	}

	rec.SubsectionID = subsectionID
	rec.ScoreValue = int(value)
	rec.ID, _ = firstInt(item, []string{"id"})
	rec.UserID, _ = firstInt(item, userIDPaths)
	rec.SectionID, _ = firstInt(item, sectionIDPaths)
	rec.UpdatedAt = firstTime(item, updatedAtPaths)
	return rec, ""
}

func decodeNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func lookup(item map[string]any, path string) (any, bool) {
	var cur any = item
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func firstInt(item map[string]any, paths []string) (int64, bool) {
	for _, p := range paths {
		v, ok := lookup(item, p)
		if !ok {
			continue
		}
		if n, ok := toInt64(v); ok {
			return n, true
		}
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func firstTime(item map[string]any, paths []string) time.Time {
	for _, p := range paths {
		v, ok := lookup(item, p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
