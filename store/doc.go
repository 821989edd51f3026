// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store keeps device-local state: mirrored assessment scores and the
URIs of photos taken for each subsection.

KV is the storage capability. Memory keeps everything in process; SQLite
persists to one file:

	kv, err := store.OpenSQLite("~/.config/surveyctl/store.db")
	repo := store.NewRepository(kv)

Repository owns the key layout, each value a JSON object keyed by
subsection id:

	scores_{userId}_{sectionId}           current scores
	existing_scores_{userId}_{sectionId}  scores the server is known to hold
	images_{userId}_{sectionId}           local image URIs

Nothing here talks to the server. Clear removes a user's cache only.
*/
package store
