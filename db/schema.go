// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// dbType is "sqlite" or "postgres"; only the auto-increment key differs.
func CreateSchema(db *sql.DB, dbType string) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{serial}}", serial))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id {{serial}},
    registration_id TEXT NOT NULL UNIQUE,
    first_name TEXT NOT NULL,
    surname TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    dob TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT '',
    district TEXT NOT NULL DEFAULT '',
    block TEXT NOT NULL DEFAULT '',
    village TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Herd records, one per species per user
CREATE TABLE IF NOT EXISTS herd_record (
    id {{serial}},
    species TEXT NOT NULL CHECK (species IN ('cows', 'buffaloes')),
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    total INTEGER NOT NULL DEFAULT 0,
    milking INTEGER NOT NULL DEFAULT 0,
    dry INTEGER NOT NULL DEFAULT 0,
    calves_heifers INTEGER NOT NULL DEFAULT 0,
    breeds TEXT NOT NULL DEFAULT '{}',
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (species, user_id)
);

CREATE INDEX IF NOT EXISTS idx_herd_record_user_id ON herd_record(user_id);

-- Assessment catalog
CREATE TABLE IF NOT EXISTS section (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subsection (
    id INTEGER PRIMARY KEY,
    section_id INTEGER NOT NULL REFERENCES section(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_subsection_section_id ON subsection(section_id);

CREATE TABLE IF NOT EXISTS score_description (
    subsection_id INTEGER NOT NULL REFERENCES subsection(id) ON DELETE CASCADE,
    score_value INTEGER NOT NULL CHECK (score_value BETWEEN 1 AND 3),
    description TEXT NOT NULL,
    PRIMARY KEY (subsection_id, score_value)
);

-- Scores, one per user per subsection
CREATE TABLE IF NOT EXISTS score (
    id {{serial}},
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    subsection_id INTEGER NOT NULL REFERENCES subsection(id) ON DELETE CASCADE,
    score_value INTEGER NOT NULL CHECK (score_value BETWEEN 1 AND 3),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, subsection_id)
);

CREATE INDEX IF NOT EXISTS idx_score_user_id ON score(user_id);
`
