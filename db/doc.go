// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and catalog seeding.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on sqlite and PostgreSQL; only the auto-increment key
type is swapped per dialect.

# Tables

  - users: Registered farmers (bcrypt password hash, optional location)
  - herd_record: Cow/buffalo composition, one per species per user
  - section: Assessment sections
  - subsection: Assessable categories within a section
  - score_description: Rubric text per subsection and score tier
  - score: One score (1-3) per user per subsection

# Relationships

	users 1──* herd_record
	users 1──* score
	section 1──* subsection
	subsection 1──* score_description
	subsection 1──* score

All foreign keys use ON DELETE CASCADE.

# Seeding

SeedCatalog inserts the eight assessment sections and the infrastructure
subsections with their rubric text. Rows that already exist are kept.
*/
package db
