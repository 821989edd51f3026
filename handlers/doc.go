// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the dairy survey API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - UserHandler: Registration, login and the user list
  - HerdHandler: Herd records for one species (cows or buffaloes)
  - CatalogHandler: Sections, subsections and score descriptions
  - ScoreHandler: Assessment score listing and submission

Handlers are created via constructor functions that accept *sql.DB. Only
UserHandler takes the Config, for token signing and registration IDs:

	userHandler := handlers.NewUserHandler(db, cfg)
	cowHandler := handlers.NewHerdHandler(db, models.SpeciesCow)

# Users

	POST /auth/register  → Register (bcrypt hash, registrationId)
	POST /auth/login     → Login (returns a signed token)
	GET  /auth/me        → Me (Authorization: Bearer <token>)
	GET  /auth/user/list → ListUsers

# Herd Records

One record per species per user. Updates address the record by its id:

	GET  /cows/list            → List
	GET  /cows/user/{userId}   → ByUser ([] when none)
	POST /cows/info            → Create (409 if the user already has one)
	PUT  /cows/info/{id}       → Update

The same routes exist under /buffaloes.

# Scores

Scores are unique per (user, subsection). Submit upserts and answers 201 for
a new score, 200 for a replacement:

	GET  /api/scores
	GET  /api/users/{userId}/scores?sectionId=N
	GET  /api/users/{userId}/subsections/{id}/scores
	POST /api/scores
*/
package handlers
