// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the dairy survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and monitoring:

	GET /health
	GET /metrics

Users:

	POST /auth/register  - Register a farmer
	POST /auth/login     - Exchange phone and password for a token
	GET  /auth/me        - Current user (Bearer token)
	GET  /auth/user/list - All users

Herd records (repeated for /buffaloes):

	GET  /cows/list          - All cow records
	GET  /cows/user/{userId} - One user's record, as a list
	POST /cows/info          - Create
	PUT  /cows/info/{id}     - Update by record id

Assessment catalog:

	GET /api/sections
	GET /api/sections/{id}/subsections
	GET /api/subsections/{id}/score-descriptions
	GET /api/subsections/{id}/score-descriptions/{value}

Scores:

	GET  /api/scores
	POST /api/scores
	GET  /api/users/{userId}/scores?sectionId=N
	GET  /api/users/{userId}/subsections/{id}/scores

Every API route goes through middleware.Wrap for logging, request IDs and
metrics.
*/
package router
