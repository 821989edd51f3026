// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the dairy survey API server.

Field workers register farmers, record cow and buffalo herd composition, and
score farms against a hygiene rubric (Bad Practice, Needs Improvement, Good
Practice) section by section. The server stores those records; the surveyctl
command in cmd/surveyctl is the client side.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	DATABASE_URL=survey.db JWT_SECRET=dev go run .

Or with postgres:

	go run . -t postgres -d "postgres://..." -jwt-secret dev

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or postgres connection string
  - JWT_SECRET (--jwt-secret): Secret for signing login tokens

Optional settings:

  - PORT (-p): Server port (default: 8081)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL (--token-ttl): Login token lifetime (default: 24h)
  - REGISTRATION_SALT (--reg-salt): Registration ID salt (default: JWT_SECRET)

# Architecture

  - handlers: HTTP request handlers (users, herd, catalog, scores)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, validation, JSON helpers
  - models: Request/response types
  - auth: Password hashing, tokens and registration IDs
  - db: Schema creation and catalog seeding
  - cliparse: Server and client configuration
  - client, store, forms, reconcile: the survey client library

See package documentation for each component.
*/
package main
