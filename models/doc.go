// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
survey backend and its clients.

JSON keys are camelCase because that is what the field app sends.

# Request Types

  - RegisterRequest: firstName, surname, phone, password, location, ...
  - LoginRequest: phone, password
  - HerdRecordRequest: total, milking, dry, calvesHeifers, breeds
  - SubmitScoreRequest: userId, subsectionId, scoreValue

Request types carry go-playground/validator tags; handlers validate them
with middleware.Validate.

# Response Types

  - LoginResponse: token, user
  - ErrorResponse: error, message

# Domain Types

  - User: registered farmer, optionally with a location fix
  - HerdRecord: one per species per user
  - Section, Subsection: the read-only assessment catalog
  - ScoreDescription: rubric text for one score tier of a subsection
  - ScoreRecord: one score per (user, subsection)

# Constants

Species (also the REST path segment):

	SpeciesCow     = "cows"
	SpeciesBuffalo = "buffaloes"

Score tiers:

	ScoreBad              = 1
	ScoreNeedsImprovement = 2
	ScoreGood             = 3
*/
package models
