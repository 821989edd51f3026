// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration
for both the survey server and the surveyctl client.

# Server Configuration

ParseFlags returns a Config struct with all settings:

	cliparse.LoadDotEnv("")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8081)
  - DatabaseURL: sqlite file or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - JWTSecret: Secret for access tokens (required)
  - RegistrationSalt: Secret for registration IDs (default: JWTSecret)
  - TokenTTL: Access token lifetime (default: 24h)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--token-ttl   Access token lifetime
	--jwt-secret  JWT secret
	--reg-salt    Registration ID salt

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	TOKEN_TTL         → --token-ttl
	JWT_SECRET        → --jwt-secret
	REGISTRATION_SALT → --reg-salt

CLI flags take precedence over environment variables. LoadDotEnv copies a
.env file into the environment first, without overwriting variables that
are already set.

# Client Configuration

LoadClientConfig reads a YAML file and applies SURVEY_BASE_URL,
SURVEY_STORE, SURVEY_USER_ID and SURVEY_TOKEN overrides:

	base_url: http://192.168.21.241:8081
	store: /var/lib/surveyctl/cache.db
	user_id: 17
*/
package cliparse
