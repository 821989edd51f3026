// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is a typed HTTP client for the dairy survey API.

	c := client.New(cfg.BaseURL, client.WithToken(cfg.Token))
	records, err := c.HerdByUser(ctx, models.SpeciesCow, userID)

Every method takes a context and performs exactly one request. There are no
retries; callers decide whether to try again.

# Errors

Non-2xx responses become *APIError carrying the status code and the server's
message. 404s also match ErrNotFound:

	if errors.Is(err, client.ErrNotFound) { ... }

Transport and decode failures are wrapped with the operation name.

# Score Records

Score lists are decoded through ParseScoreRecords, which accepts the several
field layouts servers have used (nested scoreCategory, camelCase, snake_case)
and drops unusable elements instead of failing the whole list.
*/
package client
