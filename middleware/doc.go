// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Standard Chain

Every API route is wrapped with logging and metrics:

	mux.HandleFunc("GET /api/sections", middleware.Wrap(catalogHandler.Sections))

Wrap is WithLogging(WithMetrics(next)).

# Request Logging

WithLogging logs request start (method, path, remote, request_id) and
completion (status, duration_ms). The X-Request-ID header is reused when the
caller sends one, otherwise a UUID is generated. Either way it is echoed on
the response.

# Metrics

WithMetrics records survey_http_requests_total{route,status} and
survey_http_request_duration_seconds{route}. The route label is the mux
pattern, e.g. "GET /api/users/{userId}/scores".

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse and validate request bodies:

	var req models.SubmitScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
*/
package middleware
