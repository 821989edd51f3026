// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testserver runs the full API on an in-memory database for client
// and end-to-end tests.
package testserver

import (
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/router"
	"github.com/danielhkuo/dairy-survey/testutil"
)

// New starts an httptest server backed by a fresh seeded database.
// Both are torn down when the test ends.
func New(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	srv := httptest.NewServer(middleware.CORS(router.NewRouter(conn, testutil.GetTestConfig())))
	t.Cleanup(srv.Close)

	return srv, conn
}
