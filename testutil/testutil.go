// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/dairy-survey/auth"
	"github.com/danielhkuo/dairy-survey/cliparse"
	"github.com/danielhkuo/dairy-survey/db"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema and the seeded assessment catalog. Closed automatically when the
// test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every new connection to :memory: is a new, empty database.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.SeedCatalog(conn); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             8081,
		DatabaseURL:      ":memory:",
		DatabaseType:     cliparse.DatabaseSQLite,
		JWTSecret:        "test-jwt-secret",
		RegistrationSalt: "test-reg-salt",
		TokenTTL:         time.Hour,
	}
}

// CreateTestUser inserts a user with password "password123" and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, phone string) int64 {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (registration_id, first_name, surname, phone, password_hash, created_at)
		VALUES ($1, 'Test', 'Farmer', $2, $3, $4)
		RETURNING id
	`, auth.GenerateRegistrationID(phone, "test-reg-salt"), phone, hash, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestHerdRecord inserts a herd record and returns its ID.
// breedsJSON is stored verbatim; pass "{}" for none.
func CreateTestHerdRecord(t *testing.T, conn *sql.DB, species string, userID int64, total, milking, dry, calves int, breedsJSON string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO herd_record (species, user_id, total, milking, dry, calves_heifers, breeds, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, species, userID, total, milking, dry, calves, breedsJSON, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test herd record: %v", err)
	}

	return id
}

// CreateTestScore records a score for a user and subsection
func CreateTestScore(t *testing.T, conn *sql.DB, userID, subsectionID int64, value int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO score (user_id, subsection_id, score_value, updated_at)
		VALUES ($1, $2, $3, $4)
	`, userID, subsectionID, value, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test score: %v", err)
	}
}

// CountRows returns the number of rows in table matching the optional where clause
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
