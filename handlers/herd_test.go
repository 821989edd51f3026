// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/testutil"
)

func TestHerdCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cows := NewHerdHandler(db, models.SpeciesCow)

	userID := testutil.CreateTestUser(t, db, "9100000001")
	existingUser := testutil.CreateTestUser(t, db, "9100000002")
	testutil.CreateTestHerdRecord(t, db, "cows", existingUser, 4, 2, 1, 1, "{}")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, rec *models.HerdRecord)
	}{
		{
			name: "valid record",
			requestBody: models.HerdRecordRequest{
				UserID: userID, Total: 10, Milking: 6, Dry: 2, CalvesHeifers: 2,
				Breeds: map[string]int{"HF": 6, "Gir": 4},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *models.HerdRecord) {
				if rec.ID == 0 {
					t.Error("Expected non-zero record ID")
				}
				if diff := cmp.Diff(map[string]int{"HF": 6, "Gir": 4}, rec.Breeds); diff != "" {
					t.Errorf("Breeds mismatch (-want +got):\n%s", diff)
				}
				if n := testutil.CountRows(t, db, "herd_record", "species = $1 AND user_id = $2", "cows", userID); n != 1 {
					t.Errorf("Expected 1 stored record, got %d", n)
				}
			},
		},
		{
			name:           "missing userId",
			requestBody:    models.HerdRecordRequest{Total: 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative count",
			requestBody:    models.HerdRecordRequest{UserID: userID, Total: -1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown user",
			requestBody:    models.HerdRecordRequest{UserID: 9999, Total: 1},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "record already exists",
			requestBody:    models.HerdRecordRequest{UserID: existingUser, Total: 1},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/cows/info", tt.requestBody, nil)
			w := httptest.NewRecorder()

			cows.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var rec models.HerdRecord
				testutil.AssertJSON(t, w, &rec)
				tt.checkResponse(t, &rec)
			}
		})
	}
}

func TestHerdCreate_SpeciesAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	userID := testutil.CreateTestUser(t, db, "9100000003")
	testutil.CreateTestHerdRecord(t, db, "cows", userID, 5, 3, 1, 1, "{}")

	buffaloes := NewHerdHandler(db, models.SpeciesBuffalo)
	req := testutil.MakeRequest("POST", "/buffaloes/info", models.HerdRecordRequest{UserID: userID, Total: 2}, nil)
	w := httptest.NewRecorder()

	buffaloes.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestHerdUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cows := NewHerdHandler(db, models.SpeciesCow)

	userID := testutil.CreateTestUser(t, db, "9100000004")
	recordID := testutil.CreateTestHerdRecord(t, db, "cows", userID, 4, 2, 1, 1, `{"HF":4}`)
	buffaloID := testutil.CreateTestHerdRecord(t, db, "buffaloes", userID, 2, 1, 1, 0, "{}")

	tests := []struct {
		name           string
		id             string
		requestBody    interface{}
		expectedStatus int
	}{
		{"valid update", strconv.FormatInt(recordID, 10), models.HerdRecordRequest{Total: 12, Milking: 8, Breeds: map[string]int{"Jersey": 12}}, http.StatusOK},
		{"unknown id", "9999", models.HerdRecordRequest{Total: 1}, http.StatusNotFound},
		{"other species id", strconv.FormatInt(buffaloID, 10), models.HerdRecordRequest{Total: 1}, http.StatusNotFound},
		{"malformed id", "abc", models.HerdRecordRequest{Total: 1}, http.StatusBadRequest},
		{"negative breed count", strconv.FormatInt(recordID, 10), models.HerdRecordRequest{Breeds: map[string]int{"HF": -1}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/cows/info/"+tt.id, tt.requestBody, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			cows.Update(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	t.Run("update is persisted", func(t *testing.T) {
		var total, milking int
		var breeds string
		err := db.QueryRow(`SELECT total, milking, breeds FROM herd_record WHERE id = $1`, recordID).Scan(&total, &milking, &breeds)
		if err != nil {
			t.Fatalf("Failed to reload record: %v", err)
		}
		if total != 12 || milking != 8 {
			t.Errorf("Expected total=12 milking=8, got total=%d milking=%d", total, milking)
		}
		if breeds != `{"Jersey":12}` {
			t.Errorf("Expected breeds replaced, got %s", breeds)
		}
	})
}

func TestHerdByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cows := NewHerdHandler(db, models.SpeciesCow)

	withRecord := testutil.CreateTestUser(t, db, "9100000005")
	without := testutil.CreateTestUser(t, db, "9100000006")
	testutil.CreateTestHerdRecord(t, db, "cows", withRecord, 7, 5, 2, 0, `{"Sahiwal":7}`)
	testutil.CreateTestHerdRecord(t, db, "buffaloes", without, 3, 3, 0, 0, "{}")

	tests := []struct {
		name           string
		userID         string
		expectedStatus int
		expectedCount  int
	}{
		{"user with record", strconv.FormatInt(withRecord, 10), http.StatusOK, 1},
		{"user with only another species", strconv.FormatInt(without, 10), http.StatusOK, 0},
		{"unknown user", "9999", http.StatusOK, 0},
		{"malformed user id", "x", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/cows/user/"+tt.userID, nil, nil)
			req.SetPathValue("userId", tt.userID)
			w := httptest.NewRecorder()

			cows.ByUser(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code != http.StatusOK {
				return
			}
			var records []models.HerdRecord
			testutil.AssertJSON(t, w, &records)
			if records == nil {
				t.Fatal("Expected a JSON array, got null")
			}
			if len(records) != tt.expectedCount {
				t.Errorf("Expected %d records, got %d", tt.expectedCount, len(records))
			}
		})
	}
}

func TestHerdList(t *testing.T) {
	db := testutil.SetupTestDB(t)

	a := testutil.CreateTestUser(t, db, "9100000007")
	b := testutil.CreateTestUser(t, db, "9100000008")
	testutil.CreateTestHerdRecord(t, db, "cows", a, 1, 1, 0, 0, "{}")
	testutil.CreateTestHerdRecord(t, db, "cows", b, 2, 1, 1, 0, "{}")
	testutil.CreateTestHerdRecord(t, db, "buffaloes", a, 3, 2, 1, 0, "{}")

	for _, tc := range []struct {
		species models.Species
		want    int
	}{
		{models.SpeciesCow, 2},
		{models.SpeciesBuffalo, 1},
	} {
		t.Run(string(tc.species), func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHerdHandler(db, tc.species).List(w, testutil.MakeRequest("GET", "/"+string(tc.species)+"/list", nil, nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			var records []models.HerdRecord
			testutil.AssertJSON(t, w, &records)
			if len(records) != tc.want {
				t.Errorf("Expected %d records, got %d", tc.want, len(records))
			}
		})
	}
}
