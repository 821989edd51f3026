// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/testutil"
)

func TestSubmitScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewScoreHandler(db)

	userID := testutil.CreateTestUser(t, db, "9200000001")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"first submission creates", models.SubmitScoreRequest{UserID: userID, SubsectionID: 1, ScoreValue: 2}, http.StatusCreated},
		{"second submission updates", models.SubmitScoreRequest{UserID: userID, SubsectionID: 1, ScoreValue: 3}, http.StatusOK},
		{"other subsection creates", models.SubmitScoreRequest{UserID: userID, SubsectionID: 2, ScoreValue: 1}, http.StatusCreated},
		{"score above range", models.SubmitScoreRequest{UserID: userID, SubsectionID: 1, ScoreValue: 4}, http.StatusBadRequest},
		{"score zero", models.SubmitScoreRequest{UserID: userID, SubsectionID: 1, ScoreValue: 0}, http.StatusBadRequest},
		{"missing subsection", models.SubmitScoreRequest{UserID: userID, ScoreValue: 1}, http.StatusBadRequest},
		{"unknown subsection", models.SubmitScoreRequest{UserID: userID, SubsectionID: 999, ScoreValue: 1}, http.StatusNotFound},
		{"unknown user", models.SubmitScoreRequest{UserID: 9999, SubsectionID: 1, ScoreValue: 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/scores", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	t.Run("one row per user and subsection", func(t *testing.T) {
		if n := testutil.CountRows(t, db, "score", "user_id = $1 AND subsection_id = 1", userID); n != 1 {
			t.Errorf("Expected 1 score row, got %d", n)
		}
		var value int
		if err := db.QueryRow(`SELECT score_value FROM score WHERE user_id = $1 AND subsection_id = 1`, userID).Scan(&value); err != nil {
			t.Fatalf("Failed to read score: %v", err)
		}
		if value != 3 {
			t.Errorf("Expected last write to win with 3, got %d", value)
		}
	})
}

func TestSubmitScore_ResponseBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewScoreHandler(db)
	userID := testutil.CreateTestUser(t, db, "9200000002")

	req := testutil.MakeRequest("POST", "/api/scores", models.SubmitScoreRequest{UserID: userID, SubsectionID: 4, ScoreValue: 3}, nil)
	w := httptest.NewRecorder()
	handler.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	var rec models.ScoreRecord
	testutil.AssertJSON(t, w, &rec)

	if rec.ID == 0 || rec.UserID != userID || rec.SubsectionID != 4 || rec.ScoreValue != 3 {
		t.Errorf("Unexpected score record: %+v", rec)
	}
	if rec.SectionID != 1 {
		t.Errorf("Expected sectionId 1, got %d", rec.SectionID)
	}
}

func TestSubmitScore_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewScoreHandler(db)
	userID := testutil.CreateTestUser(t, db, "9200000003")

	var wg sync.WaitGroup
	codes := make([]int, 6)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testutil.MakeRequest("POST", "/api/scores",
				models.SubmitScoreRequest{UserID: userID, SubsectionID: 5, ScoreValue: i%3 + 1}, nil)
			w := httptest.NewRecorder()
			handler.Submit(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for i, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusOK:
		default:
			t.Errorf("Submission %d failed with status %d", i, code)
		}
	}
	if created != 1 {
		t.Errorf("Expected exactly one create, got %d", created)
	}
	if n := testutil.CountRows(t, db, "score", "user_id = $1 AND subsection_id = 5", userID); n != 1 {
		t.Errorf("Expected 1 score row, got %d", n)
	}
}

func TestUserScores(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewScoreHandler(db)

	userID := testutil.CreateTestUser(t, db, "9200000004")
	other := testutil.CreateTestUser(t, db, "9200000005")

	_, err := db.Exec(`INSERT INTO subsection (id, section_id, name) VALUES (200, 4, 'VACCINATION')`)
	if err != nil {
		t.Fatalf("Failed to insert subsection: %v", err)
	}
	testutil.CreateTestScore(t, db, userID, 1, 1)
	testutil.CreateTestScore(t, db, userID, 3, 2)
	testutil.CreateTestScore(t, db, userID, 200, 3)
	testutil.CreateTestScore(t, db, other, 1, 3)

	uid := strconv.FormatInt(userID, 10)

	tests := []struct {
		name           string
		userID         string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"all sections", uid, "", http.StatusOK, 3},
		{"infrastructure only", uid, "?sectionId=1", http.StatusOK, 2},
		{"animal health only", uid, "?sectionId=4", http.StatusOK, 1},
		{"section with no scores", uid, "?sectionId=8", http.StatusOK, 0},
		{"bad section filter", uid, "?sectionId=abc", http.StatusBadRequest, 0},
		{"user with no scores", "9999", "", http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/users/"+tt.userID+"/scores"+tt.query, nil, nil)
			req.SetPathValue("userId", tt.userID)
			w := httptest.NewRecorder()

			handler.UserScores(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code != http.StatusOK {
				return
			}
			var scores []models.ScoreRecord
			testutil.AssertJSON(t, w, &scores)
			if len(scores) != tt.expectedCount {
				t.Errorf("Expected %d scores, got %d", tt.expectedCount, len(scores))
			}
			for _, s := range scores {
				if strconv.FormatInt(s.UserID, 10) != tt.userID {
					t.Errorf("Score %d belongs to user %d", s.ID, s.UserID)
				}
			}
		})
	}

	t.Run("subsection scores", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/users/"+uid+"/subsections/3/scores", nil, nil)
		req.SetPathValue("userId", uid)
		req.SetPathValue("id", "3")
		w := httptest.NewRecorder()

		handler.UserSubsectionScores(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var scores []models.ScoreRecord
		testutil.AssertJSON(t, w, &scores)
		if len(scores) != 1 || scores[0].ScoreValue != 2 || scores[0].SectionID != 1 {
			t.Errorf("Unexpected subsection scores: %+v", scores)
		}
	})

	t.Run("all scores", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, testutil.MakeRequest("GET", "/api/scores", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var scores []models.ScoreRecord
		testutil.AssertJSON(t, w, &scores)
		if len(scores) != 4 {
			t.Errorf("Expected 4 scores, got %d", len(scores))
		}
	})
}
