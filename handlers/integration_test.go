// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/testutil"
)

// TestFullSurveyWorkflow tests the complete end-to-end workflow:
// 1. Register a farmer
// 2. Log in
// 3. Create a cow record
// 4. Update the cow record
// 5. Read the rubric for a subsection
// 6. Submit a score
// 7. Update the score
// 8. Verify the user's scores
func TestFullSurveyWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	userHandler := NewUserHandler(db, cfg)
	cowHandler := NewHerdHandler(db, models.SpeciesCow)
	catalogHandler := NewCatalogHandler(db)
	scoreHandler := NewScoreHandler(db)

	// Step 1: Register
	registerReq := models.RegisterRequest{
		FirstName: "Lakshmi",
		Surname:   "Rao",
		Phone:     "9700000001",
		Password:  "secret123",
		Village:   "Kheda",
	}
	w := httptest.NewRecorder()
	userHandler.Register(w, testutil.MakeRequest("POST", "/auth/register", registerReq, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Register failed: %d - %s", w.Code, w.Body.String())
	}

	var user models.User
	json.NewDecoder(w.Body).Decode(&user)
	if user.ID == 0 || user.RegistrationID == "" {
		t.Fatal("Step 1 - Missing id or registrationId")
	}
	t.Logf("Step 1 - Registered user %d (%s)", user.ID, user.RegistrationID)

	// Step 2: Log in
	w = httptest.NewRecorder()
	userHandler.Login(w, testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Phone:    registerReq.Phone,
		Password: registerReq.Password,
	}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	var login models.LoginResponse
	json.NewDecoder(w.Body).Decode(&login)
	if login.Token == "" || login.User.ID != user.ID {
		t.Fatalf("Step 2 - Unexpected login response: %+v", login)
	}

	// Step 3: Create a cow record
	w = httptest.NewRecorder()
	cowHandler.Create(w, testutil.MakeRequest("POST", "/cows/info", models.HerdRecordRequest{
		UserID: user.ID, Total: 10, Milking: 6, Dry: 4, CalvesHeifers: 0,
		Breeds: map[string]int{"HF": 6},
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Create cow record failed: %d - %s", w.Code, w.Body.String())
	}
	var record models.HerdRecord
	json.NewDecoder(w.Body).Decode(&record)
	t.Logf("Step 3 - Created cow record %d", record.ID)

	// Step 4: Update it
	recordID := strconv.FormatInt(record.ID, 10)
	req := testutil.MakeRequest("PUT", "/cows/info/"+recordID, models.HerdRecordRequest{
		Total: 11, Milking: 7, Dry: 4, CalvesHeifers: 0,
		Breeds: map[string]int{"HF": 6, "Gir": 1},
	}, nil)
	req.SetPathValue("id", recordID)
	w = httptest.NewRecorder()
	cowHandler.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Update cow record failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/cows/user/"+strconv.FormatInt(user.ID, 10), nil, nil)
	req.SetPathValue("userId", strconv.FormatInt(user.ID, 10))
	w = httptest.NewRecorder()
	cowHandler.ByUser(w, req)
	var records []models.HerdRecord
	json.NewDecoder(w.Body).Decode(&records)
	if len(records) != 1 || records[0].Milking != 7 || records[0].Breeds["Gir"] != 1 {
		t.Fatalf("Step 4 - Expected one updated record, got %+v", records)
	}

	// Step 5: Rubric for the first infrastructure subsection
	req = testutil.MakeRequest("GET", "/api/subsections/1/score-descriptions", nil, nil)
	req.SetPathValue("id", "1")
	w = httptest.NewRecorder()
	catalogHandler.ScoreDescriptions(w, req)
	var descs []models.ScoreDescription
	json.NewDecoder(w.Body).Decode(&descs)
	if len(descs) != 3 {
		t.Fatalf("Step 5 - Expected 3 score descriptions, got %d", len(descs))
	}

	// Steps 6 and 7: Submit, then change the score
	for i, tc := range []struct {
		value  int
		status int
	}{
		{models.ScoreNeedsImprovement, http.StatusCreated},
		{models.ScoreGood, http.StatusOK},
	} {
		w = httptest.NewRecorder()
		scoreHandler.Submit(w, testutil.MakeRequest("POST", "/api/scores", models.SubmitScoreRequest{
			UserID: user.ID, SubsectionID: 1, ScoreValue: tc.value,
		}, nil))
		if w.Code != tc.status {
			t.Fatalf("Step %d - Submit score %d: expected %d, got %d - %s", 6+i, tc.value, tc.status, w.Code, w.Body.String())
		}
	}

	// Step 8: Verify
	userID := strconv.FormatInt(user.ID, 10)
	req = testutil.MakeRequest("GET", "/api/users/"+userID+"/scores?sectionId=1", nil, nil)
	req.SetPathValue("userId", userID)
	w = httptest.NewRecorder()
	scoreHandler.UserScores(w, req)
	var scores []models.ScoreRecord
	json.NewDecoder(w.Body).Decode(&scores)
	if len(scores) != 1 {
		t.Fatalf("Step 8 - Expected 1 score, got %d", len(scores))
	}
	if scores[0].ScoreValue != models.ScoreGood || scores[0].SectionID != 1 {
		t.Errorf("Step 8 - Unexpected score %+v", scores[0])
	}
}
