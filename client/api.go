// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielhkuo/dairy-survey/models"
)

// Users

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", req, &resp)
	return resp, err
}

// Me returns the user the client's token was issued to
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, "list users", http.MethodGet, "/auth/user/list", nil, &users)
	return users, err
}

// Herd records

func herdPath(species models.Species, rest string) (string, error) {
	if !species.Valid() {
		return "", fmt.Errorf("unknown species %q", species)
	}
	return "/" + string(species) + rest, nil
}

func (c *Client) ListHerd(ctx context.Context, species models.Species) ([]models.HerdRecord, error) {
	path, err := herdPath(species, "/list")
	if err != nil {
		return nil, err
	}
	var records []models.HerdRecord
	err = c.do(ctx, "list "+string(species), http.MethodGet, path, nil, &records)
	return records, err
}

// HerdByUser returns the user's records for species. An empty list means no
// record exists yet.
func (c *Client) HerdByUser(ctx context.Context, species models.Species, userID int64) ([]models.HerdRecord, error) {
	path, err := herdPath(species, "/user/"+strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}
	var records []models.HerdRecord
	err = c.do(ctx, "get "+species.Singular()+" record", http.MethodGet, path, nil, &records)
	return records, err
}

func (c *Client) CreateHerd(ctx context.Context, species models.Species, req models.HerdRecordRequest) (models.HerdRecord, error) {
	var rec models.HerdRecord
	path, err := herdPath(species, "/info")
	if err != nil {
		return rec, err
	}
	err = c.do(ctx, "create "+species.Singular()+" record", http.MethodPost, path, req, &rec)
	return rec, err
}

// UpdateHerd replaces the record with the given id
func (c *Client) UpdateHerd(ctx context.Context, species models.Species, recordID int64, req models.HerdRecordRequest) (models.HerdRecord, error) {
	var rec models.HerdRecord
	path, err := herdPath(species, "/info/"+strconv.FormatInt(recordID, 10))
	if err != nil {
		return rec, err
	}
	err = c.do(ctx, "update "+species.Singular()+" record", http.MethodPut, path, req, &rec)
	return rec, err
}

// Catalog

func (c *Client) Sections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	err := c.do(ctx, "list sections", http.MethodGet, "/api/sections", nil, &sections)
	return sections, err
}

func (c *Client) Subsections(ctx context.Context, sectionID int64) ([]models.Subsection, error) {
	var subsections []models.Subsection
	path := "/api/sections/" + strconv.FormatInt(sectionID, 10) + "/subsections"
	err := c.do(ctx, "list subsections", http.MethodGet, path, nil, &subsections)
	return subsections, err
}

func (c *Client) ScoreDescriptions(ctx context.Context, subsectionID int64) ([]models.ScoreDescription, error) {
	var descriptions []models.ScoreDescription
	path := "/api/subsections/" + strconv.FormatInt(subsectionID, 10) + "/score-descriptions"
	err := c.do(ctx, "list score descriptions", http.MethodGet, path, nil, &descriptions)
	return descriptions, err
}

func (c *Client) ScoreDescription(ctx context.Context, subsectionID int64, value int) (models.ScoreDescription, error) {
	var d models.ScoreDescription
	path := "/api/subsections/" + strconv.FormatInt(subsectionID, 10) + "/score-descriptions/" + strconv.Itoa(value)
	err := c.do(ctx, "get score description", http.MethodGet, path, nil, &d)
	return d, err
}

// Scores. List responses go through ParseScoreRecords.

func (c *Client) fetchScores(ctx context.Context, op, path string) ([]models.ScoreRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	records, err := ParseScoreRecords(raw, c.log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

func (c *Client) Scores(ctx context.Context) ([]models.ScoreRecord, error) {
	return c.fetchScores(ctx, "list scores", "/api/scores")
}

// UserScores returns the user's scores, limited to one section when
// sectionID is non-zero. Records that name a different section are dropped
// in case the server ignored the filter.
func (c *Client) UserScores(ctx context.Context, userID, sectionID int64) ([]models.ScoreRecord, error) {
	path := "/api/users/" + strconv.FormatInt(userID, 10) + "/scores"
	if sectionID != 0 {
		path += "?" + url.Values{"sectionId": {strconv.FormatInt(sectionID, 10)}}.Encode()
	}

	records, err := c.fetchScores(ctx, "list user scores", path)
	if err != nil || sectionID == 0 {
		return records, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.SectionID == 0 || r.SectionID == sectionID {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func (c *Client) UserSubsectionScores(ctx context.Context, userID, subsectionID int64) ([]models.ScoreRecord, error) {
	path := "/api/users/" + strconv.FormatInt(userID, 10) + "/subsections/" + strconv.FormatInt(subsectionID, 10) + "/scores"
	return c.fetchScores(ctx, "list subsection scores", path)
}

// SubmitScore creates or replaces the user's score for a subsection
func (c *Client) SubmitScore(ctx context.Context, req models.SubmitScoreRequest) (models.ScoreRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "submit score", http.MethodPost, "/api/scores", req, &raw); err != nil {
		return models.ScoreRecord{}, err
	}

	rec, ok := parseScoreRecord(raw)
	if !ok {
		// No usable record in the body; echo what was sent
		rec = models.ScoreRecord{UserID: req.UserID, SubsectionID: req.SubsectionID, ScoreValue: req.ScoreValue}
	}
	return rec, nil
}
