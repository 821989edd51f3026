// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/store"
)

var (
	ErrSessionClosed       = errors.New("assessment session closed")
	ErrUnknownSubsection   = errors.New("subsection not in this section")
	ErrDescriptionsLoading = errors.New("score descriptions still loading")
	ErrSubmitInFlight      = errors.New("score submission already in progress")
	ErrNoSelection         = errors.New("select a score before submitting")
	ErrInvalidScore        = errors.New("score must be 1, 2 or 3")
)

// Submit button labels
const (
	LabelSubmit = "Submit Score"
	LabelUpdate = "Update Score"
)

// ScoreAPI is the part of the remote service the assessment calls.
// *client.Client satisfies it.
type ScoreAPI interface {
	Subsections(ctx context.Context, sectionID int64) ([]models.Subsection, error)
	UserScores(ctx context.Context, userID, sectionID int64) ([]models.ScoreRecord, error)
	ScoreDescriptions(ctx context.Context, subsectionID int64) ([]models.ScoreDescription, error)
	SubmitScore(ctx context.Context, req models.SubmitScoreRequest) (models.ScoreRecord, error)
}

// CardState is where a subsection card is in its lifecycle
type CardState int

const (
	Collapsed CardState = iota
	DescriptionsLoading
	DescriptionsReady
	ScoreSelected
	Submitting
	Submitted
)

func (c CardState) String() string {
	switch c {
	case Collapsed:
		return "collapsed"
	case DescriptionsLoading:
		return "descriptions-loading"
	case DescriptionsReady:
		return "descriptions-ready"
	case ScoreSelected:
		return "score-selected"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("CardState(%d)", int(c))
}

var defaultDescriptionText = map[int]string{
	models.ScoreBad:              "Bad Practice",
	models.ScoreNeedsImprovement: "Needs Improvement",
	models.ScoreGood:             "Good Practice",
}

// DefaultDescriptions is the generic rubric shown when a subsection's own
// descriptions cannot be fetched
func DefaultDescriptions(subsectionID int64) []models.ScoreDescription {
	out := make([]models.ScoreDescription, 0, len(defaultDescriptionText))
	for v := models.ScoreBad; v <= models.ScoreGood; v++ {
		out = append(out, models.ScoreDescription{
			SubsectionID: subsectionID,
			ScoreValue:   v,
			Description:  defaultDescriptionText[v],
		})
	}
	return out
}

type Assessment struct {
	api  ScoreAPI
	repo *store.Repository
	log  *slog.Logger
}

func NewAssessment(api ScoreAPI, repo *store.Repository, log *slog.Logger) *Assessment {
	if log == nil {
		log = slog.Default()
	}
	return &Assessment{api: api, repo: repo, log: log}
}

type card struct {
	expanded     bool
	loading      bool
	descriptions []models.ScoreDescription
	selected     int
	submitting   bool
}

// AssessmentSession holds one user's scoring state for one section. It is
// safe for concurrent use. Close it when the section is left.
type AssessmentSession struct {
	UserID    int64
	SectionID int64

	api  ScoreAPI
	repo *store.Repository
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	persistMu sync.Mutex

	mu          sync.Mutex
	closed      bool
	subsections []models.Subsection
	cards       map[int64]*card
	state       store.ScoreState
	images      map[int64]string
}

// Open loads a section for scoring. The subsection list is required; prior
// scores and cached images are best effort. The server's scores become both
// the existing and the current mapping and are mirrored to the local store.
func (a *Assessment) Open(ctx context.Context, userID, sectionID int64) (*AssessmentSession, error) {
	subs, err := a.api.Subsections(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subsections for section %d: %w", sectionID, err)
	}

	existing := make(map[int64]int)
	records, err := a.api.UserScores(ctx, userID, sectionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.log.Warn("failed to load previous scores, starting empty",
			"user_id", userID, "section_id", sectionID, "error", err)
	}
	for _, rec := range records {
		existing[rec.SubsectionID] = rec.ScoreValue
	}

	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &AssessmentSession{
		UserID:      userID,
		SectionID:   sectionID,
		api:         a.api,
		repo:        a.repo,
		log:         a.log.With("user_id", userID, "section_id", sectionID),
		ctx:         sctx,
		cancel:      cancel,
		subsections: subs,
		cards:       make(map[int64]*card, len(subs)),
		state:       store.ScoreState{Current: maps.Clone(existing), Existing: existing},
		images:      make(map[int64]string),
	}
	for _, sub := range subs {
		s.cards[sub.ID] = &card{selected: existing[sub.ID]}
	}

	s.persist(ctx)

	images, err := a.repo.Images(ctx, userID, sectionID)
	if err != nil {
		s.log.Warn("failed to restore cached images", "error", err)
	} else {
		s.images = images
	}

	s.log.Info("assessment opened", "subsections", len(subs), "existing_scores", len(existing))
	return s, nil
}

// bind returns a context cancelled by either ctx or Close
func (s *AssessmentSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// card returns the subsection card. Caller holds s.mu.
func (s *AssessmentSession) card(subsectionID int64) (*card, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	c, ok := s.cards[subsectionID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSubsection, subsectionID)
	}
	return c, nil
}

// persist mirrors the latest score state to the local store. Failures are
// logged only.
func (s *AssessmentSession) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if err := s.repo.PutScores(context.WithoutCancel(ctx), s.UserID, s.SectionID, snapshot); err != nil {
		s.log.Warn("failed to cache scores locally", "error", err)
	}
}

// Subsections returns the section's subsections in display order
func (s *AssessmentSession) Subsections() []models.Subsection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.subsections)
}

// Scores returns a copy of the current and existing mappings
func (s *AssessmentSession) Scores() store.ScoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Images returns a copy of the locally recorded image URIs
func (s *AssessmentSession) Images() map[int64]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.images)
}

// State reports the card's lifecycle state. Unknown subsections and closed
// sessions report Collapsed.
func (s *AssessmentSession) State(subsectionID int64) CardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(subsectionID)
	switch {
	case err != nil:
		return Collapsed
	case c.submitting:
		return Submitting
	case !c.expanded:
		return Collapsed
	case c.loading:
		return DescriptionsLoading
	case c.selected != 0 && s.state.Existing[subsectionID] == c.selected:
		return Submitted
	case c.selected != 0:
		return ScoreSelected
	}
	return DescriptionsReady
}

// Expand opens a card and returns its rubric. Descriptions are fetched once
// per session; a failed fetch yields DefaultDescriptions, which are then
// cached like a real result. Expanding while the fetch is in flight returns
// ErrDescriptionsLoading without issuing another request.
func (s *AssessmentSession) Expand(ctx context.Context, subsectionID int64) ([]models.ScoreDescription, error) {
	s.mu.Lock()
	c, err := s.card(subsectionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	c.expanded = true
	if c.descriptions != nil {
		descs := slices.Clone(c.descriptions)
		s.mu.Unlock()
		return descs, nil
	}
	if c.loading {
		s.mu.Unlock()
		return nil, ErrDescriptionsLoading
	}
	c.loading = true
	s.mu.Unlock()

	ctx, done := s.bind(ctx)
	defer done()
	descs, fetchErr := s.api.ScoreDescriptions(ctx, subsectionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	c.loading = false
	if s.closed {
		return nil, ErrSessionClosed
	}
	if fetchErr != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if fetchErr != nil || len(descs) == 0 {
		s.log.Warn("using default score descriptions", "subsection_id", subsectionID, "error", fetchErr)
		descs = DefaultDescriptions(subsectionID)
	}
	slices.SortFunc(descs, func(a, b models.ScoreDescription) int { return a.ScoreValue - b.ScoreValue })
	c.descriptions = descs
	return slices.Clone(descs), nil
}

// Collapse closes a card. The selection is kept.
func (s *AssessmentSession) Collapse(subsectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(subsectionID)
	if err != nil {
		return err
	}
	c.expanded = false
	return nil
}

// Select makes value the card's only selected score
func (s *AssessmentSession) Select(subsectionID int64, value int) error {
	if !models.ValidScore(value) {
		return ErrInvalidScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(subsectionID)
	if err != nil {
		return err
	}
	c.selected = value
	return nil
}

// Selected returns the card's selected score, or 0
func (s *AssessmentSession) Selected(subsectionID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(subsectionID)
	if err != nil {
		return 0
	}
	return c.selected
}

// CanSubmit reports whether a score is selected and no submission for the
// card is in flight
func (s *AssessmentSession) CanSubmit(subsectionID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.card(subsectionID)
	return err == nil && c.selected != 0 && !c.submitting
}

// SubmitLabel is LabelUpdate once the server holds a score for the
// subsection, LabelSubmit before
func (s *AssessmentSession) SubmitLabel(subsectionID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Existing[subsectionID]; ok {
		return LabelUpdate
	}
	return LabelSubmit
}

// Submit sends the selected score. On success both mappings take the new
// value and are mirrored locally; on failure nothing changes.
func (s *AssessmentSession) Submit(ctx context.Context, subsectionID int64) (models.ScoreRecord, error) {
	s.mu.Lock()
	c, err := s.card(subsectionID)
	if err != nil {
		s.mu.Unlock()
		return models.ScoreRecord{}, err
	}
	if c.submitting {
		s.mu.Unlock()
		return models.ScoreRecord{}, ErrSubmitInFlight
	}
	if c.selected == 0 {
		s.mu.Unlock()
		return models.ScoreRecord{}, ErrNoSelection
	}
	value := c.selected
	c.submitting = true
	s.mu.Unlock()

	bctx, done := s.bind(ctx)
	rec, err := s.api.SubmitScore(bctx, models.SubmitScoreRequest{
		UserID:       s.UserID,
		SubsectionID: subsectionID,
		ScoreValue:   value,
	})
	done()

	s.mu.Lock()
	c.submitting = false
	if s.closed {
		s.mu.Unlock()
		return models.ScoreRecord{}, ErrSessionClosed
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Error("score submit failed", "subsection_id", subsectionID, "score", value, "error", err)
		return models.ScoreRecord{}, fmt.Errorf("failed to submit score for subsection %d: %w", subsectionID, err)
	}
	s.state.Current[subsectionID] = value
	s.state.Existing[subsectionID] = value
	s.mu.Unlock()

	s.persist(ctx)
	s.log.Info("score submitted", "subsection_id", subsectionID, "score", value)
	return rec, nil
}

// AttachImage records a locally captured image for a subsection. The URI
// never leaves the device; a failure to cache it is logged only.
func (s *AssessmentSession) AttachImage(ctx context.Context, subsectionID int64, uri string) error {
	s.mu.Lock()
	if _, err := s.card(subsectionID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.images[subsectionID] = uri
	s.mu.Unlock()

	s.persistImages(ctx, subsectionID)
	return nil
}

// persistImages writes the session's image map as one value. Holding
// persistMu across snapshot and write keeps the cache at the latest state
// when attachments race.
func (s *AssessmentSession) persistImages(ctx context.Context, subsectionID int64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	snapshot := maps.Clone(s.images)
	s.mu.Unlock()

	if err := s.repo.PutImages(context.WithoutCancel(ctx), s.UserID, s.SectionID, snapshot); err != nil {
		s.log.Warn("failed to cache image", "subsection_id", subsectionID, "error", err)
	}
}

// Close cancels in-flight requests. Their results are discarded and every
// later call returns ErrSessionClosed. Close is idempotent.
func (s *AssessmentSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}
