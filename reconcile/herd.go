// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/dairy-survey/forms"
	"github.com/danielhkuo/dairy-survey/models"
)

var (
	ErrNothingToSubmit = errors.New("no herd data entered")
	ErrUnknownSpecies  = errors.New("unknown species")
)

// HerdAPI is the part of the remote service the herd reconciler calls.
// *client.Client satisfies it.
type HerdAPI interface {
	HerdByUser(ctx context.Context, species models.Species, userID int64) ([]models.HerdRecord, error)
	CreateHerd(ctx context.Context, species models.Species, req models.HerdRecordRequest) (models.HerdRecord, error)
	UpdateHerd(ctx context.Context, species models.Species, recordID int64, req models.HerdRecordRequest) (models.HerdRecord, error)
}

type HerdReconciler struct {
	api HerdAPI
	log *slog.Logger
}

func NewHerdReconciler(api HerdAPI, log *slog.Logger) *HerdReconciler {
	if log == nil {
		log = slog.Default()
	}
	return &HerdReconciler{api: api, log: log}
}

type herdEntry struct {
	form     forms.HerdForm
	existing *models.HerdRecord
}

// HerdSession is the state of the herd form for one user: a form per
// species and, where the server already had one, the record it edits.
type HerdSession struct {
	UserID int64

	mu      sync.Mutex
	entries map[models.Species]*herdEntry
}

func (s *HerdSession) entry(species models.Species) (*herdEntry, error) {
	e, ok := s.entries[species]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	return e, nil
}

// Form returns a copy of the species form
func (s *HerdSession) Form(species models.Species) forms.HerdForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(species)
	if err != nil {
		return forms.HerdForm{}
	}
	f := e.form
	f.Breeds = append([]forms.Breed(nil), e.form.Breeds...)
	return f
}

func (s *HerdSession) SetField(species models.Species, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(species)
	if err != nil {
		return err
	}
	return e.form.SetField(field, value)
}

func (s *HerdSession) SetBreed(species models.Species, name, count string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(species)
	if err != nil {
		return err
	}
	e.form.SetBreed(name, count)
	return nil
}

// Progress is forms.Progress over the session's two forms
func (s *HerdSession) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return forms.Progress(s.entries[models.SpeciesCow].form, s.entries[models.SpeciesBuffalo].form)
}

// EditMode reports whether submitting the species updates an existing record
func (s *HerdSession) EditMode(species models.Species) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(species)
	return err == nil && e.existing != nil
}

// RecordID returns the id of the record being edited, or 0 in creation mode
func (s *HerdSession) RecordID(species models.Species) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(species)
	if err != nil || e.existing == nil {
		return 0
	}
	return e.existing.ID
}

// Load looks up both species for userID concurrently. A failed or empty
// lookup leaves that species blank in creation mode; only cancellation of
// ctx fails the load.
func (h *HerdReconciler) Load(ctx context.Context, userID int64) (*HerdSession, error) {
	found := make([]*models.HerdRecord, len(models.AllSpecies))

	g, gctx := errgroup.WithContext(ctx)
	for i, species := range models.AllSpecies {
		g.Go(func() error {
			records, err := h.api.HerdByUser(gctx, species, userID)
			if err != nil {
				h.log.Warn("herd lookup failed, starting blank",
					"species", species, "user_id", userID, "error", err)
				return nil
			}
			if len(records) == 0 {
				h.log.Debug("no existing herd record", "species", species, "user_id", userID)
				return nil
			}
			rec := records[0]
			found[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &HerdSession{UserID: userID, entries: make(map[models.Species]*herdEntry)}
	for i, species := range models.AllSpecies {
		e := &herdEntry{form: forms.NewHerdForm(species)}
		if rec := found[i]; rec != nil {
			e.form = forms.FromRecord(species, *rec)
			e.existing = rec
			h.log.Info("loaded existing herd record", "species", species, "user_id", userID, "record_id", rec.ID)
		}
		s.entries[species] = e
	}
	return s, nil
}

// Action is what a submission did for one species
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// SpeciesResult is the outcome of one species' request
type SpeciesResult struct {
	Species models.Species
	Action  Action
	Record  models.HerdRecord
	Err     error
}

// SubmitReport lists one result per request issued, in species order
type SubmitReport struct {
	Results []SpeciesResult
}

// OK reports whether every issued request succeeded
func (r SubmitReport) OK() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return len(r.Results) > 0
}

// Err joins the failures, each prefixed by species and action
func (r SubmitReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", res.Action, res.Species.Singular(), res.Err))
		}
	}
	return errors.Join(errs...)
}

type herdRequest struct {
	species  models.Species
	action   Action
	recordID int64
	payload  models.HerdRecordRequest
}

// Submit sends every species that has at least one count entered: an
// update of the loaded record or a create for the session's user. Requests
// run concurrently and one failing does not stop the other. The returned
// error is nil only when every request succeeded.
//
// A species that was created switches to edit mode so the next Submit
// updates it.
func (h *HerdReconciler) Submit(ctx context.Context, s *HerdSession) (SubmitReport, error) {
	var reqs []herdRequest

	s.mu.Lock()
	for _, species := range models.AllSpecies {
		e := s.entries[species]
		if !forms.HasAnyCount(e.form) {
			continue
		}
		r := herdRequest{species: species, payload: forms.Payload(e.form)}
		if e.existing != nil {
			r.action = ActionUpdate
			r.recordID = e.existing.ID
		} else {
			r.action = ActionCreate
			r.payload.UserID = s.UserID
		}
		reqs = append(reqs, r)
	}
	s.mu.Unlock()

	if len(reqs) == 0 {
		return SubmitReport{}, ErrNothingToSubmit
	}

	report := SubmitReport{Results: make([]SpeciesResult, len(reqs))}

	var g errgroup.Group
	for i, r := range reqs {
		g.Go(func() error {
			res := SpeciesResult{Species: r.species, Action: r.action}
			switch r.action {
			case ActionUpdate:
				res.Record, res.Err = h.api.UpdateHerd(ctx, r.species, r.recordID, r.payload)
			default:
				res.Record, res.Err = h.api.CreateHerd(ctx, r.species, r.payload)
			}
			report.Results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	for _, res := range report.Results {
		if res.Err != nil {
			h.log.Error("herd submit failed",
				"species", res.Species, "action", res.Action, "user_id", s.UserID, "error", res.Err)
			continue
		}
		rec := res.Record
		s.entries[res.Species].existing = &rec
		h.log.Info("herd submitted",
			"species", res.Species, "action", res.Action, "user_id", s.UserID, "record_id", rec.ID)
	}
	s.mu.Unlock()

	return report, report.Err()
}
