// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dairy-survey/client"
	"github.com/danielhkuo/dairy-survey/forms"
	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/reconcile"
	"github.com/danielhkuo/dairy-survey/store"
	"github.com/danielhkuo/dairy-survey/testutil"
	"github.com/danielhkuo/dairy-survey/testutil/testserver"
)

func TestHerdRoundTrip(t *testing.T) {
	srv, conn := testserver.New(t)
	userID := testutil.CreateTestUser(t, conn, "9500000001")
	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	h := reconcile.NewHerdReconciler(c, nil)
	ctx := context.Background()

	s, err := h.Load(ctx, userID)
	require.NoError(t, err)
	assert.False(t, s.EditMode(models.SpeciesCow))
	assert.False(t, s.EditMode(models.SpeciesBuffalo))

	for field, v := range map[string]string{
		forms.FieldTotal: "10", forms.FieldMilking: "6", forms.FieldDry: "4", forms.FieldCalvesHeifers: "0",
	} {
		require.NoError(t, s.SetField(models.SpeciesCow, field, v))
	}
	require.NoError(t, s.SetBreed(models.SpeciesCow, "HF", "6"))

	report, err := h.Submit(ctx, s)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, reconcile.ActionCreate, report.Results[0].Action)
	assert.Equal(t, 1, testutil.CountRows(t, conn, "herd_record", "species = $1", "cows"))
	assert.Equal(t, 0, testutil.CountRows(t, conn, "herd_record", "species = $1", "buffaloes"))

	s, err = h.Load(ctx, userID)
	require.NoError(t, err)
	require.True(t, s.EditMode(models.SpeciesCow))
	cow := s.Form(models.SpeciesCow)
	assert.Equal(t, "10", cow.Total)
	assert.Equal(t, forms.Breed{Name: "HF", Count: "6"}, cow.Breeds[0])
	assert.Equal(t, forms.Breed{Name: "Jersey", Count: ""}, cow.Breeds[1])
	assert.Equal(t, 50, s.Progress())

	require.NoError(t, s.SetField(models.SpeciesCow, forms.FieldMilking, "7"))
	report, err = h.Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionUpdate, report.Results[0].Action)
	assert.Equal(t, 7, report.Results[0].Record.Milking)
	assert.Equal(t, 1, testutil.CountRows(t, conn, "herd_record", ""))
}

func TestAssessmentRoundTrip(t *testing.T) {
	srv, conn := testserver.New(t)
	userID := testutil.CreateTestUser(t, conn, "9500000002")
	testutil.CreateTestScore(t, conn, userID, 1, 2)

	c := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	repo := store.NewRepository(store.NewMemory())
	ctx := context.Background()

	s, err := reconcile.NewAssessment(c, repo, nil).Open(ctx, userID, 1)
	require.NoError(t, err)
	defer s.Close()

	subs := s.Subsections()
	require.Len(t, subs, 6)
	assert.Equal(t, map[int64]int{1: 2}, s.Scores().Existing)
	assert.Equal(t, reconcile.LabelUpdate, s.SubmitLabel(1))

	second := subs[1].ID
	descs, err := s.Expand(ctx, second)
	require.NoError(t, err)
	require.Len(t, descs, 3)
	assert.NotEqual(t, "Bad Practice", descs[0].Description, "seeded rubric text is served")

	require.NoError(t, s.Select(second, 3))
	rec, err := s.Submit(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, second, rec.SubsectionID)
	assert.Equal(t, int64(1), rec.SectionID)
	assert.Equal(t, reconcile.Submitted, s.State(second))

	require.NoError(t, s.Select(1, 3))
	_, err = s.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, testutil.CountRows(t, conn, "score", "user_id = $1", userID))

	cached, err := repo.Scores(ctx, userID, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 3, second: 3}, cached.Existing)
}
