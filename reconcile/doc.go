// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile keeps a user's local form state in step with what the
survey backend already holds.

# Herd records

HerdReconciler.Load looks up the cow and buffalo records of a user in
parallel. A species with a record is loaded into its form in edit mode;
a species whose lookup fails or comes back empty starts blank in creation
mode. Neither lookup can fail the other.

	h := reconcile.NewHerdReconciler(apiClient, logger)
	s, err := h.Load(ctx, userID)
	s.SetField(models.SpeciesCow, forms.FieldTotal, "10")
	report, err := h.Submit(ctx, s)

Submit sends only species with at least one count entered. Edits go to
PUT /{species}/info/{id} using the loaded record's id; new records are
created with the user's id attached. The report carries one result per
request, so a partial write is visible to the caller.

# Assessment scores

Assessment.Open loads a section's subsections and the user's prior scores.
The prior scores seed both the existing mapping (what the server holds)
and the current mapping (what is shown), and both are mirrored through a
store.Repository.

Each subsection card moves through

	Collapsed -> DescriptionsLoading -> DescriptionsReady -> ScoreSelected -> Submitting -> Submitted

Rubric text is fetched on first expansion only. When the fetch fails the
card shows DefaultDescriptions instead.

Close the session when the user leaves the section. Requests still in
flight are cancelled and their results dropped.
*/
package reconcile
