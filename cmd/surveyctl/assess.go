// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/dairy-survey/reconcile"
)

func newSectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List assessment sections and their subsections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := a.client().Sections(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range sections {
				a.printf("%d\t%s\n", s.ID, s.Name)
				for _, sub := range s.Subsections {
					a.printf("  %d\t%s\n", sub.ID, sub.Name)
				}
			}
			return nil
		},
	}
}

// assessFlags are the section and subsection every assess command targets
type assessFlags struct {
	section    int64
	subsection int64
}

func (f *assessFlags) register(cmd *cobra.Command, withSubsection bool) {
	cmd.Flags().Int64Var(&f.section, "section", 0, "section id")
	_ = cmd.MarkFlagRequired("section")
	if withSubsection {
		cmd.Flags().Int64Var(&f.subsection, "subsection", 0, "subsection id")
		_ = cmd.MarkFlagRequired("subsection")
	}
}

// withSession opens an assessment for the configured user and closes it,
// and the local store, when fn returns
func (a *app) withSession(ctx context.Context, sectionID int64, fn func(*reconcile.AssessmentSession) error) error {
	userID, err := a.requireUser()
	if err != nil {
		return err
	}
	repo, closeRepo, err := a.repository()
	if err != nil {
		return err
	}
	defer closeRepo()

	s, err := reconcile.NewAssessment(a.client(), repo, a.log).Open(ctx, userID, sectionID)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

func newAssessCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score infrastructure subsections",
	}
	cmd.AddCommand(
		newAssessShowCmd(a),
		newAssessDescribeCmd(a),
		newAssessScoreCmd(a),
		newAssessImageCmd(a),
	)
	return cmd
}

func newAssessShowCmd(a *app) *cobra.Command {
	var f assessFlags
	var offline bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the scores recorded for a section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if offline {
				return a.showCached(cmd.Context(), f.section)
			}
			return a.withSession(cmd.Context(), f.section, func(s *reconcile.AssessmentSession) error {
				scores := s.Scores()
				images := s.Images()

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSUBSECTION\tSCORE\tACTION\tIMAGE")
				for _, sub := range s.Subsections() {
					score := "-"
					if v, ok := scores.Current[sub.ID]; ok {
						score = fmt.Sprint(v)
					}
					image := images[sub.ID]
					if image == "" {
						image = "-"
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", sub.ID, sub.Name, score, s.SubmitLabel(sub.ID), image)
				}
				return tw.Flush()
			})
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&offline, "offline", false, "show what this device last cached without contacting the server")
	return cmd
}

// showCached prints the local mirror of a section. Subsection names are not
// cached, so rows carry ids only.
func (a *app) showCached(ctx context.Context, sectionID int64) error {
	userID, err := a.requireUser()
	if err != nil {
		return err
	}
	repo, closeRepo, err := a.repository()
	if err != nil {
		return err
	}
	defer closeRepo()

	state, err := repo.Scores(ctx, userID, sectionID)
	if err != nil {
		return err
	}
	images, err := repo.Images(ctx, userID, sectionID)
	if err != nil {
		return err
	}

	ids := slices.Collect(maps.Keys(state.Current))
	for id := range images {
		if _, ok := state.Current[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	if len(ids) == 0 {
		a.printf("Nothing cached for section %d\n", sectionID)
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCORE\tACTION\tIMAGE")
	for _, id := range ids {
		score, action := "-", reconcile.LabelSubmit
		if v, ok := state.Current[id]; ok {
			score = fmt.Sprint(v)
		}
		if _, ok := state.Existing[id]; ok {
			action = reconcile.LabelUpdate
		}
		image := images[id]
		if image == "" {
			image = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", id, score, action, image)
	}
	return tw.Flush()
}

func newAssessDescribeCmd(a *app) *cobra.Command {
	var f assessFlags
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the scoring rubric of a subsection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), f.section, func(s *reconcile.AssessmentSession) error {
				descs, err := s.Expand(cmd.Context(), f.subsection)
				if err != nil {
					return err
				}
				for _, d := range descs {
					a.printf("%d\t%s\n", d.ScoreValue, d.Description)
				}
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newAssessScoreCmd(a *app) *cobra.Command {
	var f assessFlags
	var value int
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Submit or update the score of a subsection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), f.section, func(s *reconcile.AssessmentSession) error {
				if err := s.Select(f.subsection, value); err != nil {
					return err
				}
				label := s.SubmitLabel(f.subsection)
				if _, err := s.Submit(cmd.Context(), f.subsection); err != nil {
					return fmt.Errorf("%s failed, please try again: %w", label, err)
				}
				a.printf("%s: subsection %d scored %d\n", label, f.subsection, value)
				return nil
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().IntVar(&value, "value", 0, "score: 1 bad practice, 2 needs improvement, 3 good practice")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newAssessImageCmd(a *app) *cobra.Command {
	var f assessFlags
	var uri string
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Record a photo for a subsection on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), f.section, func(s *reconcile.AssessmentSession) error {
				if err := s.AttachImage(cmd.Context(), f.subsection, uri); err != nil {
					return err
				}
				a.printf("Image recorded for subsection %d\n", f.subsection)
				return nil
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVar(&uri, "uri", "", "local file URI of the photo")
	_ = cmd.MarkFlagRequired("uri")
	return cmd
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local score cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the user's cached scores and images; the server is untouched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.requireUser()
			if err != nil {
				return err
			}
			repo, closeRepo, err := a.repository()
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.Clear(cmd.Context(), userID); err != nil {
				return err
			}
			a.printf("Cleared local data for user %d\n", userID)
			return nil
		},
	})
	return cmd
}
