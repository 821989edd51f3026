// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/dairy-survey/forms"
	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/reconcile"
)

func newHerdCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "herd",
		Short: "Show or submit cow and buffalo counts",
	}
	cmd.AddCommand(newHerdShowCmd(a), newHerdSubmitCmd(a))
	return cmd
}

func newHerdShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the herd form as loaded from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.requireUser()
			if err != nil {
				return err
			}
			s, err := reconcile.NewHerdReconciler(a.client(), a.log).Load(cmd.Context(), userID)
			if err != nil {
				return err
			}
			a.printHerd(s)
			return nil
		},
	}
}

type speciesInput struct {
	fields map[string]string
	breeds map[string]string
}

func newHerdSubmitCmd(a *app) *cobra.Command {
	inputs := map[models.Species]*speciesInput{}
	var strict bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create or update herd records",
		Long: `Loads the current records, applies the given values and submits
every species that has at least one count.

  surveyctl herd submit --cow total=10,milking=6,dry=4,calvesHeifers=0 --cow-breed HF=6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.requireUser()
			if err != nil {
				return err
			}

			h := reconcile.NewHerdReconciler(a.client(), a.log)
			s, err := h.Load(cmd.Context(), userID)
			if err != nil {
				return err
			}

			for _, species := range models.AllSpecies {
				in := inputs[species]
				for name, v := range in.fields {
					if err := s.SetField(species, name, v); err != nil {
						return fmt.Errorf("--%s: %w", species.Singular(), err)
					}
				}
				for _, name := range slices.Sorted(maps.Keys(in.breeds)) {
					if err := s.SetBreed(species, name, in.breeds[name]); err != nil {
						return err
					}
				}
			}

			if strict {
				values := forms.LegacyValues(s.Form(models.SpeciesCow), s.Form(models.SpeciesBuffalo))
				if err := forms.CheckRequired(values); err != nil {
					return err
				}
			}

			report, err := h.Submit(cmd.Context(), s)
			for _, res := range report.Results {
				if res.Err != nil {
					a.printf("%s\t%s\tfailed: %v\n", res.Species.Singular(), res.Action, res.Err)
					continue
				}
				a.printf("%s\t%s\trecord %d\n", res.Species.Singular(), res.Action, res.Record.ID)
			}
			if errors.Is(err, reconcile.ErrNothingToSubmit) {
				return errors.New("nothing to submit: enter at least one count with --cow or --buffalo")
			}
			if err != nil {
				return fmt.Errorf("herd submission failed, please try again: %w", err)
			}
			a.printf("Progress %d%%\n", s.Progress())
			return nil
		},
	}

	f := cmd.Flags()
	for _, species := range models.AllSpecies {
		in := &speciesInput{}
		inputs[species] = in
		name := species.Singular()
		f.StringToStringVar(&in.fields, name, nil,
			fmt.Sprintf("%s counts as %s", name, strings.Join(forms.NumericFields, "=N,")+"=N"))
		f.StringToStringVar(&in.breeds, name+"-breed", nil, fmt.Sprintf("%s breed counts as NAME=N", name))
	}
	f.BoolVar(&strict, "strict", false, "require every field of both species, as the single-page form did")

	return cmd
}

func (a *app) printHerd(s *reconcile.HerdSession) {
	for _, species := range models.AllSpecies {
		mode := "new"
		if s.EditMode(species) {
			mode = fmt.Sprintf("editing record %d", s.RecordID(species))
		}
		a.printf("%s (%s)\n", species.Singular(), mode)

		form := s.Form(species)
		for _, name := range forms.NumericFields {
			v, _ := form.Field(name)
			a.printf("  %-14s %s\n", name, v)
		}
		for _, b := range form.Breeds {
			if b.Count != "" {
				a.printf("  breed %-8s %s\n", b.Name, b.Count)
			}
		}
	}
	a.printf("Progress %d%%\n", s.Progress())
}
