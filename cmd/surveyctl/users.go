// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/dairy-survey/models"
)

func newRegisterCmd(a *app) *cobra.Command {
	var req models.RegisterRequest
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new farmer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				req.Latitude, req.Longitude = &lat, &lng
			}
			user, err := a.client().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.printf("Registered user %d (registration id %s)\n", user.ID, user.RegistrationID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.Surname, "surname", "", "surname")
	f.StringVar(&req.Gender, "gender", "", "male, female or other")
	f.StringVar(&req.DOB, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Password, "password", "", "password")
	f.StringVar(&req.State, "state", "", "state")
	f.StringVar(&req.District, "district", "", "district")
	f.StringVar(&req.Block, "block", "", "block")
	f.StringVar(&req.Village, "village", "", "village")
	f.Float64Var(&lat, "lat", 0, "latitude of the farm")
	f.Float64Var(&lng, "lng", 0, "longitude of the farm")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the user in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client().Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.cfg.Token = resp.Token
			a.cfg.UserID = resp.User.ID
			if err := a.saveConfig(); err != nil {
				return err
			}
			a.printf("Logged in as %s %s (user %d)\n", resp.User.FirstName, resp.User.Surname, resp.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client().Me(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%d\t%s %s\t%s\t%s\n", user.ID, user.FirstName, user.Surname, user.Phone, user.RegistrationID)
			return nil
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered farms with a location fix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.client().ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tVILLAGE\tLAT\tLNG")
			for _, u := range users {
				switch {
				case u.HasLocation():
					fmt.Fprintf(tw, "%d\t%s %s\t%s\t%.5f\t%.5f\n",
						u.ID, u.FirstName, u.Surname, u.Village, *u.Latitude, *u.Longitude)
				case all:
					fmt.Fprintf(tw, "%d\t%s %s\t%s\t-\t-\n", u.ID, u.FirstName, u.Surname, u.Village)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include users without a location")
	return cmd
}
