// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/dairy-survey/client"
	"github.com/danielhkuo/dairy-survey/cliparse"
	"github.com/danielhkuo/dairy-survey/store"
)

// app holds what every subcommand shares: resolved configuration, the
// logger and the output stream.
type app struct {
	configPath string
	baseURL    string
	storePath  string
	userID     int64
	verbose    bool

	cfg cliparse.ClientConfig
	log *slog.Logger
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Dairy survey client",
		Long: `surveyctl records herd composition and infrastructure scores
against a dairy-survey server and keeps a local copy of submitted scores.

Settings come from the config file, then SURVEY_* environment variables,
then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", cliparse.DefaultClientConfigPath(), "config file")
	pf.StringVar(&a.baseURL, "base-url", "", "server base URL")
	pf.StringVar(&a.storePath, "store", "", "local store file")
	pf.Int64Var(&a.userID, "user", 0, "user id to act as")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newWhoamiCmd(a),
		newUsersCmd(a),
		newHerdCmd(a),
		newSectionsCmd(a),
		newAssessCmd(a),
		newCacheCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := cliparse.LoadClientConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if flags.Changed("store") {
		cfg.StorePath = a.storePath
	}
	if flags.Changed("user") {
		cfg.UserID = a.userID
	}
	a.cfg = cfg
	return nil
}

func (a *app) client() *client.Client {
	opts := []client.Option{client.WithLogger(a.log)}
	if a.cfg.Token != "" {
		opts = append(opts, client.WithToken(a.cfg.Token))
	}
	return client.New(a.cfg.BaseURL, opts...)
}

// repository opens the local store. The returned func closes it.
func (a *app) repository() (*store.Repository, func(), error) {
	kv, err := store.OpenSQLite(a.cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRepository(kv), func() {
		if err := kv.Close(); err != nil {
			a.log.Warn("failed to close local store", "path", kv.Path(), "error", err)
		}
	}, nil
}

func (a *app) requireUser() (int64, error) {
	if a.cfg.UserID <= 0 {
		return 0, errors.New("no user selected: run login or pass --user")
	}
	return a.cfg.UserID, nil
}

func (a *app) saveConfig() error {
	if err := cliparse.SaveClientConfig(a.configPath, a.cfg); err != nil {
		return err
	}
	a.log.Debug("config saved", "path", a.configPath)
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

