// Package main implements the QuitoEmprende CLI: one-shot API calls and an
// interactive search box driven from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/dsjohal14/quitoemprende/internal/libs/config"
	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/remote"
	"github.com/dsjohal14/quitoemprende/internal/render"
	"github.com/spf13/cobra"
)

// app carries what every command needs once the root pre-run has finished
type app struct {
	cfg    *config.Config
	client *remote.Client
	term   *render.Terminal

	apiURL   string
	token    string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "quitoemprende",
		Short:         "QuitoEmprende marketplace CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (overrides API_TOKEN)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newSuggestCmd(a),
		newSearchCmd(a),
		newFavoritesCmd(a),
		newBrowseCmd(a),
		newTokenCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.token != "" {
		cfg.APIToken = a.token
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	// Logs go to stderr so stdout only carries results
	obs.InitLogger(cfg.LogLevel)
	obs.UseWriter(os.Stderr)
	logger := obs.Logger("cli")

	client, err := remote.New(remote.Options{BaseURL: cfg.APIBaseURL, Logger: &logger})
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}
	a.client = client
	a.term = render.New(cmd.OutOrStdout())

	cmd.SetContext(obs.WithLogger(cmd.Context(), logger))
	return nil
}
