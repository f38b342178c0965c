package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/searchctl"
	"github.com/spf13/cobra"
)

const browseHelp = `type to update the query; commands:
  :up :down      move the highlight
  :enter         pick the highlighted suggestion or search
  :esc           close the dropdown
  :submit        search the current text
  :select N      search the N-th suggestion (from 0)
  :quit          exit`

func newBrowseCmd(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Drive the search box from stdin",
		Long:  browseHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := obs.Ctx(cmd.Context())

			snap, err := a.client.LoadCatalog(cmd.Context())
			if err != nil {
				// Short queries fall back to an empty local catalog
				logger.Warn().Err(err).Msg("catalog unavailable for local search")
			}

			ctl := searchctl.New(searchctl.Options{
				Client:        a.client,
				Catalog:       snap,
				Renderer:      a.term,
				Debounce:      a.cfg.SuggestDebounce,
				Limit:         a.cfg.SearchLimit,
				LocalFallback: local || a.cfg.LocalFallback,
				Logger:        &logger,
			})
			defer ctl.Close()

			fmt.Fprintln(cmd.ErrOrStderr(), browseHelp)
			return runBrowse(cmd.InOrStdin(), ctl)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "show local matches while remote suggestions load")

	return cmd
}

// runBrowse feeds stdin lines to the controller until EOF or :quit
func runBrowse(in io.Reader, ctl *searchctl.Controller) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			ctl.Input(line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":up":
			ctl.ArrowUp()
		case ":down":
			ctl.ArrowDown()
		case ":enter":
			ctl.Enter()
		case ":esc":
			ctl.Escape()
		case ":submit":
			ctl.Submit()
		case ":select":
			if len(fields) < 2 {
				continue
			}
			if i, err := strconv.Atoi(fields[1]); err == nil {
				ctl.Select(i)
			}
		case ":quit":
			ctl.Wait()
			return nil
		default:
			ctl.Input(line)
		}
	}

	ctl.Wait()
	return scanner.Err()
}
