package main

import (
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/remote"
	"github.com/dsjohal14/quitoemprende/internal/searchctl"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		types []string
		page  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a full search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			if limit <= 0 {
				limit = a.cfg.SearchLimit
			}

			res, err := a.client.Search(cmd.Context(), remote.SearchParams{
				Query: q,
				Types: types,
				Page:  page,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			logger := obs.Ctx(cmd.Context())
			logger.Debug().Str("query", q).Int("total", res.Counts.Total()).Msg("search done")

			a.term.Render(searchctl.Snapshot{Phase: searchctl.PhaseResults, Query: q, Results: &res})
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&types, "types", nil, "buckets to search: productos,emprendimientos,emprendedores")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (defaults to SEARCH_LIMIT)")

	return cmd
}
