package main

import (
	"fmt"
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/spf13/cobra"
)

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Show dropdown suggestions for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			if !textnorm.IsRemote(q) {
				return fmt.Errorf("query must have at least %d characters", textnorm.MinQueryLen)
			}

			set, err := a.client.Suggest(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range set.Flatten() {
				fmt.Fprintf(out, "%-15s %s\n", s.Kind, s.Label)
			}
			if set.Len() == 0 {
				fmt.Fprintln(out, "no suggestions")
			}
			return nil
		},
	}
}
