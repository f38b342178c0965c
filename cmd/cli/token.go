package main

import (
	"fmt"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/session"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		user string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a dev server token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := session.Mint(a.cfg.JWTSecret, user, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "dev-user", "user id")
	cmd.Flags().StringVar(&role, "role", "cliente", "user role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
