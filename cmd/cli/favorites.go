package main

import (
	"errors"
	"fmt"

	"github.com/dsjohal14/quitoemprende/internal/favorites"
	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/session"
	"github.com/spf13/cobra"
)

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List or toggle favorites of the signed-in user",
	}
	cmd.AddCommand(newFavoritesListCmd(a), newFavoritesToggleCmd(a))
	return cmd
}

func (a *app) coordinator(cmd *cobra.Command) (*favorites.Coordinator, error) {
	reconcile, err := favorites.ParseReconcile(a.cfg.Reconcile)
	if err != nil {
		return nil, err
	}

	logger := obs.Ctx(cmd.Context())
	out := cmd.ErrOrStderr()

	return favorites.New(favorites.Options{
		Client:    a.client,
		Session:   session.NewStore(a.cfg.APIToken),
		Reconcile: reconcile,
		Logger:    &logger,
		OnUnauthenticated: func(intent session.RedirectIntent) {
			fmt.Fprintf(out, "sign in required (%s): open %s or pass --token\n", intent.Reason, intent.Target)
		},
	}), nil
}

func newFavoritesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.coordinator(cmd)
			if err != nil {
				return err
			}
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			a.term.Favorites(c.Records())
			return nil
		},
	}
}

func newFavoritesToggleCmd(a *app) *cobra.Command {
	var (
		kind string
		name string
	)

	cmd := &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Add or remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemKind := catalog.ItemKind(kind)
			if !itemKind.Valid() {
				return fmt.Errorf("--kind must be %s or %s", catalog.ItemProduct, catalog.ItemVenture)
			}

			c, err := a.coordinator(cmd)
			if err != nil {
				return err
			}
			// Loading first lets the optimistic step start from the server state
			if err := c.Load(cmd.Context()); err != nil && !errors.Is(err, favorites.ErrUnauthenticated) {
				return err
			}

			out := c.Toggle(cmd.Context(), args[0], itemKind, catalog.FavoriteMeta{Nombre: name})
			switch out.Status {
			case favorites.StatusCommitted:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", out.Action, args[0])
			case favorites.StatusRedirected:
				return fmt.Errorf("not signed in")
			default:
				if out.Err != nil {
					return fmt.Errorf("toggle %s: %w", out.Status, out.Err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(catalog.ItemProduct), "item kind: Producto or Emprendimiento")
	cmd.Flags().StringVar(&name, "name", "", "display name stored with the favorite")

	return cmd
}
