package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

const (
	pathProducts = "/api/productos"
	pathVentures = "/api/emprendimientos"
)

// Products lists the product catalog
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, pathProducts, nil, "", &raw); err != nil {
		return nil, err
	}
	products := make([]catalog.Product, 0)
	if err := decodeList(raw, "productos", &products); err != nil {
		return nil, fmt.Errorf("GET %s: %w", pathProducts, err)
	}
	return products, nil
}

// Ventures lists the venture catalog
func (c *Client) Ventures(ctx context.Context) ([]catalog.Venture, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, pathVentures, nil, "", &raw); err != nil {
		return nil, err
	}
	ventures := make([]catalog.Venture, 0)
	if err := decodeList(raw, "emprendimientos", &ventures); err != nil {
		return nil, fmt.Errorf("GET %s: %w", pathVentures, err)
	}
	return ventures, nil
}

// LoadCatalog fetches both collections concurrently into a snapshot
func (c *Client) LoadCatalog(ctx context.Context) (catalog.Snapshot, error) {
	var snap catalog.Snapshot

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Products, err = c.Products(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		snap.Ventures, err = c.Ventures(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	c.logger.Debug().
		Int("products", len(snap.Products)).
		Int("ventures", len(snap.Ventures)).
		Msg("catalog loaded")

	return snap, nil
}
