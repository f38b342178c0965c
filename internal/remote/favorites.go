package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

const (
	pathFavoritesMine   = "/api/favoritos/mine"
	pathFavoritesToggle = "/api/favoritos/toggle"
)

// MyFavorites lists the caller's favorites
func (c *Client) MyFavorites(ctx context.Context, token string) ([]catalog.Favorite, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, pathFavoritesMine, nil, token, &raw); err != nil {
		return nil, err
	}

	favs := make([]catalog.Favorite, 0)
	if err := decodeList(raw, "favoritos", &favs); err != nil {
		return nil, fmt.Errorf("GET %s: %w", pathFavoritesMine, err)
	}
	return favs, nil
}

// ToggleFavorite flips a favorite on the server and returns its verdict
func (c *Client) ToggleFavorite(ctx context.Context, token string, req catalog.ToggleRequest) (catalog.ToggleResponse, error) {
	var resp catalog.ToggleResponse
	if err := c.postJSON(ctx, pathFavoritesToggle, token, req, &resp); err != nil {
		return catalog.ToggleResponse{}, err
	}

	if resp.Action != catalog.ActionAdded && resp.Action != catalog.ActionRemoved {
		return catalog.ToggleResponse{}, fmt.Errorf("POST %s: %w: unknown action %q", pathFavoritesToggle, ErrDecode, resp.Action)
	}
	return resp, nil
}
