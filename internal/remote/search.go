package remote

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

const (
	pathSuggest = "/api/search/suggest"
	pathSearch  = "/api/search"
)

// DefaultTypes are the buckets requested when none are given
var DefaultTypes = []string{"productos", "emprendimientos", "emprendedores"}

type suggestResponse struct {
	Sugerencias catalog.SuggestionSet `json:"sugerencias"`
}

// Suggest fetches dropdown suggestions for q
func (c *Client) Suggest(ctx context.Context, q string) (catalog.SuggestionSet, error) {
	var resp suggestResponse
	if err := c.getJSON(ctx, pathSuggest, url.Values{"q": {q}}, "", &resp); err != nil {
		return catalog.SuggestionSet{}, err
	}
	return resp.Sugerencias, nil
}

// SearchParams describes a full search
type SearchParams struct {
	Query string
	Types []string
	Page  int
	Limit int
}

type searchResponse struct {
	Results catalog.Buckets `json:"results"`
	Counts  catalog.Counts  `json:"counts"`
}

// Search runs a full search; the result records the query, page and limit sent
func (c *Client) Search(ctx context.Context, p SearchParams) (catalog.SearchResult, error) {
	types := p.Types
	if len(types) == 0 {
		types = DefaultTypes
	}
	if p.Page < 1 {
		p.Page = 1
	}

	query := url.Values{
		"q":     {p.Query},
		"types": {strings.Join(types, ",")},
		"page":  {strconv.Itoa(p.Page)},
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}

	var resp searchResponse
	if err := c.getJSON(ctx, pathSearch, query, "", &resp); err != nil {
		return catalog.SearchResult{}, err
	}

	return catalog.SearchResult{
		Query:   p.Query,
		Page:    p.Page,
		Limit:   p.Limit,
		Results: resp.Results,
		Counts:  resp.Counts,
	}, nil
}
