// Package remote implements the SearchEngine interface against the hosted
// search HTTP API. All calls go through the shared retrying client wrapped
// in a circuit breaker, so a degraded search backend trips open instead of
// piling up timeouts.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
	"github.com/tofucode-dev/tofu-store/pkg/httpclient"
)

const (
	headerAppID  = "X-Algolia-Application-Id"
	headerAPIKey = "X-Algolia-API-Key"
)

// Config holds the hosted search connection settings.
type Config struct {
	BaseURL   string
	AppID     string
	APIKey    string
	IndexName string
}

// Engine is a SearchEngine backed by the hosted search API.
type Engine struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// New creates a hosted search engine.
func New(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// queryRequest is the hosted API search body. Its page numbering is
// 0-based, unlike the rest of the storefront.
type queryRequest struct {
	Query             string     `json:"query"`
	Page              int        `json:"page"`
	HitsPerPage       int        `json:"hitsPerPage"`
	Facets            []string   `json:"facets,omitempty"`
	FacetFilters      [][]string `json:"facetFilters,omitempty"`
	NumericFilters    []string   `json:"numericFilters,omitempty"`
	MaxValuesPerFacet int        `json:"maxValuesPerFacet,omitempty"`
}

type queryResponse struct {
	Hits             []domain.Product              `json:"hits"`
	NbHits           int                           `json:"nbHits"`
	Page             int                           `json:"page"`
	NbPages          int                           `json:"nbPages"`
	HitsPerPage      int                           `json:"hitsPerPage"`
	Facets           map[string]domain.FacetCounts `json:"facets"`
	ProcessingTimeMS int64                         `json:"processingTimeMS"`
}

// Search executes a faceted query against the hosted index.
func (e *Engine) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 20
	}

	body := queryRequest{
		Query:             query.Query,
		Page:              page - 1,
		HitsPerPage:       perPage,
		Facets:            append(domain.HierarchicalFacetAttributes(), "brand", "rating"),
		FacetFilters:      buildFacetFilters(query),
		NumericFilters:    buildNumericFilters(query),
		MaxValuesPerFacet: 100,
	}

	var resp queryResponse
	if err := e.postQuery(ctx, body, &resp); err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Products:   resp.Hits,
		Total:      resp.NbHits,
		Page:       resp.Page + 1,
		PerPage:    resp.HitsPerPage,
		TotalPages: resp.NbPages,
		Facets:     splitFacets(resp.Facets),
		TookMs:     resp.ProcessingTimeMS,
	}, nil
}

// GetObject fetches a single product by object ID.
func (e *Engine) GetObject(ctx context.Context, objectID string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/1/indexes/%s/%s",
		e.cfg.BaseURL, url.PathEscape(e.cfg.IndexName), url.PathEscape(objectID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create object request: %w", err)
	}
	e.setAuthHeaders(req)

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch object %s: %w", objectID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NotFound("product", objectID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp, "fetch object "+objectID)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode object %s: %w", objectID, err)
	}
	return &product, nil
}

// Facets returns index-wide value counts for the given attributes by
// running an empty query with zero hits.
func (e *Engine) Facets(ctx context.Context, attributes []string, maxValues int) (map[string]domain.FacetCounts, error) {
	body := queryRequest{
		Query:             "",
		HitsPerPage:       0,
		Facets:            attributes,
		MaxValuesPerFacet: maxValues,
	}

	var resp queryResponse
	if err := e.postQuery(ctx, body, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]domain.FacetCounts, len(attributes))
	for _, attr := range attributes {
		counts := resp.Facets[attr]
		if counts == nil {
			counts = domain.FacetCounts{}
		}
		out[attr] = counts
	}
	return out, nil
}

func (e *Engine) postQuery(ctx context.Context, body queryRequest, out *queryResponse) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal search request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/1/indexes/%s/query", e.cfg.BaseURL, url.PathEscape(e.cfg.IndexName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	e.setAuthHeaders(req)

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp, "search")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	return nil
}

func (e *Engine) setAuthHeaders(req *http.Request) {
	req.Header.Set(headerAppID, e.cfg.AppID)
	req.Header.Set(headerAPIKey, e.cfg.APIKey)
}

// readAPIError turns a non-2xx hosted API response into an error carrying
// the status and (truncated) body.
func readAPIError(resp *http.Response, op string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: search api returned status %d: %s", op, resp.StatusCode, string(body))
}

// buildFacetFilters translates the query's selections into hosted API facet
// filters: inner groups are ORed, outer groups ANDed. The category path
// collapses into a single filter at its depth since deeper facet values
// embed their ancestors.
func buildFacetFilters(query *domain.SearchQuery) [][]string {
	var filters [][]string

	if len(query.CategoryPath) > 0 {
		depth := len(query.CategoryPath) - 1
		attr := domain.HierarchicalFacetAttributes()[min(depth, domain.HierarchyLevels-1)]
		value := strings.Join(query.CategoryPath, domain.HierarchySeparator)
		filters = append(filters, []string{attr + ":" + value})
	}
	if len(query.Brands) > 0 {
		group := make([]string, len(query.Brands))
		for i, b := range query.Brands {
			group[i] = "brand:" + b
		}
		filters = append(filters, group)
	}
	if len(query.Ratings) > 0 {
		group := make([]string, len(query.Ratings))
		for i, r := range query.Ratings {
			group[i] = "rating:" + r
		}
		filters = append(filters, group)
	}

	return filters
}

func buildNumericFilters(query *domain.SearchQuery) []string {
	var filters []string
	if query.PriceMin != nil {
		filters = append(filters, fmt.Sprintf("price>=%g", *query.PriceMin))
	}
	if query.PriceMax != nil {
		filters = append(filters, fmt.Sprintf("price<=%g", *query.PriceMax))
	}
	return filters
}

// splitFacets distributes the flat facet map into the storefront's typed
// facet groups.
func splitFacets(facets map[string]domain.FacetCounts) domain.Facets {
	out := domain.Facets{
		Brands:     facets["brand"],
		Ratings:    facets["rating"],
		Categories: make(map[string]domain.FacetCounts),
	}
	if out.Brands == nil {
		out.Brands = domain.FacetCounts{}
	}
	if out.Ratings == nil {
		out.Ratings = domain.FacetCounts{}
	}
	for _, attr := range domain.HierarchicalFacetAttributes() {
		counts := facets[attr]
		if counts == nil {
			counts = domain.FacetCounts{}
		}
		out.Categories[attr] = counts
	}
	return out
}
