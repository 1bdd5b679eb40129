// Package memory implements the SearchEngine interface over an in-process
// product map. It is a functional stand-in for the hosted index in local
// development and tests, not a ranking engine.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Engine is an in-memory SearchEngine. Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// New creates an empty in-memory engine.
func New() *Engine {
	return &Engine{
		products: make(map[string]domain.Product),
	}
}

// Index adds or updates a single product.
func (e *Engine) Index(_ context.Context, product *domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products[product.ObjectID] = *product
	return nil
}

// BulkIndex adds or updates multiple products.
func (e *Engine) BulkIndex(_ context.Context, products []domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range products {
		e.products[products[i].ObjectID] = products[i]
	}
	return nil
}

// LoadCatalog bulk-indexes products from a JSON array document.
func (e *Engine) LoadCatalog(ctx context.Context, data []byte) (int, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	if err := e.BulkIndex(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// Search executes a faceted query against the in-memory index. Results are
// ordered by popularity, then name, so pagination is deterministic. Facet
// counts are computed over the filtered set.
func (e *Engine) Search(_ context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(query.Query)
	matched := make([]domain.Product, 0)
	for _, p := range e.products {
		if e.matches(p, query, queryLower) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Popularity != matched[j].Popularity {
			return matched[i].Popularity > matched[j].Popularity
		}
		return matched[i].Name < matched[j].Name
	})

	facets := e.computeFacets(matched)

	total := len(matched)
	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &domain.SearchResult{
		Products:   matched[offset:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Facets:     facets,
		TookMs:     time.Since(start).Milliseconds(),
	}, nil
}

// GetObject fetches a single product by object ID.
func (e *Engine) GetObject(_ context.Context, objectID string) (*domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.products[objectID]
	if !ok {
		return nil, apperrors.NotFound("product", objectID)
	}
	return &p, nil
}

// Facets returns value counts for the given attributes across the whole
// index, keeping at most maxValues entries per attribute (highest counts
// first).
func (e *Engine) Facets(_ context.Context, attributes []string, maxValues int) (map[string]domain.FacetCounts, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]domain.FacetCounts, len(attributes))
	for _, attr := range attributes {
		counts := make(domain.FacetCounts)
		for _, p := range e.products {
			for _, v := range attributeValues(p, attr) {
				counts[v]++
			}
		}
		out[attr] = topValues(counts, maxValues)
	}
	return out, nil
}

// matches checks whether a product passes every filter of the query.
func (e *Engine) matches(p domain.Product, query *domain.SearchQuery, queryLower string) bool {
	if queryLower != "" {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		brand := strings.ToLower(p.Brand)
		if !strings.Contains(name, queryLower) &&
			!strings.Contains(desc, queryLower) &&
			!strings.Contains(brand, queryLower) {
			return false
		}
	}

	// Category drill-down: the product's facet value at the selection's
	// depth must equal the joined path. Deeper products repeat ancestors in
	// every level, so ancestor selections match descendants.
	if len(query.CategoryPath) > 0 {
		depth := len(query.CategoryPath) - 1
		want := strings.Join(query.CategoryPath, domain.HierarchySeparator)
		if p.HierarchicalCategories.Level(depth) != want {
			return false
		}
	}

	if len(query.Brands) > 0 && !containsString(query.Brands, p.Brand) {
		return false
	}
	if len(query.Ratings) > 0 && !containsString(query.Ratings, strconv.Itoa(p.Rating)) {
		return false
	}
	if query.PriceMin != nil && p.Price < *query.PriceMin {
		return false
	}
	if query.PriceMax != nil && p.Price > *query.PriceMax {
		return false
	}

	return true
}

// computeFacets builds brand, rating and per-level category distributions
// over the matched set.
func (e *Engine) computeFacets(matched []domain.Product) domain.Facets {
	facets := domain.Facets{
		Brands:     make(domain.FacetCounts),
		Ratings:    make(domain.FacetCounts),
		Categories: make(map[string]domain.FacetCounts),
	}
	for _, attr := range domain.HierarchicalFacetAttributes() {
		facets.Categories[attr] = make(domain.FacetCounts)
	}

	for _, p := range matched {
		if p.Brand != "" {
			facets.Brands[p.Brand]++
		}
		if p.Rating > 0 {
			facets.Ratings[strconv.Itoa(p.Rating)]++
		}
		for depth, attr := range domain.HierarchicalFacetAttributes() {
			if v := p.HierarchicalCategories.Level(depth); v != "" {
				facets.Categories[attr][v]++
			}
		}
	}
	return facets
}

// attributeValues extracts the facet values a product contributes to the
// given attribute.
func attributeValues(p domain.Product, attr string) []string {
	switch attr {
	case "brand":
		if p.Brand == "" {
			return nil
		}
		return []string{p.Brand}
	case "rating":
		if p.Rating == 0 {
			return nil
		}
		return []string{strconv.Itoa(p.Rating)}
	case "categories":
		return p.Categories
	default:
		for depth, hierAttr := range domain.HierarchicalFacetAttributes() {
			if attr == hierAttr {
				if v := p.HierarchicalCategories.Level(depth); v != "" {
					return []string{v}
				}
				return nil
			}
		}
		return nil
	}
}

// topValues keeps the maxValues highest-count entries. maxValues <= 0 keeps
// everything.
func topValues(counts domain.FacetCounts, maxValues int) domain.FacetCounts {
	if maxValues <= 0 || len(counts) <= maxValues {
		return counts
	}

	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].value < pairs[j].value
	})

	kept := make(domain.FacetCounts, maxValues)
	for _, p := range pairs[:maxValues] {
		kept[p.value] = p.count
	}
	return kept
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
