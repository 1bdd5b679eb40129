package engine

import (
	"context"

	"github.com/tofucode-dev/tofu-store/internal/domain"
)

// SearchEngine is the read-side abstraction over the hosted product index.
// Implementations may call the hosted search API or serve from memory.
type SearchEngine interface {
	// Search executes a faceted product search.
	Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error)

	// GetObject fetches a single product by its object ID.
	GetObject(ctx context.Context, objectID string) (*domain.Product, error)

	// Facets returns value counts for the given facet attributes across the
	// whole index, at most maxValues per attribute. Used by the slug table
	// generator and the sitemap builder.
	Facets(ctx context.Context, attributes []string, maxValues int) (map[string]domain.FacetCounts, error)
}
