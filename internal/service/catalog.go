package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/engine"
	"github.com/tofucode-dev/tofu-store/internal/routing"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

const (
	// sitemapMaxProducts caps how many product URLs the sitemap includes.
	sitemapMaxProducts = 1000
	// sitemapPageSize is the search page size used while collecting products.
	sitemapPageSize = 100
)

// ListingPage is the response for a listing request: the search result plus
// the state the URL decoded to and the canonical URL for that state.
type ListingPage struct {
	Result       *domain.SearchResult `json:"result"`
	State        routing.SearchState  `json:"state"`
	CanonicalURL string               `json:"canonical_url"`
}

// CatalogService implements the business logic for product listing, product
// detail and sitemap generation. It is the only layer that touches both the
// URL routing scheme and the search engine.
type CatalogService struct {
	engine engine.SearchEngine
	mapper *routing.Mapper
	origin string
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service. origin is the public base
// URL used for canonical and sitemap links, without a trailing slash.
func NewCatalogService(eng engine.SearchEngine, mapper *routing.Mapper, origin string, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		engine: eng,
		mapper: mapper,
		origin: origin,
		logger: logger,
	}
}

// ListProducts decodes the request URL into a search state, runs the search
// and returns the result together with the canonical URL for that state.
func (s *CatalogService) ListProducts(ctx context.Context, u *url.URL) (*ListingPage, error) {
	state := s.mapper.RouteToState(routing.ParseURL(u))

	result, err := s.engine.Search(ctx, buildSearchQuery(state))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	s.logger.DebugContext(ctx, "listing served",
		slog.String("query", state.Query),
		slog.Int("page", result.Page),
		slog.Int("total", result.Total),
	)

	return &ListingPage{
		Result:       result,
		State:        state,
		CanonicalURL: routing.CreateURL(s.mapper.StateToRoute(state), s.origin),
	}, nil
}

// GetProductBySlug resolves a product detail slug to a product. The trailing
// slug segment is the object ID; the name part is display-only and ignored.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	id, ok := routing.ParseProductIDFromSlug(slug)
	if !ok {
		return nil, apperrors.NotFound("product", slug)
	}

	product, err := s.engine.GetObject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	return product, nil
}

// sitemapURLSet is the sitemap XML document root.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// Sitemap renders the sitemap XML: the home and listing pages, one listing
// page per top-level category, and up to a fixed number of product detail
// pages ordered by the engine's default ranking.
func (s *CatalogService) Sitemap(ctx context.Context) ([]byte, error) {
	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.origin + "/", ChangeFreq: "daily", Priority: 1.0},
			{Loc: s.origin + routing.ListingBasePath, ChangeFreq: "daily", Priority: 0.9},
		},
	}

	lvl0 := domain.HierarchicalFacetAttributes()[0]
	facets, err := s.engine.Facets(ctx, []string{lvl0}, sitemapPageSize)
	if err != nil {
		return nil, fmt.Errorf("sitemap category facets: %w", err)
	}

	categories := make([]string, 0, len(facets[lvl0]))
	for value := range facets[lvl0] {
		categories = append(categories, value)
	}
	sort.Strings(categories)

	for _, value := range categories {
		route := s.mapper.StateToRoute(routing.SearchState{CategoryPath: []string{value}})
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        routing.CreateURL(route, s.origin),
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	products, err := s.collectSitemapProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.origin + routing.ProductURL(p.Name, p.ObjectID),
			ChangeFreq: "weekly",
			Priority:   0.7,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

// collectSitemapProducts pages through the full index until the product cap
// or the last page is reached.
func (s *CatalogService) collectSitemapProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	for page := 1; len(products) < sitemapMaxProducts; page++ {
		result, err := s.engine.Search(ctx, &domain.SearchQuery{Page: page, PerPage: sitemapPageSize})
		if err != nil {
			return nil, fmt.Errorf("sitemap product page %d: %w", page, err)
		}
		if len(result.Products) == 0 {
			break
		}

		products = append(products, result.Products...)
		if page >= result.TotalPages {
			break
		}
	}

	if len(products) > sitemapMaxProducts {
		products = products[:sitemapMaxProducts]
	}

	return products, nil
}

// buildSearchQuery projects the URL-derived state onto an engine query. The
// price token is split into numeric bounds here so the engine never sees the
// URL encoding.
func buildSearchQuery(state routing.SearchState) *domain.SearchQuery {
	query := &domain.SearchQuery{
		Query:        state.Query,
		CategoryPath: state.CategoryPath,
		Brands:       state.Brands,
		Ratings:      state.Ratings,
		Page:         state.Page,
	}

	if state.Price != "" {
		query.PriceMin, query.PriceMax = domain.ParsePriceRange(state.Price)
	}

	return query
}
