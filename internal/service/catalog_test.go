package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/engine/memory"
	"github.com/tofucode-dev/tofu-store/internal/routing"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()

	eng := memory.New()
	products := []domain.Product{
		{
			ObjectID: "tv1", Name: "Samsung 55 inch 4K TV", Brand: "Samsung",
			Price: 599.99, Rating: 4, Popularity: 90,
			HierarchicalCategories: &domain.HierarchicalCategories{
				Lvl0: "TV & Home Theater",
				Lvl1: "TV & Home Theater > TVs",
			},
		},
		{
			ObjectID: "tv2", Name: "LG OLED TV", Brand: "LG",
			Price: 1299.99, Rating: 5, Popularity: 80,
			HierarchicalCategories: &domain.HierarchicalCategories{
				Lvl0: "TV & Home Theater",
				Lvl1: "TV & Home Theater > TVs",
			},
		},
		{
			ObjectID: "ac1", Name: "Frigidaire Window Air Conditioner", Brand: "Frigidaire",
			Price: 279.99, Rating: 4, Popularity: 60,
			HierarchicalCategories: &domain.HierarchicalCategories{
				Lvl0: "Appliances",
				Lvl1: "Appliances > Air Conditioners",
			},
		},
	}
	require.NoError(t, eng.BulkIndex(context.Background(), products))

	mapper := routing.NewMapper(routing.DefaultTable())
	return NewCatalogService(eng, mapper, "https://example.com", newTestLogger())
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCatalogService_ListProducts(t *testing.T) {
	svc := newTestCatalogService(t)

	page, err := svc.ListProducts(context.Background(), mustParseURL(t, "/products?q=tv"))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Result.Total)
	assert.Equal(t, "tv", page.State.Query)
	assert.Equal(t, "https://example.com/products?q=tv", page.CanonicalURL)
}

func TestCatalogService_ListProducts_CategoryDrilldown(t *testing.T) {
	svc := newTestCatalogService(t)

	page, err := svc.ListProducts(context.Background(), mustParseURL(t, "/products/appliances/air-conditioners"))
	require.NoError(t, err)
	require.Equal(t, 1, page.Result.Total)
	assert.Equal(t, "ac1", page.Result.Products[0].ObjectID)
	assert.Equal(t, []string{"Appliances", "Air Conditioners"}, page.State.CategoryPath)
	assert.Equal(t, "https://example.com/products/appliances/air-conditioners", page.CanonicalURL)
}

func TestCatalogService_ListProducts_PriceFilter(t *testing.T) {
	svc := newTestCatalogService(t)

	page, err := svc.ListProducts(context.Background(), mustParseURL(t, "/products?price=500%3A1000"))
	require.NoError(t, err)
	require.Equal(t, 1, page.Result.Total)
	assert.Equal(t, "tv1", page.Result.Products[0].ObjectID)
}

func TestCatalogService_ListProducts_CanonicalDropsPageOne(t *testing.T) {
	svc := newTestCatalogService(t)

	page, err := svc.ListProducts(context.Background(), mustParseURL(t, "/products?page=1&q=tv"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/products?q=tv", page.CanonicalURL)
}

func TestCatalogService_GetProductBySlug(t *testing.T) {
	svc := newTestCatalogService(t)

	product, err := svc.GetProductBySlug(context.Background(), "samsung-55-inch-4k-tv-tv1")
	require.NoError(t, err)
	assert.Equal(t, "tv1", product.ObjectID)
}

func TestCatalogService_GetProductBySlug_UnknownID(t *testing.T) {
	svc := newTestCatalogService(t)

	_, err := svc.GetProductBySlug(context.Background(), "some-product-nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_GetProductBySlug_Malformed(t *testing.T) {
	svc := newTestCatalogService(t)

	_, err := svc.GetProductBySlug(context.Background(), "noid")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_Sitemap(t *testing.T) {
	svc := newTestCatalogService(t)

	out, err := svc.Sitemap(context.Background())
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "<urlset")
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/products</loc>")
	assert.Contains(t, body, "<loc>https://example.com/products/appliances</loc>")
	assert.Contains(t, body, "<loc>https://example.com/products/tv-and-home-theater</loc>")
	assert.Contains(t, body, "<loc>https://example.com/product/samsung-55-inch-4k-tv-tv1</loc>")

	// Three products indexed, three product URLs emitted.
	assert.Equal(t, 3, strings.Count(body, "/product/"))
}
