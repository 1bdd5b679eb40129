package routing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://example.com"

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCreateURL_NoFilters(t *testing.T) {
	got := CreateURL(RouteState{}, testOrigin)
	assert.Equal(t, "https://example.com/products", got)
}

func TestCreateURL_Categories(t *testing.T) {
	got := CreateURL(RouteState{Categories: []string{"appliances", "tvs"}}, testOrigin)
	assert.Equal(t, "https://example.com/products/appliances/tvs", got)
}

func TestCreateURL_QueryParams(t *testing.T) {
	got := CreateURL(RouteState{
		Query:   "smart tv",
		Page:    3,
		Brands:  []string{"Samsung", "LG"},
		Ratings: []string{"4", "5"},
		Price:   "100:500",
	}, testOrigin)

	u := mustParse(t, got)
	assert.Equal(t, "/products", u.Path)
	params := u.Query()
	assert.Equal(t, "smart tv", params.Get("q"))
	assert.Equal(t, "3", params.Get("page"))
	assert.Equal(t, "Samsung,LG", params.Get("brands"))
	assert.Equal(t, "4,5", params.Get("rating"))
	assert.Equal(t, "100:500", params.Get("price"))
}

func TestCreateURL_PageOneNeverEmitted(t *testing.T) {
	got := CreateURL(RouteState{Query: "tv", Page: 1}, testOrigin)
	u := mustParse(t, got)
	assert.False(t, u.Query().Has("page"))
	assert.Equal(t, "tv", u.Query().Get("q"))
}

func TestCreateURL_NoTrailingQuestionMark(t *testing.T) {
	got := CreateURL(RouteState{Categories: []string{"audio"}}, testOrigin)
	assert.Equal(t, "https://example.com/products/audio", got)
}

func TestParseURL_BaseListing(t *testing.T) {
	route := ParseURL(mustParse(t, "/products"))
	assert.True(t, route.IsEmpty())

	route = ParseURL(mustParse(t, "/products/"))
	assert.True(t, route.IsEmpty())
}

func TestParseURL_Categories(t *testing.T) {
	route := ParseURL(mustParse(t, "/products/appliances/air-conditioners"))
	assert.Equal(t, []string{"appliances", "air-conditioners"}, route.Categories)
}

func TestParseURL_PercentDecodedSegments(t *testing.T) {
	route := ParseURL(mustParse(t, "/products/computers%20%26%20tablets"))
	assert.Equal(t, []string{"computers & tablets"}, route.Categories)
}

func TestParseURL_ProductDetailExcluded(t *testing.T) {
	route := ParseURL(mustParse(t, "/product/anything?q=x&page=4&brands=Sony"))
	assert.True(t, route.IsEmpty())
}

func TestParseURL_QueryParams(t *testing.T) {
	route := ParseURL(mustParse(t, "/products?q=tv&page=2&brands=Samsung,LG&rating=4,5&price=100%3A500"))
	assert.Equal(t, RouteState{
		Query:   "tv",
		Page:    2,
		Brands:  []string{"Samsung", "LG"},
		Ratings: []string{"4", "5"},
		Price:   "100:500",
	}, route)
}

func TestParseURL_MalformedPageOmitted(t *testing.T) {
	route := ParseURL(mustParse(t, "/products?page=abc"))
	assert.Zero(t, route.Page)

	route = ParseURL(mustParse(t, "/products?page=2abc"))
	assert.Zero(t, route.Page)

	route = ParseURL(mustParse(t, "/products?page=-3"))
	assert.Zero(t, route.Page)
	assert.True(t, route.IsEmpty())

	route = ParseURL(mustParse(t, "/products?page=0"))
	assert.Zero(t, route.Page)
}

func TestParseURL_UnknownParamsIgnored(t *testing.T) {
	route := ParseURL(mustParse(t, "/products?q=tv&utm_source=mail&sort=asc"))
	assert.Equal(t, RouteState{Query: "tv"}, route)
}

func TestURL_RoundTrip(t *testing.T) {
	routes := []RouteState{
		{},
		{Query: "smart tv"},
		{Page: 7},
		{Categories: []string{"appliances", "air-conditioners"}},
		{Brands: []string{"Samsung", "LG"}, Ratings: []string{"4"}},
		{Price: "100:500"},
		{
			Query:      "4k",
			Page:       2,
			Categories: []string{"tv-and-home-theater", "tvs"},
			Brands:     []string{"Sony"},
			Ratings:    []string{"5"},
			Price:      "250:1000",
		},
	}

	for _, route := range routes {
		raw := CreateURL(route, testOrigin)
		back := ParseURL(mustParse(t, raw))
		assert.Equal(t, route, back, "round trip failed for %s", raw)
	}
}

func TestURL_CommaInBrandDoesNotRoundTrip(t *testing.T) {
	// Comma is the list separator. A literal comma inside a brand name is
	// split on parse. Known limitation of the URL scheme.
	route := RouteState{Brands: []string{"Bang, Olufsen"}}
	back := ParseURL(mustParse(t, CreateURL(route, testOrigin)))
	assert.Equal(t, []string{"Bang", " Olufsen"}, back.Brands)
}
