package domain

import (
	"strconv"
	"strings"
)

// SearchQuery holds all parameters for a product search request. The
// category selection is a single drill-down path of exact facet segment
// labels, root first.
type SearchQuery struct {
	Query        string   `json:"query"`
	CategoryPath []string `json:"category_path,omitempty"`
	Brands       []string `json:"brands,omitempty"`
	Ratings      []string `json:"ratings,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	Page         int      `json:"page"`
	PerPage      int      `json:"per_page"`
}

// FacetCounts maps facet values to their match counts.
type FacetCounts map[string]int

// Facets carries the facet distributions computed for a result set.
// Categories is keyed by the hierarchical facet attribute name.
type Facets struct {
	Brands     FacetCounts            `json:"brands,omitempty"`
	Ratings    FacetCounts            `json:"ratings,omitempty"`
	Categories map[string]FacetCounts `json:"categories,omitempty"`
}

// SearchResult holds a paginated search response.
type SearchResult struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
	Facets     Facets    `json:"facets"`
	TookMs     int64     `json:"took_ms"`
}

// ParsePriceRange splits a "min:max" token into its bounds. Either side may
// be empty or malformed, in which case that bound is open. The token format
// comes straight from the URL and is never an error.
func ParsePriceRange(token string) (min, max *float64) {
	lo, hi, found := strings.Cut(token, ":")
	if !found {
		hi = ""
	}
	if v, err := strconv.ParseFloat(lo, 64); err == nil {
		min = &v
	}
	if v, err := strconv.ParseFloat(hi, 64); err == nil {
		max = &v
	}
	return min, max
}
