// Package routing maps between the engine-facing search state and the
// canonical storefront URLs. Category facet values travel through a
// generated slug table; every other filter passes through verbatim.
package routing

// RouteState is the flat, URL-facing representation of the current search
// filters. A zero RouteState corresponds to /products with no filters.
//
// Page 1 is never persisted; absence means the first page. Category entries
// are URL slugs ordered root to leaf. Brand and rating entries are raw facet
// values, never slugified. Price is a single "min:max" token.
type RouteState struct {
	Query      string   `json:"query,omitempty"`
	Page       int      `json:"page,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	Ratings    []string `json:"rating,omitempty"`
	Price      string   `json:"price,omitempty"`
}

// IsEmpty reports whether no filter is set at all.
func (r RouteState) IsEmpty() bool {
	return r.Query == "" && r.Page == 0 && len(r.Categories) == 0 &&
		len(r.Brands) == 0 && len(r.Ratings) == 0 && r.Price == ""
}

// SearchState is the engine-facing representation of the current filters.
// CategoryPath holds the selected drill-down path as exact facet segment
// labels, level 0 first, e.g. ["Appliances", "Air Conditioners"]. It is a
// single path, not independent per-level selections.
type SearchState struct {
	Query        string   `json:"query,omitempty"`
	Page         int      `json:"page,omitempty"`
	CategoryPath []string `json:"categoryPath,omitempty"`
	Brands       []string `json:"brands,omitempty"`
	Ratings      []string `json:"ratings,omitempty"`
	Price        string   `json:"price,omitempty"`
}
