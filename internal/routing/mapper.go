package routing

// Mapper converts between SearchState and RouteState using a slug table for
// the category segments. All other fields pass through untouched.
type Mapper struct {
	table *Table
}

// NewMapper creates a Mapper backed by the given table.
func NewMapper(table *Table) *Mapper {
	return &Mapper{table: table}
}

// Table exposes the mapper's slug table for callers that need direct
// lookups, such as canonical URL builders.
func (m *Mapper) Table() *Table {
	return m.table
}

// StateToRoute projects a search state onto the URL-facing route state.
// Page 1 is dropped, category segments become slugs, absent input fields
// stay absent in the output.
func (m *Mapper) StateToRoute(state SearchState) RouteState {
	var route RouteState

	if state.Query != "" {
		route.Query = state.Query
	}
	if state.Page > 1 {
		route.Page = state.Page
	}
	if len(state.CategoryPath) > 0 {
		route.Categories = make([]string, len(state.CategoryPath))
		for i, v := range state.CategoryPath {
			route.Categories[i] = m.table.ToSlug(v)
		}
	}
	if len(state.Brands) > 0 {
		route.Brands = append([]string(nil), state.Brands...)
	}
	if len(state.Ratings) > 0 {
		route.Ratings = append([]string(nil), state.Ratings...)
	}
	if state.Price != "" {
		route.Price = state.Price
	}

	return route
}

// RouteToState is the field-by-field inverse of StateToRoute. Any page
// value is carried over, including 1, since absence already implies the
// first page. Category slugs are resolved back to facet values; unknown
// slugs fall back to the lossy title-case reconstruction.
func (m *Mapper) RouteToState(route RouteState) SearchState {
	var state SearchState

	if route.Query != "" {
		state.Query = route.Query
	}
	if route.Page > 0 {
		state.Page = route.Page
	}
	if len(route.Categories) > 0 {
		state.CategoryPath = make([]string, len(route.Categories))
		for i, s := range route.Categories {
			state.CategoryPath[i] = m.table.FromSlug(s)
		}
	}
	if len(route.Brands) > 0 {
		state.Brands = append([]string(nil), route.Brands...)
	}
	if len(route.Ratings) > 0 {
		state.Ratings = append([]string(nil), route.Ratings...)
	}
	if route.Price != "" {
		state.Price = route.Price
	}

	return state
}
