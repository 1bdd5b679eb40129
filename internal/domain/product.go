package domain

import "strings"

// HierarchyLevels is the number of category hierarchy levels in the index.
const HierarchyLevels = 3

// HierarchySeparator joins segment labels inside a hierarchical facet
// value, e.g. "Appliances > Air Conditioners".
const HierarchySeparator = " > "

// HierarchicalFacetAttributes returns the facet attribute names for all
// hierarchy levels, shallowest first.
func HierarchicalFacetAttributes() []string {
	return []string{
		"hierarchicalCategories.lvl0",
		"hierarchicalCategories.lvl1",
		"hierarchicalCategories.lvl2",
	}
}

// Product is a document in the hosted search index. Field names follow the
// index schema, which is why this type uses camelCase JSON keys while the
// rest of the API speaks snake_case.
type Product struct {
	ObjectID               string                  `json:"objectID"`
	Name                   string                  `json:"name"`
	Description            string                  `json:"description,omitempty"`
	Brand                  string                  `json:"brand,omitempty"`
	Categories             []string                `json:"categories,omitempty"`
	HierarchicalCategories *HierarchicalCategories `json:"hierarchicalCategories,omitempty"`
	Image                  string                  `json:"image,omitempty"`
	Price                  float64                 `json:"price,omitempty"`
	Rating                 int                     `json:"rating,omitempty"`
	Popularity             int                     `json:"popularity,omitempty"`
}

// HierarchicalCategories holds one "A > B > C" facet value per hierarchy
// level. Deeper levels repeat their ancestors.
type HierarchicalCategories struct {
	Lvl0 string `json:"lvl0,omitempty"`
	Lvl1 string `json:"lvl1,omitempty"`
	Lvl2 string `json:"lvl2,omitempty"`
}

// Level returns the facet value at the given depth, or empty when unset or
// out of range.
func (h *HierarchicalCategories) Level(depth int) string {
	if h == nil {
		return ""
	}
	switch depth {
	case 0:
		return h.Lvl0
	case 1:
		return h.Lvl1
	case 2:
		return h.Lvl2
	default:
		return ""
	}
}

// Deepest returns the most specific facet value that is set.
func (h *HierarchicalCategories) Deepest() string {
	if h == nil {
		return ""
	}
	for depth := HierarchyLevels - 1; depth >= 0; depth-- {
		if v := h.Level(depth); v != "" {
			return v
		}
	}
	return ""
}

// Path returns the drill-down path as individual segment labels, root
// first, e.g. ["Appliances", "Air Conditioners"]. Empty when no level is
// set.
func (h *HierarchicalCategories) Path() []string {
	deepest := h.Deepest()
	if deepest == "" {
		return nil
	}
	return strings.Split(deepest, HierarchySeparator)
}
