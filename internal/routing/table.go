package routing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tofucode-dev/tofu-store/pkg/slug"
)

//go:embed data/category-slugs.json
var embeddedTableJSON []byte

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// Table is the bidirectional mapping between category facet values and URL
// slugs. It is generated offline by cmd/sluggen, loaded once and never
// mutated afterwards, so concurrent reads need no locking.
//
// Both maps hold per-segment entries ("Air Conditioners" ↔ "air-conditioners")
// and full-path entries ("Appliances > Air Conditioners" ↔
// "appliances/air-conditioners").
type Table struct {
	slugToValue map[string]string
	valueToSlug map[string]string
}

type tableFile struct {
	SlugToValue map[string]string `json:"slugToValue"`
	ValueToSlug map[string]string `json:"valueToSlug"`
}

// NewTable builds a Table from the two maps. The maps are copied so later
// mutation by the caller cannot affect the table.
func NewTable(slugToValue, valueToSlug map[string]string) *Table {
	t := &Table{
		slugToValue: make(map[string]string, len(slugToValue)),
		valueToSlug: make(map[string]string, len(valueToSlug)),
	}
	for k, v := range slugToValue {
		t.slugToValue[k] = v
	}
	for k, v := range valueToSlug {
		t.valueToSlug[k] = v
	}
	return t
}

// LoadTable parses a generated {slugToValue, valueToSlug} JSON document.
func LoadTable(data []byte) (*Table, error) {
	var f tableFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse slug table: %w", err)
	}
	if f.SlugToValue == nil || f.ValueToSlug == nil {
		return nil, fmt.Errorf("parse slug table: missing slugToValue or valueToSlug")
	}
	return NewTable(f.SlugToValue, f.ValueToSlug), nil
}

// LoadTableFile reads and parses a slug table from disk.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slug table %s: %w", path, err)
	}
	return LoadTable(data)
}

// DefaultTable returns the table embedded at build time. The embedded
// artifact is validated by tests, so a parse failure here is a build defect
// and panics.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		t, err := LoadTable(embeddedTableJSON)
		if err != nil {
			panic(fmt.Sprintf("routing: embedded slug table invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Size returns the number of slug-to-value mappings.
func (t *Table) Size() int {
	return len(t.slugToValue)
}

// ToSlug converts a category facet value to its URL slug. Values missing
// from the table degrade to the generic slugify transform, which is
// deterministic but lossy.
func (t *Table) ToSlug(facetValue string) string {
	if s, ok := t.valueToSlug[facetValue]; ok {
		return s
	}
	return slug.Slugify(facetValue)
}

// FromSlug converts a URL slug back to the exact facet value. Slugs missing
// from the table degrade to a title-case reconstruction: "air-conditioners"
// becomes "Air Conditioners". The reconstruction is best effort and may not
// match any real facet value ("tv-and-home-theater" comes back as "Tv And
// Home Theater"); a query built from it can legitimately return zero
// results. The table, not this fallback, carries the correctness burden.
func (t *Table) FromSlug(s string) string {
	if v, ok := t.slugToValue[s]; ok {
		return v
	}

	words := strings.Split(s, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
