// Command sluggen regenerates the category slug table consumed by the URL
// routing layer. It reads the distinct hierarchical category facet values
// from a search backend, slugifies every path and segment, and writes the
// bidirectional {slugToValue, valueToSlug} JSON document.
//
// Run against a local catalog file:
//
//	go run ./cmd/sluggen -catalog data/catalog.json -out internal/routing/data/category-slugs.json
//
// Or against the hosted search index (SEARCH_APP_ID and SEARCH_API_KEY must
// be set):
//
//	go run ./cmd/sluggen -out internal/routing/data/category-slugs.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/engine"
	"github.com/tofucode-dev/tofu-store/internal/engine/memory"
	"github.com/tofucode-dev/tofu-store/internal/engine/remote"
	"github.com/tofucode-dev/tofu-store/pkg/httpclient"
	"github.com/tofucode-dev/tofu-store/pkg/logger"
	"github.com/tofucode-dev/tofu-store/pkg/slug"
)

// tableFile matches the JSON layout the routing package loads.
type tableFile struct {
	SlugToValue map[string]string `json:"slugToValue"`
	ValueToSlug map[string]string `json:"valueToSlug"`
}

func main() {
	var (
		catalogPath = flag.String("catalog", "", "seed from a catalog JSON file instead of the hosted index")
		outPath     = flag.String("out", "category-slugs.json", "output path for the generated table")
		maxValues   = flag.Int("max", 1000, "maximum facet values fetched per hierarchy level")
	)
	flag.Parse()

	log := logger.New("sluggen", getEnv("LOG_LEVEL", "info"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	eng, err := buildEngine(ctx, *catalogPath, log)
	if err != nil {
		log.Error("failed to initialize search backend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	facets, err := eng.Facets(ctx, domain.HierarchicalFacetAttributes(), *maxValues)
	if err != nil {
		log.Error("failed to fetch category facets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table := buildTable(facets)
	log.Info("slug table built",
		slog.Int("slug_entries", len(table.SlugToValue)),
		slog.Int("value_entries", len(table.ValueToSlug)),
	)

	out, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		log.Error("failed to marshal table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	out = append(out, '\n')

	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Error("failed to write table", slog.String("path", *outPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("slug table written", slog.String("path", *outPath))
}

// buildEngine picks the facet source: a catalog file feeds the in-memory
// engine, otherwise the hosted search API is queried directly.
func buildEngine(ctx context.Context, catalogPath string, log *slog.Logger) (engine.SearchEngine, error) {
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		eng := memory.New()
		count, err := eng.LoadCatalog(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		log.Info("catalog loaded", slog.String("path", catalogPath), slog.Int("products", count))
		return eng, nil
	}

	appID := os.Getenv("SEARCH_APP_ID")
	apiKey := os.Getenv("SEARCH_API_KEY")
	if appID == "" || apiKey == "" {
		return nil, fmt.Errorf("either -catalog or SEARCH_APP_ID and SEARCH_API_KEY are required")
	}

	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.Config{Timeout: 10 * time.Second, MaxRetries: 3}),
		httpclient.CircuitBreakerConfig{Name: "sluggen-search"},
		log,
	)

	return remote.New(remote.Config{
		BaseURL:   getEnv("SEARCH_BASE_URL", "https://api.search.example.com"),
		AppID:     appID,
		APIKey:    apiKey,
		IndexName: getEnv("SEARCH_INDEX", "instant_search"),
	}, client, log), nil
}

// buildTable derives the bidirectional slug table from the hierarchical
// facet distributions. Every full path gets a slash-joined slug path entry,
// and every individual segment gets a per-segment entry. The first slug
// produced for a given key wins, so two categories slugifying identically
// keep the mapping deterministic.
func buildTable(facets map[string]domain.FacetCounts) tableFile {
	table := tableFile{
		SlugToValue: make(map[string]string),
		ValueToSlug: make(map[string]string),
	}

	for _, attr := range domain.HierarchicalFacetAttributes() {
		values := make([]string, 0, len(facets[attr]))
		for v := range facets[attr] {
			values = append(values, v)
		}
		sort.Strings(values)

		for _, full := range values {
			segments := strings.Split(full, domain.HierarchySeparator)
			slugs := make([]string, len(segments))
			for i, seg := range segments {
				slugs[i] = slug.Slugify(seg)
			}

			addEntry(&table, strings.Join(slugs, "/"), full)
			for i, seg := range segments {
				addEntry(&table, slugs[i], seg)
			}
		}
	}

	return table
}

// addEntry records a slug/value pair in both directions unless either key is
// already taken.
func addEntry(table *tableFile, s, value string) {
	if _, ok := table.SlugToValue[s]; !ok {
		table.SlugToValue[s] = value
	}
	if _, ok := table.ValueToSlug[value]; !ok {
		table.ValueToSlug[value] = s
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
