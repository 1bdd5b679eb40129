package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the storefront API.
type CORSConfig struct {
	// AllowedOrigins lists exact origins. A "*" entry allows everything,
	// which is only acceptable outside production.
	AllowedOrigins []string

	// AllowedMethods and AllowedHeaders fall back to the storefront
	// defaults when empty.
	AllowedMethods []string
	AllowedHeaders []string

	// ExposedHeaders the browser may read from responses.
	ExposedHeaders []string

	// MaxAge caches preflight results, in seconds. Zero means one hour.
	MaxAge int

	// AllowCredentials permits cookies and Authorization headers.
	AllowCredentials bool

	// Environment set to "development" also enables wildcard origins.
	Environment string
}

var (
	storefrontMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	storefrontHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID"}
)

// DefaultCORSConfig is wide open and meant for local development. Deployments
// set AllowedOrigins to the storefront frontend origins.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: storefrontMethods,
		AllowedHeaders: storefrontHeaders,
		ExposedHeaders: []string{"X-Correlation-ID", "X-User-ID"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// CORS answers preflight requests and stamps CORS headers on everything else.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = storefrontMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = storefrontHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	wildcard := cfg.Environment == "development"
	exact := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		exact[o] = struct{}{}
	}

	// Header values never change per request, join them once.
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			switch origin := r.Header.Get("Origin"); {
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				if _, ok := exact[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Vary", "Origin")
				}
			}

			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			h.Set("Access-Control-Max-Age", maxAge)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
