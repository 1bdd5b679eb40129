package routing

import (
	"strings"

	"github.com/tofucode-dev/tofu-store/pkg/slug"
)

// ProductURL returns the detail-page path for a product. The object ID is
// appended as the final hyphen-delimited token so that
// ParseProductIDFromSlug can recover it. IDs must not contain hyphens.
func ProductURL(name, objectID string) string {
	return ProductPathPrefix + slug.Product(name) + "-" + objectID
}

// ParseProductIDFromSlug extracts the trailing object ID token from a
// detail-page slug. It returns false when the slug has fewer than two
// non-empty hyphen-delimited segments and therefore carries no ID.
//
// The recovered token is not validated against real product IDs; callers
// must attempt a lookup and treat a miss as not found.
func ParseProductIDFromSlug(s string) (string, bool) {
	var segments []string
	for _, part := range strings.Split(s, "-") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) < 2 {
		return "", false
	}
	return segments[len(segments)-1], true
}
