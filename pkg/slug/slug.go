package slug

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegexp = regexp.MustCompile(`\s+`)
	invalidRegexp    = regexp.MustCompile(`[^\w-]`)
	hyphenRunRegexp  = regexp.MustCompile(`--+`)
	productRegexp    = regexp.MustCompile(`[^a-z0-9]+`)
)

// maxProductSlugLen is the hard cutoff for product slugs. The cut is not
// word-boundary aware and the result is not re-trimmed after cutting.
const maxProductSlugLen = 60

// Slugify creates a URL-friendly slug from a category facet value.
// Ampersands become the word "and" so that "TV & Home Theater" reads as
// "tv-and-home-theater" rather than losing the conjunction.
//
// Examples:
//   - "Air Conditioners" → "air-conditioners"
//   - "TV & Home Theater" → "tv-and-home-theater"
//   - "Health, Fitness & Beauty" → "health-fitness-and-beauty"
//
// The result may be empty when the input contains no word characters.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	// Collapse whitespace runs before the ampersand replacement so
	// "tv & home" turns into "tv-and-home", not "tv--and--home".
	s = whitespaceRegexp.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "and")
	s = invalidRegexp.ReplaceAllString(s, "")
	s = hyphenRunRegexp.ReplaceAllString(s, "-")
	s = strings.TrimLeft(s, "-")
	s = strings.TrimRight(s, "-")

	return s
}

// Product creates a detail-page slug from a product name. Unlike Slugify it
// drops ampersands entirely and caps the result at 60 characters.
//
// Examples:
//   - "Samsung Galaxy S24" → "samsung-galaxy-s24"
//   - "Test & More!" → "test-more"
func Product(name string) string {
	s := productRegexp.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxProductSlugLen {
		s = s[:maxProductSlugLen]
	}
	return s
}
