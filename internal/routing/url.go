package routing

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// ListingBasePath is the category listing route.
	ListingBasePath = "/products"

	// ProductPathPrefix is the detail-page route prefix. URLs under it are
	// outside the listing routing namespace entirely.
	ProductPathPrefix = "/product/"
)

// CreateURL serializes a route state into an absolute URL under origin.
// Category slugs are joined into the path as-is since they are URL-safe by
// construction. Query parameters use standard query encoding; brand and
// rating lists are comma-joined, so values containing a literal comma do
// not survive a round trip. That limitation is part of the URL scheme.
func CreateURL(route RouteState, origin string) string {
	path := ListingBasePath
	if len(route.Categories) > 0 {
		path += "/" + strings.Join(route.Categories, "/")
	}

	params := url.Values{}
	if route.Query != "" {
		params.Set("q", route.Query)
	}
	if route.Page > 1 {
		params.Set("page", strconv.Itoa(route.Page))
	}
	if len(route.Brands) > 0 {
		params.Set("brands", strings.Join(route.Brands, ","))
	}
	if len(route.Ratings) > 0 {
		params.Set("rating", strings.Join(route.Ratings, ","))
	}
	if route.Price != "" {
		params.Set("price", route.Price)
	}

	if qs := params.Encode(); qs != "" {
		return origin + path + "?" + qs
	}
	return origin + path
}

// ParseURL recovers a route state from a request URL.
//
// Product detail URLs parse to an empty RouteState even when they carry
// search-looking query parameters. Path segments under /products/ are
// percent-decoded individually and become the category slugs. Unknown query
// parameters are ignored for forward compatibility, and a malformed page
// value is dropped rather than propagated into pagination.
func ParseURL(u *url.URL) RouteState {
	var route RouteState

	if strings.HasPrefix(u.Path, ProductPathPrefix) {
		return route
	}

	if rest, ok := strings.CutPrefix(u.EscapedPath(), ListingBasePath+"/"); ok && rest != "" {
		segments := strings.Split(rest, "/")
		categories := make([]string, 0, len(segments))
		for _, seg := range segments {
			if seg == "" {
				continue
			}
			decoded, err := url.PathUnescape(seg)
			if err != nil {
				decoded = seg
			}
			categories = append(categories, decoded)
		}
		if len(categories) > 0 {
			route.Categories = categories
		}
	}

	params := u.Query()
	if q := params.Get("q"); q != "" {
		route.Query = q
	}
	if p := params.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n >= 1 {
			route.Page = n
		}
	}
	if brands := params.Get("brands"); brands != "" {
		route.Brands = strings.Split(brands, ",")
	}
	if rating := params.Get("rating"); rating != "" {
		route.Ratings = strings.Split(rating, ",")
	}
	if price := params.Get("price"); price != "" {
		route.Price = price
	}

	return route
}
