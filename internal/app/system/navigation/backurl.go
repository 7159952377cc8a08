// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/settings").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedPaths are rejected along with anything below them, so a
	// return target cannot loop back to the page that issued it.
	ExcludedPaths []string

	// Fallback is used when no acceptable return URL is present.
	Fallback string
}

// SafeBackURL reads the "return" query parameter (then form value), keeps it
// only if it is a same-site path that passes opts, and otherwise returns
// opts.Fallback.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret != "" && acceptable(ret, opts) {
		return ret
	}
	return opts.Fallback
}

func acceptable(ret string, opts BackURLOptions) bool {
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
		return false
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	path := ret
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, p := range opts.ExcludedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return false
		}
	}
	return true
}

// LoginReturn is where /login sends a user after sign-in. The auth pages
// themselves are never a target.
var LoginReturn = BackURLOptions{
	ExcludedPaths: []string{"/login", "/logout"},
	Fallback:      "/",
}
