package auth

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi"
)

var routeParam = regexp.MustCompile(`\{([^}:]+)(:[^}]*)?\}`)

// RouteTemplate returns the registered template of the route serving r,
// written the way permissions store it ("/roles/:roleId"). Without a
// matched chi route the concrete path is used, which no permission matches.
func RouteTemplate(r *http.Request, basePath string) string {
	pattern := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			pattern = p
		}
	}
	return NormalizeRoutePattern(pattern, basePath)
}

// NormalizeRoutePattern converts a chi pattern to the stored permission form:
// mount wildcards and basePath are dropped, {param} becomes :param and any
// trailing slash is removed.
func NormalizeRoutePattern(pattern, basePath string) string {
	for strings.Contains(pattern, "/*/") {
		pattern = strings.ReplaceAll(pattern, "/*/", "/")
	}
	pattern = strings.TrimSuffix(pattern, "/*")

	if base := strings.TrimSuffix(basePath, "/"); base != "" && strings.HasPrefix(pattern, base) {
		pattern = strings.TrimPrefix(pattern, base)
	}

	pattern = routeParam.ReplaceAllString(pattern, ":$1")

	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if pattern == "" {
		return "/"
	}
	return pattern
}
