package helpers

import (
	"context"
	"strings"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
)

// BasePath returns the configured admin base path.
func BasePath(ctx context.Context) string {
	return NormalizeRoute(middleware.BasePathFromContext(ctx))
}

// JoinPath joins route segments onto base, collapsing duplicate slashes.
func JoinPath(base string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, base)
	parts = append(parts, segments...)
	return NormalizeRoute(strings.Join(parts, "/"))
}

// NormalizeRoute returns a rooted path without duplicate or trailing slashes.
func NormalizeRoute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
