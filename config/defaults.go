package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultUserAgent           = "pywats-go"
	DefaultLogLevel            = "info"
	DefaultRetryInitialBackoff = 200 * time.Millisecond
	DefaultRetryMaxBackoff     = 5 * time.Second
	DefaultBreakerFailures     = 5
	DefaultBreakerTimeout      = 30 * time.Second
	DefaultDocCacheTTL         = 24 * time.Hour
)

// API groups served by a WATS installation.
const (
	GroupPublic   = "public"
	GroupInternal = "internal"
)

// DefaultDocPaths maps API group to the path of its Swagger document.
var DefaultDocPaths = map[string]string{
	GroupPublic:   "/swagger/docs/v1",
	GroupInternal: "/swagger/docs/internal",
}

// DefaultAPIPrefixes maps API group to the route prefix its endpoints share.
var DefaultAPIPrefixes = map[string]string{
	GroupPublic:   "/api",
	GroupInternal: "/api/internal",
}

// APIPath prefixes path with the route prefix of group unless it already
// starts with /api/.
func APIPath(group, path string) (string, error) {
	prefix, ok := DefaultAPIPrefixes[group]
	if !ok {
		return "", fmt.Errorf("unknown API group %q", group)
	}
	path = "/" + strings.TrimLeft(path, "/")
	if strings.HasPrefix(strings.ToLower(path), "/api/") {
		return path, nil
	}
	return prefix + path, nil
}
