package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultEndpoint is the address of a local server.
const DefaultEndpoint = "http://localhost:8529"

// NormalizeEndpoint trims the endpoint and assumes http when no scheme is given.
// An empty endpoint resolves to DefaultEndpoint.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return DefaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

// DocumentBaseURL builds the document endpoint of a collection:
//
//	<endpoint>/_db/<database>/_api/document/<collection>/
//
// Database and collection names are path-escaped. An empty database
// resolves to DefaultDatabase.
func DocumentBaseURL(endpoint, database, collection string) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("collection name is required")
	}
	if database == "" {
		database = DefaultDatabase
	}

	u, err := url.Parse(NormalizeEndpoint(endpoint))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	escaped := strings.TrimSuffix(u.EscapedPath(), "/") +
		"/_db/" + url.PathEscape(database) +
		"/_api/document/" + url.PathEscape(collection) + "/"
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint path %q: %w", escaped, err)
	}

	u.Path = unescaped
	u.RawPath = escaped
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
