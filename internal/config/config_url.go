// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// parseWithScheme parses rawURL and checks its scheme and host.
func parseWithScheme(rawURL string, schemes ...string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if !slices.Contains(schemes, u.Scheme) {
		return nil, fmt.Errorf("scheme must be one of %s, got: %q", strings.Join(schemes, ", "), u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	return u, nil
}

// validateHTTPURL checks that rawURL is a bare http(s) origin, as CORS expects.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := parseWithScheme(rawURL, "http", "https")
	if err != nil {
		return fmt.Errorf("%s: %w", fieldName, err)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("%s should be an origin only, remove path: %s", fieldName, u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}

// validateNATSURL accepts a comma-separated server list, as nats.Connect does.
func validateNATSURL(rawURL string) error {
	for _, server := range strings.Split(rawURL, ",") {
		if _, err := parseWithScheme(strings.TrimSpace(server), "nats", "tls", "ws", "wss"); err != nil {
			return err
		}
	}
	return nil
}

func validateMongoURI(rawURL string) error {
	_, err := parseWithScheme(rawURL, "mongodb", "mongodb+srv")
	return err
}

// RedactURL hides the password in a connection string so it can be logged.
// Strings that do not parse are replaced entirely.
func RedactURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[invalid url]"
	}
	return u.Redacted()
}
