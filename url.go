package main

import (
	"net/url"
	"regexp"
	"strings"
)

const usageMessage = "Please send a valid Namshi product URL (e.g., https://www.namshi.com/uae-en/buy-product-name/product-id/p/)"

// productURLPattern matches Namshi product pages, which always carry a /p/ segment.
var productURLPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?namshi\.com/\S*?/p/\S*`)

// findProductURL returns the first product URL in text, cleaned of tracking parameters.
func findProductURL(text string) (string, error) {
	match := productURLPattern.FindString(text)
	if match == "" {
		return "", ErrInvalidURL
	}
	match = strings.TrimRight(match, ".,;:!?)]}>\"'")
	return cleanProductURL(match)
}

// cleanProductURL drops the query string and fragment.
func cleanProductURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// resolveURL resolves href against base, returning "" when either does not parse.
func resolveURL(base, href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(u).String()
}
