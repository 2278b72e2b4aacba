package validate

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// repoSlugRegex matches owner/name forge repository slugs
var repoSlugRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+/[A-Za-z0-9._-]+$`)

// RepoSlug validates that the value is an owner/name repository slug.
func RepoSlug(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}
	if !repoSlugRegex.MatchString(value) {
		return fmt.Errorf("%s: must be an owner/name slug, got %q", field, value)
	}
	return nil
}

// NonEmpty validates that a required string field is not empty.
func NonEmpty(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}
	return nil
}

// JSONObject validates that the data is valid JSON and is an object (not array, string, etc.).
func JSONObject(field, data string) error {
	if data == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return fmt.Errorf("%s: must be valid JSON object, got error: %v", field, err)
	}

	return nil
}

// Date validates that the dateStr is in ISO 8601 date format (YYYY-MM-DD).
// Also accepts full ISO 8601 datetime formats.
func Date(field, dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}

	// Try parsing as date only (YYYY-MM-DD)
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return nil
	}

	// Try parsing as RFC3339 (ISO 8601 datetime)
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return nil
	}

	return fmt.Errorf("%s: must be a valid ISO 8601 date (YYYY-MM-DD) or datetime, got %q", field, dateStr)
}

// URL validates that the urlStr is a valid URL with a scheme and host.
func URL(field, urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%s: cannot be empty", field)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%s: must be a valid URL, got error: %v", field, err)
	}

	if parsedURL.Scheme == "" {
		return fmt.Errorf("%s: must have a scheme (http, https, etc.), got %q", field, urlStr)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s: must have a host, got %q", field, urlStr)
	}

	return nil
}
