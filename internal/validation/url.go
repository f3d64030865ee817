package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// LinkValidator checks article links before they are handed to an external
// browser.
type LinkValidator struct {
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewLinkValidator creates a validator with the default length limit.
func NewLinkValidator() *LinkValidator {
	return &LinkValidator{MaxLength: 2048}
}

// Validate returns an error unless link is an absolute http(s) URL that is
// safe to pass as a single argument to an opener command.
func (v *LinkValidator) Validate(link string) error {
	link = strings.TrimSpace(link)

	if link == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(link) > v.MaxLength {
		return fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(link, "<>\"'`") || strings.IndexFunc(link, unicode.IsControl) >= 0 {
		return fmt.Errorf("URL contains invalid characters")
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	return nil
}

// NormalizeBaseURL turns user input such as "localhost:5000/" into
// "http://localhost:5000". Localhost and private addresses are allowed: the
// API is usually served next to the client.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL must use http or https protocol")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL must have a valid hostname")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}
