package site

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LandingURL is where the site redirects after a successful login.
func LandingURL(base string) string {
	return strings.TrimRight(base, "/") + LandingPath
}

// SearchURL builds the results URL for a term, optionally narrowed to a
// location. The site expects hyphens for spaces and lowercase throughout.
func SearchURL(base, term, location string) string {
	base = strings.TrimRight(base, "/")
	u := base + SearchPath + "?q=" + term
	if location != "" {
		u = base + SearchPath + term + "/" + location
	}
	return strings.ToLower(strings.ReplaceAll(u, " ", "-"))
}

// PageURL rewrites the page query parameter of current, keeping the path and
// every other parameter.
func PageURL(current string, page int) (string, error) {
	u, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse current url: %w", err)
	}
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CleanEmployer strips the tooltip suffix from an employer line.
func CleanEmployer(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, EmployerNoise, ""))
}

// ParsePageCount reads the total page count from the last pager button.
func ParsePageCount(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("page button %q is not a number: %w", text, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("page button reports %d pages", n)
	}
	return n, nil
}
