package domain

import (
	"regexp"
	"strings"
)

// Game represents a registered game title
type Game struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the canonical slug for a game name: lowercased, runs of
// non-alphanumerics collapsed to single hyphens, no leading or trailing
// hyphen.
func Slugify(name string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
