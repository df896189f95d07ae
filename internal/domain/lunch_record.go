package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// LunchRecord is one meal logged by a user.
type LunchRecord struct {
	ID         int64
	UserID     int64
	RecordedAt time.Time // calendar date of the meal, midnight UTC
	Category   *string
	MenuName   *string
	Content    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLunchRecord is the input for creating a lunch record.
type NewLunchRecord struct {
	UserID     int64
	RecordedAt time.Time
	Category   string
	MenuName   string
	Content    string
}

// NormalizeMenuName trims and NFC-normalizes a menu name so that composed and
// decomposed Hangul spell the same menu.
func NormalizeMenuName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeCategory trims and upper-cases a category code.
func NormalizeCategory(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// OptionalString returns nil for blank strings.
func OptionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
