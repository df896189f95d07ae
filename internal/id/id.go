// Package id generates opaque identifiers and converts lunch record ids to
// and from their public "rec_{id}" form.
package id

import (
	"fmt"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RecordPrefix prefixes lunch record ids exposed to clients.
const RecordPrefix = "rec_"

// Generate creates a prefixed unique id using NanoID, e.g. "st-V1StGXR8_Z5jdHi6B-myT".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// FormatRecordID renders a lunch record primary key as "rec_{id}".
func FormatRecordID(recordID int64) string {
	return RecordPrefix + strconv.FormatInt(recordID, 10)
}

// ParseRecordID accepts either "rec_{id}" or a bare positive integer.
func ParseRecordID(s string) (int64, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), RecordPrefix)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return n, nil
}

// ParseCursor parses a feed cursor. ok is false for empty or non-numeric
// cursors, which callers treat as "start from the newest record". Numeric
// cursors are returned as is, even when not positive.
func ParseCursor(s string) (cursor int64, ok bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
