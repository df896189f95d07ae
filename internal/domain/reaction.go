package domain

import (
	"time"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
)

// ReactionCode is one of the closed set of reactions a user can leave on a record.
type ReactionCode string

// Allowed reaction codes.
const (
	ReactionLike  ReactionCode = "like"
	ReactionLove  ReactionCode = "love"
	ReactionYummy ReactionCode = "yummy"
)

// reactionSymbols maps codes to the glyph clients render. Never persisted.
var reactionSymbols = map[ReactionCode]string{
	ReactionLike:  "👍",
	ReactionLove:  "❤️",
	ReactionYummy: "😋",
}

// AllowedReactions returns the allowed codes in display order.
func AllowedReactions() []ReactionCode {
	return []ReactionCode{ReactionLike, ReactionLove, ReactionYummy}
}

// AllowedReactionStrings returns the allowed codes as plain strings, for SQL IN clauses.
func AllowedReactionStrings() []string {
	codes := AllowedReactions()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// Valid reports whether c is in the allowed set.
func (c ReactionCode) Valid() bool {
	_, ok := reactionSymbols[c]
	return ok
}

// Symbol returns the display glyph for c, or "" for unknown codes.
func (c ReactionCode) Symbol() string {
	return reactionSymbols[c]
}

// ParseReactionCode validates a raw reaction string.
func ParseReactionCode(s string) (ReactionCode, error) {
	c := ReactionCode(s)
	if !c.Valid() {
		return "", domainerrors.InvalidArgumentf("invalid reaction %q. Allowed: like, love, yummy", s)
	}
	return c, nil
}

// ReactionCounts holds the number of reactions per allowed code.
type ReactionCounts map[ReactionCode]int

// NewReactionCounts returns counts seeded with zero for every allowed code.
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(reactionSymbols))
	for code := range reactionSymbols {
		counts[code] = 0
	}
	return counts
}

// Add overlays n reactions of code. Codes outside the allowed set are ignored.
func (rc ReactionCounts) Add(code ReactionCode, n int) {
	if code.Valid() {
		rc[code] += n
	}
}

// ToggleResult is the outcome of a reaction mutation.
type ToggleResult string

// Toggle results.
const (
	ToggleSet     ToggleResult = "set"
	ToggleRemoved ToggleResult = "removed"
	ToggleUpdated ToggleResult = "updated"
)

// Reaction is one user's reaction to one lunch record. At most one exists
// per (LunchRecordID, UserID).
type Reaction struct {
	ID            int64
	LunchRecordID int64
	UserID        int64
	Type          ReactionCode
	CreatedAt     time.Time
}

// ReactionOutcome is returned by the reaction toggler.
type ReactionOutcome struct {
	RecordID int64
	Reaction ReactionCode
	Result   ToggleResult
	Counts   ReactionCounts
}
