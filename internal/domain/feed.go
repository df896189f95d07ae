package domain

import "time"

// FeedQuery selects a page of the anonymized community feed.
type FeedQuery struct {
	Category string
	Limit    int
	Cursor   string
	// ViewerID is the requesting user, or nil for anonymous callers.
	ViewerID *int64
}

// FeedItem is one anonymized feed entry. It never carries the owner's identity.
type FeedItem struct {
	RecordID   int64
	CreatedAt  time.Time
	EatenAt    time.Time
	Category   *string
	MenuName   *string
	Reactions  ReactionCounts
	MyReaction *ReactionCode
}

// FeedPage is one page of the feed. NextCursor is nil on the last page.
type FeedPage struct {
	Items      []FeedItem
	NextCursor *int64
}
