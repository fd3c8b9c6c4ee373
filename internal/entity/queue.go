package entity

import "time"

// QueueItem is the live join of a queued id with the item it resolves to.
// Queued ids are opaque: either a full pair id or a bare row id.
type QueueItem struct {
	ID      string
	Item    WordItem
	AddedAt time.Time
}
