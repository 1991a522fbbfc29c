// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// CatalogChangedEvent is published when a catalog record is created,
// updated or deleted. It carries enough information for downstream
// consumers to log or trigger analytics without querying the primary
// database.
type CatalogChangedEvent struct {
	Entity     string   `json:"entity"` // movie | genre | director
	Action     string   `json:"action"` // created | updated | deleted
	UID        string   `json:"uid"`
	Name       string   `json:"name"`
	UIDs       []string `json:"uids,omitempty"` // populated for batch creates
	OccurredAt string   `json:"occurred_at"`
}
