package models

import "time"

// Collection is a locally owned, user-created set of cards (a saved deck
// or want list). Collections reference catalog cards by UUID but live in
// user-owned tables, so a catalog swap never touches them.
type Collection struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CollectionCard links a collection to a catalog card.
type CollectionCard struct {
	CollectionID int64  `json:"collection_id"`
	CardUUID     string `json:"card_uuid"`
	Quantity     int64  `json:"quantity"`
}
