package models

import "time"

// Item is the only persisted entity. ItemID and Updated are always assigned
// by the repository.
type Item struct {
	ItemID      string    `json:"itemid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Updated     time.Time `json:"updated"`
}

// NewItem is the caller-supplied part of an item on creation.
type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemUpdate carries the mutable fields of an existing item. There is no
// Updated field: the timestamp is never taken from the caller.
type ItemUpdate struct {
	ItemID      string `json:"itemid"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validation is a single field-level validation message.
type Validation struct {
	For     string `json:"for"`
	Message string `json:"message"`
}
