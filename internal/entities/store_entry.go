package entities

import (
	"time"
)

// StoreEntry is an opaque blob persisted under a well-known key.
// The reading list is stored as a single JSON array under one entry.
type StoreEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     []byte    `gorm:"type:blob" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoreEntry) TableName() string {
	return "store_entries"
}

// Known storage keys
const (
	StoreKeyBooks = "books"
)
