// Package store persists the reading list as an opaque JSON blob under a
// fixed key. It is deliberately forgiving: a missing or corrupt blob loads
// as an empty list, and callers treat save failures as non-fatal so the
// in-memory list stays authoritative for the session.
//
// # Usage
//
//	repo := store.NewRepository(db.DB)
//	books, err := repo.Load()
package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"readinglist/internal/entities"
)

// Repository reads and writes the serialized book list.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new blob store repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load deserializes the stored book list. An absent key or a blob that no
// longer decodes yields an empty list together with the cause, so callers
// can log the degradation without treating it as a failure.
func (r *Repository) Load() ([]entities.Book, error) {
	var entry entities.StoreEntry
	err := r.db.Where("key = ?", entities.StoreKeyBooks).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return []entities.Book{}, nil
	}
	if err != nil {
		return []entities.Book{}, fmt.Errorf("read stored list: %w", err)
	}

	var books []entities.Book
	if err := json.Unmarshal(entry.Value, &books); err != nil {
		return []entities.Book{}, fmt.Errorf("decode stored list: %w", err)
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// Save serializes the full list and upserts it under the fixed key.
func (r *Repository) Save(books []entities.Book) error {
	value, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode list: %w", err)
	}

	var entry entities.StoreEntry
	result := r.db.Where("key = ?", entities.StoreKeyBooks).First(&entry)

	if result.Error == gorm.ErrRecordNotFound {
		entry = entities.StoreEntry{
			Key:   entities.StoreKeyBooks,
			Value: value,
		}
		return r.db.Create(&entry).Error
	} else if result.Error != nil {
		return result.Error
	}

	entry.Value = value
	return r.db.Save(&entry).Error
}

// Clear removes the stored list. Absent entries are not an error.
func (r *Repository) Clear() error {
	err := r.db.Where("key = ?", entities.StoreKeyBooks).Delete(&entities.StoreEntry{}).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	return err
}
