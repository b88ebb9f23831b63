// Package booklist owns the canonical reading list.
//
// The Repository is the single writer: it loads the list once at
// construction, enforces ISBN uniqueness on every mutation, and mirrors
// each change to the durable store. Mutations return a fresh snapshot so
// callers can re-render without holding a reference into repository state.
package booklist

import (
	"errors"
	"log"
	"sync"

	"readinglist/internal/entities"
)

// ErrDuplicateISBN is returned when an add or update would leave two
// entries sharing the same ISBN. The list is left unchanged.
var ErrDuplicateISBN = errors.New("a book with this ISBN is already in the list")

// Store is the durable persistence boundary the repository writes through.
type Store interface {
	Load() ([]entities.Book, error)
	Save(books []entities.Book) error
}

// Repository is the single source of truth for the book list.
type Repository struct {
	mu    sync.RWMutex
	books []entities.Book
	store Store
}

// NewRepository loads the persisted list from the store. A load failure
// degrades to an empty list rather than failing the caller; the cause is
// logged and the session continues in-memory.
func NewRepository(store Store) *Repository {
	books, err := store.Load()
	if err != nil {
		log.Printf("WARNING: could not load stored book list, starting empty: %v", err)
	}
	return &Repository{books: books, store: store}
}

// List returns a snapshot copy of the current list in insertion order.
func (r *Repository) List() []entities.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.books)
}

// Len returns the number of books in the list.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

// Get returns the book with the given ISBN, or false when absent.
func (r *Repository) Get(isbn string) (entities.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return entities.Book{}, false
}

// Add appends a book and persists the list. Returns ErrDuplicateISBN when
// an entry with the same ISBN already exists; the list is then unchanged.
// Books with blank authors are accepted as-is — author completeness is a
// form concern, not a collection invariant.
func (r *Repository) Add(book entities.Book) ([]entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.books {
		if b.ISBN == book.ISBN {
			return nil, ErrDuplicateISBN
		}
	}

	r.books = append(r.books, book)
	r.persist()
	return snapshot(r.books), nil
}

// Remove deletes the entry with the matching ISBN. Removing an absent
// ISBN is a silent no-op, so the operation is idempotent.
func (r *Repository) Remove(isbn string) []entities.Book {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.books {
		if b.ISBN == isbn {
			r.books = append(r.books[:i], r.books[i+1:]...)
			r.persist()
			break
		}
	}
	return snapshot(r.books)
}

// Update replaces the entry keyed by isbn with updated, preserving its
// position. The replacement's own ISBN may differ, which re-keys the
// entry; if the new ISBN collides with a different existing entry the
// update is rejected with ErrDuplicateISBN. Updating an absent key is a
// silent no-op.
func (r *Repository) Update(isbn string, updated entities.Book) ([]entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := -1
	for i, b := range r.books {
		if b.ISBN == isbn {
			target = i
			break
		}
	}
	if target == -1 {
		return snapshot(r.books), nil
	}

	if updated.ISBN != isbn {
		for i, b := range r.books {
			if i != target && b.ISBN == updated.ISBN {
				return nil, ErrDuplicateISBN
			}
		}
	}

	r.books[target] = updated
	r.persist()
	return snapshot(r.books), nil
}

// persist writes the full list through to the store. Failures are logged
// and never roll back the in-memory mutation: the session keeps running
// on in-memory state. Callers must hold the write lock.
func (r *Repository) persist() {
	if err := r.store.Save(r.books); err != nil {
		log.Printf("WARNING: could not persist book list: %v", err)
	}
}

func snapshot(books []entities.Book) []entities.Book {
	out := make([]entities.Book, len(books))
	copy(out, books)
	return out
}
