package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"readinglist/internal/booklist"
	"readinglist/internal/entities"
	"readinglist/internal/openlibrary"
)

// RefreshBookTask re-fetches OpenLibrary metadata for a stored book and
// fills in fields the record is still missing (cover, subtitle, publish
// date, page count, authors). Fields the user already has are left alone.
type RefreshBookTask struct {
	ISBN string `json:"isbn"`
}

// Config returns the queue configuration for metadata refresh tasks.
func (t RefreshBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshBookProcessor creates a processor function for RefreshBookTask.
func RefreshBookProcessor(repo *booklist.Repository, client *openlibrary.Client) backlite.QueueProcessor[RefreshBookTask] {
	return func(ctx context.Context, task RefreshBookTask) error {
		book, ok := repo.Get(task.ISBN)
		if !ok {
			// The book was removed after the task was enqueued; nothing to do.
			log.Printf("[TASK] Refresh skipped, ISBN %s no longer in the list", task.ISBN)
			return nil
		}

		fetched, err := client.FetchByISBN(ctx, task.ISBN)
		if err != nil {
			if errors.Is(err, openlibrary.ErrNotFound) {
				log.Printf("[TASK] Refresh skipped, no OpenLibrary record for ISBN %s", task.ISBN)
				return nil
			}
			return fmt.Errorf("refresh book %s: %w", task.ISBN, err)
		}

		merged, updated := mergeMissingFields(book, fetched)
		if !updated {
			log.Printf("[TASK] Book %s (%s): no metadata updates needed", task.ISBN, book.Title)
			return nil
		}

		if _, err := repo.Update(task.ISBN, merged); err != nil {
			return fmt.Errorf("save refreshed book %s: %w", task.ISBN, err)
		}
		log.Printf("[TASK] Refreshed metadata for book %s (%s)", task.ISBN, merged.Title)
		return nil
	}
}

// NewRefreshBookQueue creates a backlite queue for metadata refresh tasks.
func NewRefreshBookQueue(repo *booklist.Repository, client *openlibrary.Client) backlite.Queue {
	return backlite.NewQueue(RefreshBookProcessor(repo, client))
}

// mergeMissingFields copies fetched values into fields the stored record
// leaves blank. The stored record's own values always win.
func mergeMissingFields(book entities.Book, fetched *entities.Book) (entities.Book, bool) {
	updated := false

	if book.Subtitle == "" && fetched.Subtitle != "" {
		book.Subtitle = fetched.Subtitle
		updated = true
	}
	if len(book.Authors) == 0 && len(fetched.Authors) > 0 {
		book.Authors = fetched.Authors
		updated = true
	}
	if book.CoverURL == "" && fetched.CoverURL != "" {
		book.CoverURL = fetched.CoverURL
		updated = true
	}
	if book.ArticleURL == "" && fetched.ArticleURL != "" {
		book.ArticleURL = fetched.ArticleURL
		updated = true
	}
	if book.PublishDate == "" && fetched.PublishDate != "" {
		book.PublishDate = fetched.PublishDate
		updated = true
	}
	if book.NumberOfPages == 0 && fetched.NumberOfPages > 0 {
		book.NumberOfPages = fetched.NumberOfPages
		updated = true
	}

	return book, updated
}
