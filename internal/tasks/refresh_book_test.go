package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"readinglist/internal/entities"
)

func TestMergeMissingFields(t *testing.T) {
	t.Run("fills only blank fields", func(t *testing.T) {
		stored := entities.Book{
			ISBN:    "9780441013593",
			Title:   "Dune",
			Authors: []string{"Frank Herbert"},
		}
		fetched := &entities.Book{
			ISBN:          "9780441013593",
			Title:         "Dune (Penguin Galaxy)",
			Subtitle:      "Deluxe Edition",
			Authors:       []string{"F. Herbert"},
			CoverURL:      "https://covers.openlibrary.org/b/id/1-L.jpg",
			PublishDate:   "August 2, 2005",
			NumberOfPages: 528,
		}

		merged, updated := mergeMissingFields(stored, fetched)

		assert.True(t, updated)
		assert.Equal(t, "Dune", merged.Title)
		assert.Equal(t, []string{"Frank Herbert"}, merged.Authors)
		assert.Equal(t, "Deluxe Edition", merged.Subtitle)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/1-L.jpg", merged.CoverURL)
		assert.Equal(t, "August 2, 2005", merged.PublishDate)
		assert.Equal(t, 528, merged.NumberOfPages)
	})

	t.Run("reports no update when nothing is missing", func(t *testing.T) {
		stored := entities.Book{
			ISBN:          "9780441013593",
			Title:         "Dune",
			Subtitle:      "Book One",
			Authors:       []string{"Frank Herbert"},
			CoverURL:      "https://example.com/cover.jpg",
			ArticleURL:    "https://www.amazon.com/dp/B000R93D4Y",
			PublishDate:   "1965",
			NumberOfPages: 412,
		}
		fetched := &entities.Book{
			ISBN:          "9780441013593",
			Title:         "Dune",
			Subtitle:      "Other Subtitle",
			Authors:       []string{"F. Herbert"},
			CoverURL:      "https://other.example.com/cover.jpg",
			ArticleURL:    "https://www.amazon.com/s?k=9780441013593",
			PublishDate:   "2005",
			NumberOfPages: 528,
		}

		merged, updated := mergeMissingFields(stored, fetched)

		assert.False(t, updated)
		assert.Equal(t, stored, merged)
	})

	t.Run("reports no update when the fetch has nothing to offer", func(t *testing.T) {
		stored := entities.Book{ISBN: "9780441013593", Title: "Dune"}
		fetched := &entities.Book{ISBN: "9780441013593", Title: "Dune", Authors: []string{}}

		merged, updated := mergeMissingFields(stored, fetched)

		assert.False(t, updated)
		assert.Equal(t, stored, merged)
	})
}
