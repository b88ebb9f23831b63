// Package listview derives the display-ordered book list.
//
// Project is a pure function over (list, query): it filters by search
// text and author, then stable-sorts by the requested field. It never
// fails — missing or malformed optional fields fall back to documented
// defaults (unparsable dates sort earliest, absent page counts as zero).
package listview

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"readinglist/internal/entities"
)

// SortField selects the attribute books are ordered by.
type SortField string

// SortOrder selects the direction.
type SortOrder string

const (
	SortByTitle       SortField = "title"
	SortByPublishDate SortField = "publishDate"
	SortByPages       SortField = "numberOfPages"

	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// AllAuthors is the author-filter sentinel meaning "no filtering".
const AllAuthors = "all-authors"

// Query carries the projection inputs. Zero value means "everything,
// sorted by title ascending".
type Query struct {
	Search    string
	Author    string
	SortField SortField
	SortOrder SortOrder
}

// ParseSortField maps a raw query value to a SortField, defaulting to title.
func ParseSortField(raw string) SortField {
	switch SortField(raw) {
	case SortByPublishDate, SortByPages:
		return SortField(raw)
	default:
		return SortByTitle
	}
}

// ParseSortOrder maps a raw query value to a SortOrder, defaulting to ascending.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(raw) == OrderDescending {
		return OrderDescending
	}
	return OrderAscending
}

// Project returns the books matching the query's filters, ordered by its
// sort field and direction. The input slice is not modified. The sort is
// stable: entries that compare equal keep their relative input order.
func Project(books []entities.Book, q Query) []entities.Book {
	out := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if matchesSearch(b, q.Search) && matchesAuthor(b, q.Author) {
			out = append(out, b)
		}
	}

	less := lessFunc(q.SortField)
	desc := q.SortOrder == OrderDescending
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

// Authors returns the sorted distinct author names across the list,
// feeding the author-filter dropdown.
func Authors(books []entities.Book) []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, b := range books {
		for _, a := range b.Authors {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			authors = append(authors, a)
		}
	}
	sort.Strings(authors)
	return authors
}

// matchesSearch reports whether the book matches the free-text search:
// case-insensitive substring of title, subtitle or any author, or exact
// ISBN equality. Empty search matches everything.
func matchesSearch(b entities.Book, search string) bool {
	if search == "" {
		return true
	}

	if b.ISBN == search {
		return true
	}

	query := strings.ToLower(search)
	if strings.Contains(strings.ToLower(b.Title), query) {
		return true
	}
	if b.Subtitle != "" && strings.Contains(strings.ToLower(b.Subtitle), query) {
		return true
	}
	for _, a := range b.Authors {
		if strings.Contains(strings.ToLower(a), query) {
			return true
		}
	}
	return false
}

// matchesAuthor applies the dropdown filter: exact match against one of
// the book's authors. The filter values come from Authors, so substring
// matching would only blur the selection.
func matchesAuthor(b entities.Book, author string) bool {
	if author == "" || author == AllAuthors {
		return true
	}
	for _, a := range b.Authors {
		if a == author {
			return true
		}
	}
	return false
}

func lessFunc(field SortField) func(a, b entities.Book) bool {
	switch field {
	case SortByPublishDate:
		return func(a, b entities.Book) bool {
			return parsePublishDate(a.PublishDate).Before(parsePublishDate(b.PublishDate))
		}
	case SortByPages:
		return func(a, b entities.Book) bool {
			return a.NumberOfPages < b.NumberOfPages
		}
	default:
		c := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b entities.Book) bool {
			return c.CompareString(a.Title, b.Title) < 0
		}
	}
}

// publishDateFormats covers the date shapes OpenLibrary hands back.
var publishDateFormats = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// parsePublishDate leniently parses free-form publish dates. Anything
// unparsable (including the empty string) maps to the zero time so it
// sorts before every real date when ascending.
func parsePublishDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, format := range publishDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
