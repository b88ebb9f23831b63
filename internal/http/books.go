package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"readinglist/internal/booklist"
	"readinglist/internal/entities"
	"readinglist/internal/isbn"
	"readinglist/internal/listview"
	"readinglist/internal/openlibrary"
)

// MetadataFetcher resolves a book record by ISBN from an external source.
type MetadataFetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (*entities.Book, error)
}

var _ MetadataFetcher = (*openlibrary.Client)(nil)

// TaskEnqueuer schedules a background metadata refresh for a stored book.
type TaskEnqueuer interface {
	EnqueueRefresh(isbn string) error
}

// BooksController handles the reading-list endpoints.
type BooksController struct {
	repo     *booklist.Repository
	fetcher  MetadataFetcher
	enqueuer TaskEnqueuer // nil when background tasks are disabled
}

// NewBooksController creates a new BooksController.
func NewBooksController(repo *booklist.Repository, fetcher MetadataFetcher, enqueuer TaskEnqueuer) *BooksController {
	return &BooksController{
		repo:     repo,
		fetcher:  fetcher,
		enqueuer: enqueuer,
	}
}

// ListBooks handles GET /api/books.
// Query parameters: search, author, sort (title|publishDate|numberOfPages),
// order (asc|desc). The projection is derived fresh on every request.
func (controller *BooksController) ListBooks(c *gin.Context) {
	query := listview.Query{
		Search:    c.Query("search"),
		Author:    c.Query("author"),
		SortField: listview.ParseSortField(c.Query("sort")),
		SortOrder: listview.ParseSortOrder(c.Query("order")),
	}

	books := listview.Project(controller.repo.List(), query)
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// ListAuthors handles GET /api/books/authors, returning the distinct
// author names used to populate the filter dropdown.
func (controller *BooksController) ListAuthors(c *gin.Context) {
	authors := listview.Authors(controller.repo.List())
	c.IndentedJSON(http.StatusOK, gin.H{"authors": authors})
}

// LookupBookRequest is the request body for adding a book by ISBN.
type LookupBookRequest struct {
	ISBN string `json:"isbn"`
}

// LookupBook handles POST /api/lookup. It validates the identifier
// shape, resolves the record from the external service, and adds it.
// Uniqueness is re-checked by Add at resolution time, so a book added
// manually while the lookup was in flight is still rejected as a duplicate.
func (controller *BooksController) LookupBook(c *gin.Context) {
	var req LookupBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "request body must contain an isbn field", CodeValidationFailure)
		return
	}

	if !isbn.IsValid(req.ISBN) {
		respondBadRequest(c, "not a valid ISBN-10 or ISBN-13", CodeValidationFailure)
		return
	}

	book, err := controller.fetcher.FetchByISBN(c.Request.Context(), req.ISBN)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			respondNotFound(c, "no book found for this ISBN")
			return
		}
		respondInternalError(c, err)
		return
	}

	books, err := controller.repo.Add(*book)
	if err != nil {
		if errors.Is(err, booklist.ErrDuplicateISBN) {
			respondConflict(c, "this book is already in your list")
			return
		}
		respondInternalError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, gin.H{"book": book, "books": books})
}

// CreateBook handles POST /api/books (manual entry). Title and a
// well-formed ISBN are required; everything else is optional.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "malformed book payload", CodeValidationFailure)
		return
	}

	if book.Title == "" {
		respondBadRequest(c, "title is required", CodeValidationFailure)
		return
	}
	if !isbn.IsValid(book.ISBN) {
		respondBadRequest(c, "not a valid ISBN-10 or ISBN-13", CodeValidationFailure)
		return
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	books, err := controller.repo.Add(book)
	if err != nil {
		if errors.Is(err, booklist.ErrDuplicateISBN) {
			respondConflict(c, "this book is already in your list")
			return
		}
		respondInternalError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, gin.H{"book": book, "books": books})
}

// UpdateBook handles PUT /api/books/:isbn, replacing the whole record.
// The payload may carry a different ISBN, which re-keys the entry; a
// re-key that collides with another entry is rejected.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	key := c.Param("isbn")

	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "malformed book payload", CodeValidationFailure)
		return
	}
	if book.Title == "" {
		respondBadRequest(c, "title is required", CodeValidationFailure)
		return
	}
	if !isbn.IsValid(book.ISBN) {
		respondBadRequest(c, "not a valid ISBN-10 or ISBN-13", CodeValidationFailure)
		return
	}

	if _, ok := controller.repo.Get(key); !ok {
		respondNotFound(c, "no book with this ISBN in the list")
		return
	}

	books, err := controller.repo.Update(key, book)
	if err != nil {
		if errors.Is(err, booklist.ErrDuplicateISBN) {
			respondConflict(c, "another book already uses the new ISBN")
			return
		}
		respondInternalError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"book": book, "books": books})
}

// DeleteBook handles DELETE /api/books/:isbn. Removal is idempotent, so
// deleting an absent ISBN still answers 204.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	controller.repo.Remove(c.Param("isbn"))
	c.Status(http.StatusNoContent)
}

// RefreshBook handles POST /api/books/:isbn/refresh, scheduling a
// background metadata refresh for a stored book.
func (controller *BooksController) RefreshBook(c *gin.Context) {
	if controller.enqueuer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "background tasks are disabled"})
		return
	}

	key := c.Param("isbn")
	if _, ok := controller.repo.Get(key); !ok {
		respondNotFound(c, "no book with this ISBN in the list")
		return
	}

	if err := controller.enqueuer.EnqueueRefresh(key); err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "refresh scheduled", "isbn": key})
}
