package http

import (
	"github.com/gin-gonic/gin"

	"readinglist/internal/booklist"
)

// RouterConfig carries the dependencies for the HTTP surface.
type RouterConfig struct {
	Repo     *booklist.Repository
	Fetcher  MetadataFetcher
	Enqueuer TaskEnqueuer // nil when background tasks are disabled
	Version  string
	GinMode  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	books := NewBooksController(cfg.Repo, cfg.Fetcher, cfg.Enqueuer)
	health := NewHealthController(cfg.Version)

	router.GET("/health", health.Health)

	api := router.Group("/api")
	{
		api.GET("/books", books.ListBooks)
		api.GET("/books/authors", books.ListAuthors)
		api.POST("/books", books.CreateBook)
		// Static "lookup" cannot share the segment with ":isbn" routes,
		// so ISBN resolution lives one level up.
		api.POST("/lookup", books.LookupBook)
		api.PUT("/books/:isbn", books.UpdateBook)
		api.DELETE("/books/:isbn", books.DeleteBook)
		api.POST("/books/:isbn/refresh", books.RefreshBook)
	}

	return router
}
