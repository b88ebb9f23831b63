// Package openlibrary resolves book metadata by ISBN.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"readinglist/internal/entities"
	"readinglist/internal/isbn"
)

// ErrNotFound is returned when OpenLibrary has no record for the ISBN.
var ErrNotFound = errors.New("no book found for this ISBN")

const defaultBaseURL = "https://openlibrary.org"

// Client fetches book records from the OpenLibrary books API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

// Options tune the client. Zero values fall back to defaults.
type Options struct {
	Timeout           time.Duration // per-request timeout, default 10s
	RequestsPerSecond int           // rate limit, default 1
	MaxRetries        int           // retries on transport errors, default 1
	BaseURL           string        // overridable for tests
}

// NewClient creates a rate-limited OpenLibrary client. Requests time out
// after Options.Timeout and are retried once on transport errors; HTTP
// level answers (including not-found) are never retried.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = 1
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:    opts.BaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSecond)), 1),
		maxRetries: opts.MaxRetries,
	}
}

// FetchByISBN looks up a book and returns a normalized record, or
// ErrNotFound when OpenLibrary has no data for the identifier.
func (c *Client) FetchByISBN(ctx context.Context, rawISBN string) (*entities.Book, error) {
	normalized := isbn.Normalize(rawISBN)
	if normalized == "" {
		return nil, fmt.Errorf("invalid ISBN %q", rawISBN)
	}

	bibkey := "ISBN:" + normalized
	url := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=data", c.baseURL, bibkey)

	var payload map[string]bookData
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	data, ok := payload[bibkey]
	if !ok {
		return nil, ErrNotFound
	}

	return convertBook(normalized, data), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", "ReadingList/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("fetch book data: %w", err)
			continue
		}

		err = func() error {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status: %d", resp.StatusCode)
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}()
		return err
	}
	return lastErr
}

// convertBook maps the OpenLibrary payload onto a Book. The outbound
// article link prefers the Amazon product page when an identifier is
// present, else a search keyed by ISBN.
func convertBook(normalizedISBN string, data bookData) *entities.Book {
	book := &entities.Book{
		ISBN:          normalizedISBN,
		Title:         data.Title,
		Subtitle:      data.Subtitle,
		Authors:       []string{},
		CoverURL:      data.Cover.Large,
		PublishDate:   data.PublishDate,
		NumberOfPages: data.NumberOfPages,
	}

	for _, a := range data.Authors {
		if a.Name != "" {
			book.Authors = append(book.Authors, a.Name)
		}
	}

	if len(data.Identifiers.Amazon) > 0 {
		book.ArticleURL = "https://www.amazon.com/dp/" + data.Identifiers.Amazon[0]
	} else {
		book.ArticleURL = "https://www.amazon.com/s?k=" + normalizedISBN
	}

	return book
}

// OpenLibrary API response types (internal)

type bookData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Authors  []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"authors"`
	Cover struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Identifiers struct {
		Amazon []string `json:"amazon"`
		ISBN10 []string `json:"isbn_10"`
		ISBN13 []string `json:"isbn_13"`
	} `json:"identifiers"`
	PublishDate   string `json:"publish_date"`
	NumberOfPages int    `json:"number_of_pages"`
}
