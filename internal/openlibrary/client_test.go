package openlibrary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1), // no rate limiting for tests
		maxRetries: 1,
	}
}

func TestFetchByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/books", r.URL.Path)
		require.Equal(t, "ISBN:9780441013593", r.URL.Query().Get("bibkeys"))
		require.Equal(t, "data", r.URL.Query().Get("jscmd"))

		response := map[string]any{
			"ISBN:9780441013593": map[string]any{
				"title":    "Dune",
				"subtitle": "Deluxe Edition",
				"authors": []map[string]string{
					{"name": "Frank Herbert", "url": "https://openlibrary.org/authors/OL79034A"},
				},
				"cover": map[string]string{
					"large": "https://covers.openlibrary.org/b/id/12345-L.jpg",
				},
				"identifiers": map[string][]string{
					"amazon": {"B000R93D4Y"},
				},
				"publish_date":    "2005",
				"number_of_pages": 544,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	book, err := client.FetchByISBN(context.Background(), "978-0-441-01359-3")
	require.NoError(t, err)

	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Deluxe Edition", book.Subtitle)
	assert.Equal(t, []string{"Frank Herbert"}, book.Authors)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-L.jpg", book.CoverURL)
	assert.Equal(t, "https://www.amazon.com/dp/B000R93D4Y", book.ArticleURL)
	assert.Equal(t, "2005", book.PublishDate)
	assert.Equal(t, 544, book.NumberOfPages)
}

func TestFetchByISBN_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OpenLibrary answers 200 with an empty object for unknown ISBNs
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.FetchByISBN(context.Background(), "9780441013593")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchByISBN_ArticleURLFallsBackToSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"ISBN:9780553293357": map[string]any{
				"title": "Foundation",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	book, err := client.FetchByISBN(context.Background(), "9780553293357")
	require.NoError(t, err)
	assert.Equal(t, "https://www.amazon.com/s?k=9780553293357", book.ArticleURL)
	assert.Empty(t, book.Authors)
	assert.NotNil(t, book.Authors)
}

func TestFetchByISBN_InvalidISBN(t *testing.T) {
	client := testClient("http://unused.invalid")

	_, err := client.FetchByISBN(context.Background(), "not-an-isbn")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchByISBN_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.FetchByISBN(context.Background(), "9780441013593")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchByISBN_RetriesTransportErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			// Slam the connection shut so the client sees a transport error
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		response := map[string]any{
			"ISBN:9780441013593": map[string]any{"title": "Dune"},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	book, err := client.FetchByISBN(context.Background(), "9780441013593")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 2, attempts)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{})
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, 1, client.maxRetries)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}
