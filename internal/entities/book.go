package entities

// Book is a single reading-list entry. The JSON field names double as the
// persisted layout and the API payload shape, so they must stay stable.
type Book struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	CoverURL      string   `json:"coverUrl,omitempty"`
	ArticleURL    string   `json:"articleUrl"`
	PublishDate   string   `json:"publishDate,omitempty"` // free-form text, not guaranteed parseable
	NumberOfPages int      `json:"numberOfPages,omitempty"`
}
