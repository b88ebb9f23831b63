package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinglist/internal/entities"
)

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func library() []entities.Book {
	return []entities.Book{
		{ISBN: "9780441013593", Title: "Dune", Authors: []string{"Frank Herbert"}},
		{ISBN: "9780553293357", Title: "Foundation", Authors: []string{"Isaac Asimov"}},
	}
}

func TestProject_SearchByTitle(t *testing.T) {
	books := Project(library(), Query{Search: "dune"})
	assert.Equal(t, []string{"Dune"}, titles(books))
}

func TestProject_AuthorFilterIsExact(t *testing.T) {
	books := Project(library(), Query{Author: "Isaac Asimov"})
	assert.Equal(t, []string{"Foundation"}, titles(books))

	// Substrings of an author name do not match the dropdown filter
	books = Project(library(), Query{Author: "Isaac"})
	assert.Empty(t, books)
}

func TestProject_SearchAndAuthorFilterCompose(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1111111111", Title: "Deep Space", Authors: []string{"Ann Author"}},
		{ISBN: "2222222222", Title: "Deep Sea", Authors: []string{"Bob Writer"}},
	}

	// The search matches both, the author filter narrows to one
	books := Project(input, Query{Search: "deep", Author: "Bob Writer"})
	assert.Equal(t, []string{"Deep Sea"}, titles(books))

	// Disjoint predicates yield an empty intersection
	books = Project(input, Query{Search: "space", Author: "Bob Writer"})
	assert.Empty(t, books)
}

func TestProject_SearchMatchesSubtitleAuthorAndISBN(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1111111111", Title: "Alpha", Subtitle: "A Hidden History", Authors: []string{"Someone"}},
		{ISBN: "2222222222", Title: "Beta", Authors: []string{"Ursula Historian"}},
		{ISBN: "3333333333", Title: "Gamma", Authors: []string{"Other"}},
	}

	assert.Equal(t, []string{"Alpha", "Beta"}, titles(Project(input, Query{Search: "histor"})))
	assert.Equal(t, []string{"Gamma"}, titles(Project(input, Query{Search: "3333333333"})))

	// ISBN matching is exact, not substring
	assert.Empty(t, Project(input, Query{Search: "33333"}))
}

func TestProject_AllAuthorsSentinelDisablesFilter(t *testing.T) {
	books := Project(library(), Query{Author: AllAuthors})
	assert.Len(t, books, 2)
}

func TestProject_SortByTitle(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "banana"},
		{ISBN: "2", Title: "Apple"},
		{ISBN: "3", Title: "cherry"},
	}

	asc := Project(input, Query{SortField: SortByTitle, SortOrder: OrderAscending})
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, titles(asc))

	desc := Project(input, Query{SortField: SortByTitle, SortOrder: OrderDescending})
	assert.Equal(t, []string{"cherry", "banana", "Apple"}, titles(desc))
}

func TestProject_SortByPagesIsStable(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "First", NumberOfPages: 200},
		{ISBN: "2", Title: "Second", NumberOfPages: 200},
		{ISBN: "3", Title: "Short", NumberOfPages: 100},
		{ISBN: "4", Title: "NoPages A"},
		{ISBN: "5", Title: "NoPages B"},
	}

	books := Project(input, Query{SortField: SortByPages, SortOrder: OrderAscending})
	// Absent page counts sort as zero, ties keep input order
	assert.Equal(t, []string{"NoPages A", "NoPages B", "Short", "First", "Second"}, titles(books))
}

func TestProject_SortByPublishDateMissingSortsEarliest(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "Dated", PublishDate: "2020-01-01"},
		{ISBN: "2", Title: "Undated"},
	}

	asc := Project(input, Query{SortField: SortByPublishDate, SortOrder: OrderAscending})
	assert.Equal(t, []string{"Undated", "Dated"}, titles(asc))

	desc := Project(input, Query{SortField: SortByPublishDate, SortOrder: OrderDescending})
	assert.Equal(t, []string{"Dated", "Undated"}, titles(desc))
}

func TestProject_SortByPublishDateLenientFormats(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "Newest", PublishDate: "March 5, 2021"},
		{ISBN: "2", Title: "Oldest", PublishDate: "1965"},
		{ISBN: "3", Title: "Middle", PublishDate: "2005-06-01"},
		{ISBN: "4", Title: "Garbled", PublishDate: "sometime soonish"},
	}

	books := Project(input, Query{SortField: SortByPublishDate, SortOrder: OrderAscending})
	assert.Equal(t, []string{"Garbled", "Oldest", "Middle", "Newest"}, titles(books))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "B"},
		{ISBN: "2", Title: "A"},
	}

	_ = Project(input, Query{SortField: SortByTitle})
	assert.Equal(t, "B", input[0].Title)
	assert.Equal(t, "1", input[0].ISBN)
}

func TestAuthors_DistinctAndSorted(t *testing.T) {
	input := []entities.Book{
		{ISBN: "1", Title: "One", Authors: []string{"Zoe Zed", "Ann Able"}},
		{ISBN: "2", Title: "Two", Authors: []string{"Ann Able"}},
		{ISBN: "3", Title: "Three"},
	}

	authors := Authors(input)
	require.Equal(t, []string{"Ann Able", "Zoe Zed"}, authors)
}

func TestParseSortDefaults(t *testing.T) {
	assert.Equal(t, SortByTitle, ParseSortField(""))
	assert.Equal(t, SortByTitle, ParseSortField("bogus"))
	assert.Equal(t, SortByPages, ParseSortField("numberOfPages"))
	assert.Equal(t, OrderAscending, ParseSortOrder(""))
	assert.Equal(t, OrderDescending, ParseSortOrder("desc"))
}
