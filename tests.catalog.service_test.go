package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog() CatalogServiceProvider {
	storage := newMemBookStorage(
		Book{ID: 1, Title: "The Go Programming Language", Author: "Donovan", Publisher: "AW", ISBN: "9780134190440", Classification: "Non-Fiction", Category: "Programming", PageCount: 380, Price: 35.99},
		Book{ID: 2, Title: "Dune", Author: "Herbert", Publisher: "Chilton", ISBN: "9780441172719", Classification: "Fiction", Category: "Sci-Fi", PageCount: 412, Price: 9.99},
		Book{ID: 3, Title: "A Tale of Two Cities", Author: "Dickens", Publisher: "Chapman", ISBN: "9781853260391", Classification: "Fiction", Category: "Classics", PageCount: 489, Price: 7.50},
		Book{ID: 4, Title: "Moby Dick", Author: "Melville", Publisher: "Harper", ISBN: "9781503280786", Classification: "Fiction", Category: "Classics", PageCount: 635, Price: 11.20},
		Book{ID: 5, Title: "Brave New World", Author: "Huxley", Publisher: "Chatto", ISBN: "9780060850524", Classification: "Fiction", Category: "Sci-Fi", PageCount: 311, Price: 10.99},
		Book{ID: 6, Title: "Emma", Author: "Austen", Publisher: "Murray", ISBN: "9780141439587", Classification: "Fiction", Category: "Classics", PageCount: 474, Price: 6.99},
		Book{ID: 7, Title: "Neuromancer", Author: "Gibson", Publisher: "Ace", ISBN: "9780441569595", Classification: "Fiction", Category: "Sci-Fi", PageCount: 271, Price: 8.99},
	)
	return NewCatalogService(zap.NewNop(), nil, storage)
}

// TestCatalogList_PageBounds ensures each page carries at most pageSize
// records and exactly pageSize on every page except possibly the last.
func TestCatalogList_PageBounds(t *testing.T) {
	cs := testCatalog()
	pageSize := 3
	var fetched int
	_, first, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: pageSize})
	require.NoError(t, err)

	for page := 1; page <= first.TotalPages; page++ {
		books, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: page, PageSize: pageSize})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(books), pageSize)
		if page < pagination.TotalPages {
			assert.Len(t, books, pageSize)
		}
		fetched += len(books)
	}
	assert.Equal(t, first.TotalCount, fetched)
}

// TestCatalogList_PaginationMath ensures totalPages follows the ceiling rule
// and totals do not depend on the sort order or the requested page.
func TestCatalogList_PaginationMath(t *testing.T) {
	cs := testCatalog()

	testCases := []struct {
		name       string
		query      BookQuery
		totalCount int
		totalPages int
	}{
		{name: "exact division", query: BookQuery{PageNumber: 1, PageSize: 7}, totalCount: 7, totalPages: 1},
		{name: "with remainder", query: BookQuery{PageNumber: 1, PageSize: 3}, totalCount: 7, totalPages: 3},
		{name: "single item pages", query: BookQuery{PageNumber: 1, PageSize: 1}, totalCount: 7, totalPages: 7},
		{name: "filtered", query: BookQuery{PageNumber: 1, PageSize: 2, Category: "Sci-Fi"}, totalCount: 3, totalPages: 2},
		{name: "unknown category", query: BookQuery{PageNumber: 1, PageSize: 2, Category: "Cooking"}, totalCount: 0, totalPages: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, pagination, err := cs.List(context.Background(), tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.totalCount, pagination.TotalCount)
			assert.Equal(t, tc.totalPages, pagination.TotalPages)
		})
	}

	// same filter, different sort order and page: totals unchanged.
	_, asc, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 2, SortOrder: "asc", Category: "Classics"})
	require.NoError(t, err)
	_, desc, err := cs.List(context.Background(), BookQuery{PageNumber: 2, PageSize: 2, SortOrder: "desc", Category: "Classics"})
	require.NoError(t, err)
	assert.Equal(t, asc.TotalCount, desc.TotalCount)
	assert.Equal(t, asc.TotalPages, desc.TotalPages)
}

// TestCatalogList_Sorting ensures ascending and descending listings of the
// same filtered set are exact title-order mirrors.
func TestCatalogList_Sorting(t *testing.T) {
	cs := testCatalog()
	ascBooks, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 50, SortOrder: "asc"})
	require.NoError(t, err)
	descBooks, _, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 50, SortOrder: "DESC"})
	require.NoError(t, err)
	require.Len(t, descBooks, pagination.TotalCount)

	for i := range ascBooks {
		assert.Equal(t, ascBooks[i].Title, descBooks[len(descBooks)-1-i].Title)
	}

	// anything else than desc falls back to ascending.
	fallbackBooks, _, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 50, SortOrder: "newest"})
	require.NoError(t, err)
	assert.Equal(t, ascBooks, fallbackBooks)
}

// TestCatalogList_CategoryFilter replays the fiction scenario: two matching
// records out of three, sorted by title, one page.
func TestCatalogList_CategoryFilter(t *testing.T) {
	storage := newMemBookStorage(
		Book{ID: 1, Title: "Alpha", Category: "Fiction"},
		Book{ID: 2, Title: "Beta", Category: "Sci-Fi"},
		Book{ID: 3, Title: "Charlie", Category: "Fiction"},
	)
	cs := NewCatalogService(zap.NewNop(), nil, storage)

	books, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 10, SortOrder: "asc", Category: "Fiction"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Alpha", books[0].Title)
	assert.Equal(t, "Charlie", books[1].Title)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 1, pagination.TotalPages)
}

// TestCatalogList_PastTheEnd ensures a page beyond the last one comes back
// empty while the pagination metadata keeps the true totals.
func TestCatalogList_PastTheEnd(t *testing.T) {
	cs := testCatalog()
	books, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: 9, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, 9, pagination.CurrentPage)
	assert.Equal(t, 7, pagination.TotalCount)
	assert.Equal(t, 2, pagination.TotalPages)
}

// TestCatalogList_SanitizedPaging ensures zero and negative paging values
// fall back to the defaults instead of being rejected.
func TestCatalogList_SanitizedPaging(t *testing.T) {
	cs := testCatalog()
	books, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: -2, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageNumber, pagination.CurrentPage)
	assert.Equal(t, DefaultPageSize, pagination.PageSize)
	assert.Len(t, books, DefaultPageSize)
}

// TestCatalogCategories ensures the category listing is distinct and sorted.
func TestCatalogCategories(t *testing.T) {
	cs := testCatalog()
	categories, err := cs.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Classics", "Programming", "Sci-Fi"}, categories)
}

// TestCatalogCreateVisibility ensures a created record is immediately
// part of subsequent listings.
func TestCatalogCreateVisibility(t *testing.T) {
	storage := newMemBookStorage()
	cs := NewCatalogService(zap.NewNop(), nil, storage)

	created, err := cs.Create(context.Background(), Book{Title: "Ilium", Author: "Simmons", Publisher: "Eos", ISBN: "9780380978939", Classification: "Fiction", Category: "Sci-Fi", PageCount: 576, Price: 12.99})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	books, pagination, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, created, books[0])
	assert.Equal(t, 1, pagination.TotalCount)
}

// TestCatalogUpdateMissing ensures updating an unknown identifier
// surfaces the not found sentinel rather than inserting.
func TestCatalogUpdateMissing(t *testing.T) {
	storage := newMemBookStorage()
	cs := NewCatalogService(zap.NewNop(), nil, storage)

	err := cs.Update(context.Background(), Book{ID: 42, Title: "Ghost"})
	assert.ErrorIs(t, err, ErrBookNotFound)

	books, _, err := cs.List(context.Background(), BookQuery{PageNumber: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, books)
}
