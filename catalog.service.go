package main

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// CatalogServiceProvider exposes the catalog operations: the paged,
// filtered and sorted listing, the distinct category listing and the
// write operations pass-through.
type CatalogServiceProvider interface {
	List(ctx context.Context, query BookQuery) ([]Book, Pagination, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, book Book) error
	Delete(ctx context.Context, id int) error
}

type CatalogService struct {
	logger  *zap.Logger
	config  *Config
	storage BookStorage
}

func NewCatalogService(logger *zap.Logger, config *Config, storage BookStorage) CatalogServiceProvider {
	return &CatalogService{
		logger:  logger,
		config:  config,
		storage: storage,
	}
}

// List builds one page of the catalog view. The category filter is an
// exact match, sorting is a stable ordering on title (ties keep the
// storage enumeration order) and the page number is not clamped against
// the total: a page past the end comes back empty while the pagination
// metadata still reflects the true totals.
func (cs *CatalogService) List(ctx context.Context, query BookQuery) ([]Book, Pagination, error) {
	query.Sanitize()

	books, err := cs.storage.GetAll(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}

	filtered := books
	if query.Category != "" {
		filtered = make([]Book, 0, len(books))
		for _, book := range books {
			if book.Category == query.Category {
				filtered = append(filtered, book)
			}
		}
	}

	if query.Descending() {
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Title > filtered[j].Title })
	} else {
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Title < filtered[j].Title })
	}

	totalCount := len(filtered)
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + query.PageSize - 1) / query.PageSize
	}

	page := []Book{}
	skip := (query.PageNumber - 1) * query.PageSize
	if skip < totalCount {
		end := skip + query.PageSize
		if end > totalCount {
			end = totalCount
		}
		page = filtered[skip:end]
	}

	pagination := Pagination{
		CurrentPage: query.PageNumber,
		PageSize:    query.PageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
	return page, pagination, nil
}

// Categories projects the category field over the whole catalog,
// deduplicates it and returns the values sorted ascending.
func (cs *CatalogService) Categories(ctx context.Context) ([]string, error) {
	books, err := cs.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(books))
	categories := []string{}
	for _, book := range books {
		if _, ok := seen[book.Category]; ok {
			continue
		}
		seen[book.Category] = struct{}{}
		categories = append(categories, book.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Create persists a new book record. The storage assigns the identifier.
func (cs *CatalogService) Create(ctx context.Context, book Book) (Book, error) {
	return cs.storage.Add(ctx, book)
}

// Update replaces the whole record at the book identifier. It returns
// ErrBookNotFound when the identifier does not exist: no upsert.
func (cs *CatalogService) Update(ctx context.Context, book Book) error {
	return cs.storage.Update(ctx, book)
}

// Delete removes the record at the given identifier.
func (cs *CatalogService) Delete(ctx context.Context, id int) error {
	return cs.storage.Delete(ctx, id)
}
