package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CatalogClient speaks to the catalog http endpoints with JSON bodies.
type CatalogClient struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient provides a catalog api client against the given base url.
func NewCatalogClient(logger *zap.Logger, baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		logger:     logger,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchPage retrieves one page of the catalog matching the query.
func (cc *CatalogClient) FetchPage(ctx context.Context, query BookQuery) (BooksPage, error) {
	var page BooksPage
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(query.PageNumber))
	params.Set("pageSize", strconv.Itoa(query.PageSize))
	params.Set("sortOrder", query.SortOrder)
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	err := cc.do(ctx, http.MethodGet, "/api/books?"+params.Encode(), nil, http.StatusOK, &page)
	return page, err
}

// FetchCategories retrieves the distinct sorted category list.
func (cc *CatalogClient) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := cc.do(ctx, http.MethodGet, "/api/books/categories", nil, http.StatusOK, &categories)
	return categories, err
}

// CreateBook submits a new book record and returns it with its assigned identifier.
func (cc *CatalogClient) CreateBook(ctx context.Context, book Book) (Book, error) {
	var created Book
	err := cc.do(ctx, http.MethodPost, "/api/books", &book, http.StatusCreated, &created)
	return created, err
}

// UpdateBook submits a full replace of the record at the book identifier.
func (cc *CatalogClient) UpdateBook(ctx context.Context, book Book) error {
	return cc.do(ctx, http.MethodPut, fmt.Sprintf("/api/books/%d", book.ID), &book, http.StatusNoContent, nil)
}

// DeleteBook removes the record at the given identifier.
func (cc *CatalogClient) DeleteBook(ctx context.Context, id int) error {
	return cc.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, http.StatusNoContent, nil)
}

// do performs one call against the api and decodes the response
// body into out when the expected status is met and out non-nil.
func (cc *CatalogClient) do(ctx context.Context, method, path string, body interface{}, expected int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, cc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return fmt.Errorf("client: %s %s failed with status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CatalogView drives the browsing state over the catalog: which page is
// displayed, how it is sorted and filtered, the category dropdown values
// and the transient added-to-cart notification. Every state change
// re-fetches from the server; a failed fetch is logged and leaves the
// previously displayed state untouched.
type CatalogView struct {
	mu          sync.Mutex
	logger      *zap.Logger
	client      *CatalogClient
	cart        *Cart
	notifyTTL   time.Duration
	noticeTimer *time.Timer

	page       int
	pageSize   int
	sortOrder  string
	category   string
	books      []Book
	pagination Pagination
	categories []string
	notice     bool
}

// NewCatalogView provides a catalog view in its initial state:
// first page, five records per page, ascending title order, no
// category filter.
func NewCatalogView(logger *zap.Logger, client *CatalogClient, cart *Cart, notifyTTL time.Duration) *CatalogView {
	return &CatalogView{
		logger:    logger,
		client:    client,
		cart:      cart,
		notifyTTL: notifyTTL,
		page:      DefaultPageNumber,
		pageSize:  DefaultPageSize,
		sortOrder: "asc",
	}
}

// Load performs the initial fetches: the category dropdown values and
// the first page of books. Both failures are swallowed after a log.
func (cv *CatalogView) Load(ctx context.Context) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	categories, err := cv.client.FetchCategories(ctx)
	if err != nil {
		cv.logger.Error("view: failed to fetch categories", zap.Error(err))
	} else {
		cv.categories = categories
	}
	cv.refresh(ctx)
}

// refresh re-fetches the current page. Callers hold the lock. On failure
// the previous books and pagination stay displayed.
func (cv *CatalogView) refresh(ctx context.Context) {
	page, err := cv.client.FetchPage(ctx, BookQuery{
		PageNumber: cv.page,
		PageSize:   cv.pageSize,
		SortOrder:  cv.sortOrder,
		Category:   cv.category,
	})
	if err != nil {
		cv.logger.Error("view: failed to fetch books", zap.Error(err))
		return
	}
	cv.books = page.Data
	cv.pagination = page.Pagination
}

// SetPage moves to the requested page when it is within bounds.
func (cv *CatalogView) SetPage(ctx context.Context, page int) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if page < 1 || page > cv.pagination.TotalPages {
		return
	}
	cv.page = page
	cv.refresh(ctx)
}

// SetPageSize changes the page size and resets the view to the first page.
func (cv *CatalogView) SetPageSize(ctx context.Context, size int) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.pageSize = size
	cv.page = 1
	cv.refresh(ctx)
}

// SetCategory changes the category filter and resets the view to the
// first page. An empty category means all categories.
func (cv *CatalogView) SetCategory(ctx context.Context, category string) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.category = category
	cv.page = 1
	cv.refresh(ctx)
}

// ToggleSortOrder flips the title ordering. The displayed page number
// is kept as is.
func (cv *CatalogView) ToggleSortOrder(ctx context.Context) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.sortOrder == "asc" {
		cv.sortOrder = "desc"
	} else {
		cv.sortOrder = "asc"
	}
	cv.refresh(ctx)
}

// AddToCart puts one unit of the book into the cart and raises the
// added-to-cart notification which dismisses itself after the ttl.
func (cv *CatalogView) AddToCart(book Book) {
	cv.cart.Add(CartItem{
		BookID:   book.ID,
		Title:    book.Title,
		Price:    book.Price,
		Quantity: 1,
	})

	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.notice = true
	if cv.noticeTimer != nil {
		cv.noticeTimer.Stop()
	}
	cv.noticeTimer = time.AfterFunc(cv.notifyTTL, func() {
		cv.mu.Lock()
		cv.notice = false
		cv.mu.Unlock()
	})
}

// NoticeShown reports whether the added-to-cart notification is up.
func (cv *CatalogView) NoticeShown() bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.notice
}

// Books returns the currently displayed page of books.
func (cv *CatalogView) Books() []Book {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	books := make([]Book, len(cv.books))
	copy(books, cv.books)
	return books
}

// PaginationInfo returns the pagination of the displayed page.
func (cv *CatalogView) PaginationInfo() Pagination {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.pagination
}

// Categories returns the category dropdown values.
func (cv *CatalogView) Categories() []string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	categories := make([]string, len(cv.categories))
	copy(categories, cv.categories)
	return categories
}

// State returns the current browsing parameters.
func (cv *CatalogView) State() BookQuery {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return BookQuery{
		PageNumber: cv.page,
		PageSize:   cv.pageSize,
		SortOrder:  cv.sortOrder,
		Category:   cv.category,
	}
}
