package main

import (
	"context"
	"errors"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

// Defaults applied when the client omits (or sends unusable)
// paging parameters on the books listing endpoint.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 5
)

// Book represents a book record of the catalog. The identifier is
// assigned by the storage backend at creation time and never changes.
type Book struct {
	ID             int     `json:"bookId"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	Publisher      string  `json:"publisher"`
	ISBN           string  `json:"isbn"`
	Classification string  `json:"classification"`
	Category       string  `json:"category"`
	PageCount      int     `json:"pageCount"`
	Price          float64 `json:"price"`
}

// BookQuery carries the catalog listing parameters as received from the
// client: page number, page size, sort order on title and an optional
// exact-match category filter.
type BookQuery struct {
	PageNumber int
	PageSize   int
	SortOrder  string
	Category   string
}

// Sanitize enforces the paging policy: page number and page size below 1
// fall back to their defaults rather than being rejected, the same way an
// absent parameter would.
func (q *BookQuery) Sanitize() {
	if q.PageNumber < 1 {
		q.PageNumber = DefaultPageNumber
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
}

// Descending reports whether the query asks for a descending title
// order. Any value other than `desc` means ascending.
func (q *BookQuery) Descending() bool {
	return strings.EqualFold(q.SortOrder, "desc")
}

// Pagination describes the slice of catalog a listing response carries.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// BooksPage bundles one page of books with its pagination infos. It is
// the body of the listing endpoint response and what the catalog client
// decodes on the other side.
type BooksPage struct {
	Data       []Book     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// BookStorage defines possible operations on book records. Add assigns
// the identifier and returns the stored record. Update and Delete report
// ErrBookNotFound when the targeted identifier does not exist.
type BookStorage interface {
	Add(ctx context.Context, book Book) (Book, error)
	GetOne(ctx context.Context, id int) (Book, error)
	Update(ctx context.Context, book Book) error
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]Book, error)
}
