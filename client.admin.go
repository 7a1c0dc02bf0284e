package main

import (
	"context"

	"go.uber.org/zap"
)

// BookForm carries the admin screen inputs with one field per book
// attribute and a typed setter for each. No field is ever looked up
// by name: the form shape is fixed at compile time.
type BookForm struct {
	bookID         int
	title          string
	author         string
	publisher      string
	isbn           string
	classification string
	category       string
	pageCount      int
	price          float64
}

// NewBookForm provides an empty creation form.
func NewBookForm() *BookForm {
	return &BookForm{}
}

// NewBookFormFromBook provides an edition form prefilled
// with an existing record.
func NewBookFormFromBook(book Book) *BookForm {
	return &BookForm{
		bookID:         book.ID,
		title:          book.Title,
		author:         book.Author,
		publisher:      book.Publisher,
		isbn:           book.ISBN,
		classification: book.Classification,
		category:       book.Category,
		pageCount:      book.PageCount,
		price:          book.Price,
	}
}

func (f *BookForm) SetTitle(title string)                   { f.title = title }
func (f *BookForm) SetAuthor(author string)                 { f.author = author }
func (f *BookForm) SetPublisher(publisher string)           { f.publisher = publisher }
func (f *BookForm) SetISBN(isbn string)                     { f.isbn = isbn }
func (f *BookForm) SetClassification(classification string) { f.classification = classification }
func (f *BookForm) SetCategory(category string)             { f.category = category }
func (f *BookForm) SetPageCount(pageCount int)              { f.pageCount = pageCount }
func (f *BookForm) SetPrice(price float64)                  { f.price = price }

// Editing reports whether the form targets an existing record.
func (f *BookForm) Editing() bool {
	return f.bookID != 0
}

// Book materializes the form content as a book record.
func (f *BookForm) Book() Book {
	return Book{
		ID:             f.bookID,
		Title:          f.title,
		Author:         f.author,
		Publisher:      f.publisher,
		ISBN:           f.isbn,
		Classification: f.classification,
		Category:       f.category,
		PageCount:      f.pageCount,
		Price:          f.price,
	}
}

// Validate runs the same required-field checks the server applies.
func (f *BookForm) Validate() *Validator {
	book := f.Book()
	return ValidateBookPayload(&book)
}

// AdminView binds the book form to the catalog write endpoints. It is
// independent of the catalog browsing view and owns its own form state.
type AdminView struct {
	logger *zap.Logger
	client *CatalogClient
	form   *BookForm
}

// NewAdminView provides an admin view with an empty creation form.
func NewAdminView(logger *zap.Logger, client *CatalogClient) *AdminView {
	return &AdminView{
		logger: logger,
		client: client,
		form:   NewBookForm(),
	}
}

// Form exposes the current form for edition.
func (av *AdminView) Form() *BookForm {
	return av.form
}

// Edit loads an existing record into the form.
func (av *AdminView) Edit(book Book) {
	av.form = NewBookFormFromBook(book)
}

// Reset replaces the form with an empty creation form.
func (av *AdminView) Reset() {
	av.form = NewBookForm()
}

// Submit sends the form to the server: a creation when the form has no
// identifier yet, a full replace otherwise. On success the form resets.
// The created or updated record is returned for display.
func (av *AdminView) Submit(ctx context.Context) (Book, error) {
	if v := av.form.Validate(); !v.Valid() {
		av.logger.Error("admin: invalid form", zap.Any("fields", v.Errors))
		return Book{}, &FormError{Fields: v.Errors}
	}

	book := av.form.Book()
	if av.form.Editing() {
		if err := av.client.UpdateBook(ctx, book); err != nil {
			av.logger.Error("admin: failed to update book", zap.Int("book.id", book.ID), zap.Error(err))
			return Book{}, err
		}
		av.Reset()
		return book, nil
	}

	created, err := av.client.CreateBook(ctx, book)
	if err != nil {
		av.logger.Error("admin: failed to create book", zap.Error(err))
		return Book{}, err
	}
	av.Reset()
	return created, nil
}

// Delete removes a record from the catalog.
func (av *AdminView) Delete(ctx context.Context, id int) error {
	if err := av.client.DeleteBook(ctx, id); err != nil {
		av.logger.Error("admin: failed to delete book", zap.Int("book.id", id), zap.Error(err))
		return err
	}
	return nil
}

// FormError reports the per-field failures of an invalid form.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	return "invalid book form"
}
