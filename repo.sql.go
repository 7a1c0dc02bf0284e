package main

import (
	"context"
	"database/sql"
	"fmt"

	// postgres driver registration.
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	book_id        SERIAL PRIMARY KEY,
	title          TEXT NOT NULL,
	author         TEXT NOT NULL,
	publisher      TEXT NOT NULL,
	isbn           TEXT NOT NULL,
	classification TEXT NOT NULL,
	category       TEXT NOT NULL,
	page_count     INTEGER NOT NULL,
	price          DOUBLE PRECISION NOT NULL
)`

type sqlBookStorage struct {
	logger *zap.Logger
	client *sql.DB
}

// GetSQLClient opens the postgres database from the configured
// connection string and ensures the books table exists.
func GetSQLClient(config *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", config.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %v", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	if _, err = db.Exec(createBooksTable); err != nil {
		return nil, fmt.Errorf("failed to set up books table: %v", err)
	}
	return db, nil
}

// NewSQLBookStorage provides an instance of postgres-based book storage.
func NewSQLBookStorage(logger *zap.Logger, client *sql.DB) BookStorage {
	return &sqlBookStorage{
		logger: logger,
		client: client,
	}
}

// Close shuts down the postgres-based book storage.
func (ss *sqlBookStorage) Close() error {
	return ss.client.Close()
}

// Add inserts a new book record. The identifier comes from the serial column.
func (ss *sqlBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	query := `INSERT INTO books (title, author, publisher, isbn, classification, category, page_count, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING book_id`
	err := ss.client.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Publisher, book.ISBN,
		book.Classification, book.Category, book.PageCount, book.Price,
	).Scan(&book.ID)
	return book, err
}

// GetOne retrieves a book record based on its ID.
func (ss *sqlBookStorage) GetOne(ctx context.Context, id int) (Book, error) {
	var book Book
	query := `SELECT book_id, title, author, publisher, isbn, classification, category, page_count, price
		FROM books WHERE book_id = $1`
	err := ss.client.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Publisher, &book.ISBN,
		&book.Classification, &book.Category, &book.PageCount, &book.Price,
	)
	if err == sql.ErrNoRows {
		return book, ErrBookNotFound
	}
	return book, err
}

// Update replaces the whole record stored at the book identifier.
func (ss *sqlBookStorage) Update(ctx context.Context, book Book) error {
	query := `UPDATE books SET title = $2, author = $3, publisher = $4, isbn = $5,
		classification = $6, category = $7, page_count = $8, price = $9 WHERE book_id = $1`
	result, err := ss.client.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Publisher, book.ISBN,
		book.Classification, book.Category, book.PageCount, book.Price,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book record based on its ID.
func (ss *sqlBookStorage) Delete(ctx context.Context, id int) error {
	result, err := ss.client.ExecContext(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves all books ordered by their identifier.
func (ss *sqlBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	query := `SELECT book_id, title, author, publisher, isbn, classification, category, page_count, price
		FROM books ORDER BY book_id`
	rows, err := ss.client.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var book Book
		if err = rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Publisher, &book.ISBN,
			&book.Classification, &book.Category, &book.PageCount, &book.Price,
		); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
