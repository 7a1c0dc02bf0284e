package main

import (
	"context"
	"sort"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, book Book) (Book, error)
	GetOneFunc func(ctx context.Context, id int) (Book, error)
	UpdateFunc func(ctx context.Context, book Book) error
	DeleteFunc func(ctx context.Context, id int) error
	GetAllFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) (Book, error) {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id int) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, book Book) error {
	return m.UpdateFunc(ctx, book)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// memBookStorage is a complete in-memory book storage used by tests
// which need real create/read/update/delete semantics end to end.
type memBookStorage struct {
	mu     sync.Mutex
	nextID int
	books  map[int]Book
}

func newMemBookStorage(books ...Book) *memBookStorage {
	ms := &memBookStorage{books: make(map[int]Book)}
	for _, book := range books {
		if book.ID > ms.nextID {
			ms.nextID = book.ID
		}
		ms.books[book.ID] = book
	}
	return ms
}

func (ms *memBookStorage) Add(_ context.Context, book Book) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.nextID++
	book.ID = ms.nextID
	ms.books[book.ID] = book
	return book, nil
}

func (ms *memBookStorage) GetOne(_ context.Context, id int) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	book, ok := ms.books[id]
	if !ok {
		return book, ErrBookNotFound
	}
	return book, nil
}

func (ms *memBookStorage) Update(_ context.Context, book Book) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.books[book.ID]; !ok {
		return ErrBookNotFound
	}
	ms.books[book.ID] = book
	return nil
}

func (ms *memBookStorage) Delete(_ context.Context, id int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(ms.books, id)
	return nil
}

func (ms *memBookStorage) GetAll(_ context.Context) ([]Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	books := make([]Book, 0, len(ms.books))
	for _, book := range ms.books {
		books = append(books, book)
	}
	// stable enumeration order, like a store cursor would provide.
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
