package main

import (
	"context"
	"net"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisStore(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisBookStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))
	testBook := Book{
		Title:          "Redis test book title",
		Author:         "Jerome Amon",
		Publisher:      "Redis test publisher",
		ISBN:           "9780000000001",
		Classification: "Fiction",
		Category:       "Sci-Fi",
		PageCount:      100,
		Price:          10,
	}

	t.Run("Add Book", func(t *testing.T) {
		// ensures we can insert new book record with id from the counter.
		book, err := rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		assert.Equal(t, 1, book.ID)
		testBook = book
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		// ensures we can fetch specific book.
		book, err := rs.GetOne(context.Background(), testBook.ID)
		assert.NoError(t, err)
		assert.Equal(t, testBook, book)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		// ensures fetching non-existent book fails.
		book, err := rs.GetOne(context.Background(), 42)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Update NonExistent Book", func(t *testing.T) {
		// ensures updating non-existing book does not create that book.
		err := rs.Update(context.Background(), Book{ID: 42, Title: "Ghost"})
		assert.Equal(t, ErrBookNotFound, err)
		book, err := rs.GetOne(context.Background(), 42)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Update Existent Book", func(t *testing.T) {
		// ensures we can update an existent book record.
		testBook.Price = 20
		err := rs.Update(context.Background(), testBook)
		assert.NoError(t, err)
		book, err := rs.GetOne(context.Background(), testBook.ID)
		assert.NoError(t, err)
		assert.Equal(t, testBook.Price, book.Price)
	})

	t.Run("Delete Existent Book", func(t *testing.T) {
		// ensures deleting existent book succeed.
		err := rs.Delete(context.Background(), testBook.ID)
		assert.NoError(t, err)
		book, err := rs.GetOne(context.Background(), testBook.ID)
		assert.Equal(t, ErrBookNotFound, err)
		assert.Equal(t, Book{}, book)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		// ensures deleting non existent book returns an error.
		err := rs.Delete(context.Background(), testBook.ID)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("Get All Books", func(t *testing.T) {
		// ensures we get exact number of stored books.
		_, err := rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		_, err = rs.Add(context.Background(), testBook)
		assert.NoError(t, err)
		books, err := rs.GetAll(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 2, len(books))
	})
}
