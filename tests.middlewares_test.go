package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())

	var captured string
	handle := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		captured = GetValueFromContext(r.Context(), ContextRequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	handle(httptest.NewRecorder(), req, nil)

	assert.Equal(t, RequestIDPrefix+":xx", captured)
}

func TestRequestsCounterMiddleware(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())

	var nums []uint64
	handle := api.RequestsCounterMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		nums = append(nums, GetRequestNumberFromContext(r.Context()))
	})

	for i := 0; i < 3; i++ {
		handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	}
	assert.Equal(t, []uint64{1, 2, 3}, nums)
}

func TestCORSMiddleware(t *testing.T) {
	handle := CORSMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handle(w, httptest.NewRequest(http.MethodOptions, "/api/books", nil), nil)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())

	handle := api.PanicRecoveryMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handle(w, httptest.NewRequest(http.MethodGet, "/api/books", nil), nil)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to process the request.")
}

func TestCoreMiddlewareRecordsStatus(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())

	handle := api.CoreMiddleware(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	})

	for i := 0; i < 2; i++ {
		handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	}

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(2), api.stats.status[http.StatusTeapot])
}

func TestRateLimitMiddleware(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())
	api.config.Server.RateLimitPerSec = 1
	api.config.Server.RateLimitBurst = 2

	handle := api.RateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.RemoteAddr = "10.1.1.1:55555"
		handle(w, req, nil)
		codes = append(codes, w.Code)
	}

	// the burst lets the first two through, the rest is throttled.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// another source ip gets its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.RemoteAddr = "10.2.2.2:55555"
	handle(w, req, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewaresStacks(t *testing.T) {
	api := testAPIHandler(newMemBookStorage())

	public, ops := api.MiddlewaresStacks()
	assert.Len(t, *public, 5)
	assert.Len(t, *ops, 4)

	api.config.Server.RateLimitEnable = true
	public, _ = api.MiddlewaresStacks()
	assert.Len(t, *public, 6)
}

func TestMiddlewaresChainOrder(t *testing.T) {
	var steps []string
	tag := func(name string) MiddlewareFunc {
		return func(next httprouter.Handle) httprouter.Handle {
			return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
				steps = append(steps, name)
				next(w, r, ps)
			}
		}
	}

	stack := Middlewares{tag("first"), tag("second")}
	handle := stack.Chain(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		steps = append(steps, "handler")
	})

	handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, []string{"first", "second", "handler"}, steps)
}
