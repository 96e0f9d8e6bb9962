package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidewire/tidewire/internal/api/middleware"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/station", http.NoBody))

		assert.True(t, strings.HasPrefix(seen, "req_"))
		assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
	})

	t.Run("keeps incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/station", http.NoBody)
		req.Header.Set("X-Request-Id", "upstream-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "upstream-42", seen)
		assert.Equal(t, "upstream-42", w.Header().Get("X-Request-Id"))
	})

	t.Run("replaces unusable incoming", func(t *testing.T) {
		for _, bad := range []string{strings.Repeat("x", 65), "has space", "line\nbreak"} {
			req := httptest.NewRequest(http.MethodGet, "/v1/station", http.NoBody)
			req.Header.Set("X-Request-Id", bad)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.True(t, strings.HasPrefix(seen, "req_"), bad)
			assert.Len(t, seen, len("req_")+32)
		}
	})

	t.Run("unique", func(t *testing.T) {
		ids := make(map[string]struct{})
		for range 50 {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			ids[w.Header().Get("X-Request-Id")] = struct{}{}
		}
		assert.Len(t, ids, 50)
	})
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, middleware.GetRequestID(httptest.NewRequest(http.MethodGet, "/", http.NoBody).Context()))
}
