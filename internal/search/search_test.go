package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SerperClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewSerperClient(slog.New(slog.DiscardHandler), "test-key", srv.URL)
}

func TestSerperClientSearch(t *testing.T) {
	t.Parallel()

	t.Run("caps and orders results", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req serperRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "go generics", req.Query)

			json.NewEncoder(w).Encode(serperResponse{
				Organic: []serperOrganic{
					{Title: "third", Link: "https://c", Snippet: "c", Position: 3},
					{Title: "first", Link: "https://a", Snippet: "a", Position: 1},
					{Title: "fourth", Link: "https://d", Snippet: "d", Position: 4},
					{Title: "second", Link: "https://b", Snippet: "b", Position: 2},
				},
			})
		})

		results, err := c.Search(context.Background(), "go generics")
		require.NoError(t, err)
		require.Len(t, results, MaxResults)
		assert.Equal(t, "first", results[0].Title)
		assert.Equal(t, "second", results[1].Title)
		assert.Equal(t, "third", results[2].Title)
	})

	t.Run("empty organic is not an error", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(serperResponse{})
		})

		results, err := c.Search(context.Background(), "nothing matches this")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("non-200 wraps ErrProvider", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.Search(context.Background(), "query")
		assert.ErrorIs(t, err, ErrProvider)
	})

	t.Run("malformed body wraps ErrProvider", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		_, err := c.Search(context.Background(), "query")
		assert.ErrorIs(t, err, ErrProvider)
	})
}
