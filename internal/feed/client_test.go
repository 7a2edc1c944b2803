package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "products": [
    {"id": 1, "title": "Essence Mascara", "description": "Volumizing", "price": 9.99,
     "category": "beauty", "thumbnail": "m.png", "images": ["a.png"], "stock": 5,
     "rating": 4.94, "brand": "Essence"},
    {"id": 2, "title": "Tree Oil", "description": "Oil", "price": 12.5,
     "category": "fragrances", "thumbnail": "o.png"}
  ],
  "total": 194, "skip": 0, "limit": 2
}`

func testClient(url string) *Client {
	return newClient(Config{URL: url, Limit: 100, Timeout: time.Second}, http.DefaultClient, zerolog.Nop())
}

func TestFetch_Success(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL + "/products").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)
	require.Len(t, items, 2)
	assert.Equal(t, "Essence Mascara", items[0].Name())
	assert.Equal(t, 5, items[0].Stock)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	assert.ErrorContains(t, err, "decode feed")
}

func TestFetch_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestItemProduct_Defaults(t *testing.T) {
	title, desc, cat, thumb := "Tree Oil", "Oil", "fragrances", "o.png"
	price := 12.5
	p, err := Item{Title: &title, Description: &desc, Price: &price, Category: &cat, Thumbnail: &thumb}.Product()
	require.NoError(t, err)

	assert.Equal(t, []string{}, p.Images)
	assert.Zero(t, p.Stock)
	assert.Zero(t, p.Rating)
	assert.Empty(t, p.Brand)
}

func TestItemProduct_Invalid(t *testing.T) {
	title := "No Price"
	_, err := Item{Title: &title}.Product()
	assert.ErrorIs(t, err, domain.ErrValidation)

	desc, cat, thumb := "d", "c", "t"
	price := 1.0
	_, err = Item{Title: &title, Description: &desc, Price: &price, Category: &cat, Thumbnail: &thumb, Rating: 7}.Product()
	assert.ErrorIs(t, err, domain.ErrValidation)
}
