package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		w.Write([]byte(`{"address":{"city":"Oslo","town":"","village":"","country":"Norway"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	loc, err := client.Lookup(context.Background(), 59.91, 10.75)
	require.NoError(t, err)
	assert.Equal(t, "Oslo", loc.City)
	assert.Equal(t, "Norway", loc.Country)
}

func TestLookupVillageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"city":"","town":"","village":"Flåm","country":"Norway"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	loc, err := client.Lookup(context.Background(), 60.86, 7.11)
	require.NoError(t, err)
	assert.Equal(t, "Flåm", loc.Town)
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.Lookup(context.Background(), 59.91, 10.75)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookupUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 0)
	_, err := client.Lookup(context.Background(), 59.91, 10.75)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestThrottle(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"address":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 50*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Lookup(context.Background(), 0, 0)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 3, calls)
}
