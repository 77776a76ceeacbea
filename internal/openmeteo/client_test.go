package openmeteo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/internal/openmeteo"
)

// newTestClient points both upstream URLs at srv.
func newTestClient(t *testing.T, srv *httptest.Server, units domain.UnitSystem) *openmeteo.Client {
	t.Helper()
	return openmeteo.NewClient(openmeteo.Config{
		GeocodingURL: srv.URL,
		ForecastURL:  srv.URL,
		Timeout:      2 * time.Second,
		RPS:          1000,
		Burst:        1000,
		MaxFailures:  3,
		Units:        units,
	}, nil)
}

// ---- Search ----------------------------------------------------------------

const geocodingBody = `{
  "results": [
    {"id": 4976611, "name": "Sunday River", "latitude": 44.4734, "longitude": -70.8567, "country": "United States", "admin1": "Maine"},
    {"id": 5058001, "name": "Sunday River Ski Resort", "latitude": 44.47, "longitude": -70.86, "country": "United States"}
  ],
  "generationtime_ms": 0.7
}`

func TestSearch_RequestAndMapping(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geocodingBody))
	}))
	defer srv.Close()

	resorts, err := newTestClient(t, srv, domain.Imperial).Search(context.Background(), "Sunday River Maine", 20)

	require.NoError(t, err)
	assert.Equal(t, "Sunday River Maine", got.Get("name"))
	assert.Equal(t, "20", got.Get("count"))
	assert.Equal(t, "en", got.Get("language"))
	assert.Equal(t, "json", got.Get("format"))

	require.Len(t, resorts, 2)
	assert.Equal(t, domain.Resort{
		ExternalID: "4976611",
		Name:       "Sunday River",
		Latitude:   44.4734,
		Longitude:  -70.8567,
		Country:    "United States",
		Region:     "Maine",
		Slug:       "sunday-river-maine",
	}, resorts[0])
	assert.Equal(t, "5058001", resorts[1].ExternalID)
	assert.Empty(t, resorts[1].Region)
}

func TestSearch_NoResultsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms": 0.2}`))
	}))
	defer srv.Close()

	resorts, err := newTestClient(t, srv, domain.Imperial).Search(context.Background(), "zzzz", 20)

	require.NoError(t, err)
	assert.NotNil(t, resorts)
	assert.Empty(t, resorts)
}

func TestSearch_Non2xxIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, domain.Imperial).Search(context.Background(), "Vail", 20)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestSearch_TransportFailureIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, domain.Imperial)
	srv.Close()

	_, err := c.Search(context.Background(), "Vail", 20)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestSearch_MalformedBodyIsDataShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, domain.Imperial).Search(context.Background(), "Vail", 20)

	assert.ErrorIs(t, err, domain.ErrDataShape)
}

// TestBreaker_OpensAfterConsecutiveFailures verifies that once MaxFailures
// calls have failed, further calls fail fast without reaching the upstream.
func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, domain.Imperial)
	for i := 0; i < 5; i++ {
		_, err := c.Search(context.Background(), "Vail", 20)
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	assert.Equal(t, int32(3), calls.Load(), "breaker should stop calls after 3 failures")
}

// TestBreaker_PerHost verifies that an open geocoding breaker does not stop
// forecast calls to a healthy forecast host.
func TestBreaker_PerHost(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer geo.Close()

	var forecastCalls atomic.Int32
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastCalls.Add(1)
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer wx.Close()

	c := openmeteo.NewClient(openmeteo.Config{
		GeocodingURL: geo.URL,
		ForecastURL:  wx.URL,
		Timeout:      2 * time.Second,
		RPS:          1000,
		Burst:        1000,
		MaxFailures:  3,
		Units:        domain.Imperial,
	}, nil)

	for i := 0; i < 4; i++ {
		_, err := c.Search(context.Background(), "Vail", 20)
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	series, err := c.Hourly(context.Background(), domain.Coordinates{Latitude: 44.47, Longitude: -70.86})

	require.NoError(t, err)
	assert.Len(t, series.Times, 3)
	assert.Equal(t, int32(1), forecastCalls.Load())
}

func TestSearch_MissingIDHasNoExternalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"name": "Mad River Glen", "latitude": 44.2, "longitude": -72.92, "country": "United States", "admin1": "Vermont"}]}`))
	}))
	defer srv.Close()

	resorts, err := newTestClient(t, srv, domain.Imperial).Search(context.Background(), "Mad River", 20)

	require.NoError(t, err)
	require.Len(t, resorts, 1)
	assert.Empty(t, resorts[0].ExternalID, "a missing id must not become \"0\"")
	assert.Equal(t, "mad-river-glen-vermont", resorts[0].Slug)
}

func TestSearch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called with a canceled context")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv, domain.Imperial).Search(ctx, "Vail", 20)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
