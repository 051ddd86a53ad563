package garmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	m    map[string][]byte
	sets int
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	s.sets++
	s.m[key] = value
}

func newTestClient(t *testing.T, handler http.Handler, cfg ClientConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	if cfg.Email == "" {
		cfg.Email = "user@example.com"
	}
	if cfg.Password == "" {
		cfg.Password = "secret"
	}
	return NewClient(cfg)
}

func TestLoginStoresTokenForLaterRequests(t *testing.T) {
	var sawAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"tok-123","expiresIn":3600}`))
	})
	mux.HandleFunc("/usersummary-service/usersummary/daily", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalSteps":8234}`))
	})

	client := newTestClient(t, mux, ClientConfig{})
	require.NoError(t, client.Login(context.Background()))

	summary, err := client.UserSummary(context.Background(), "2026-08-27")
	require.NoError(t, err)
	require.Equal(t, 8234, *summary.TotalSteps)
	require.Equal(t, "Bearer tok-123", sawAuth)
}

func TestLoginClassifiesRejections(t *testing.T) {
	status := http.StatusUnauthorized
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	client := newTestClient(t, mux, ClientConfig{})

	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrAuthentication)

	status = http.StatusTooManyRequests
	err = client.Login(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestLoginRequiresCredentials(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://unused.invalid"})
	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	client := newTestClient(t, mux, ClientConfig{})

	require.Error(t, client.Login(context.Background()))
}

func TestFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			want: ErrAuthentication,
		},
		{
			name: "throttled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want: ErrRateLimited,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: ErrNotFound,
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`null`))
			},
			want: ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/wellness-service/wellness/dailyStress/2026-08-27", tc.handler)
			client := newTestClient(t, mux, ClientConfig{})

			_, err := client.Stress(context.Background(), "2026-08-27")
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestHistoricalFetchesAreCached(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/wellness-service/wellness/dailyStress/2026-08-20", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"avgStressLevel":31}`))
	})

	store := newMemStore()
	client := newTestClient(t, mux, ClientConfig{Cache: store, CacheTTL: time.Minute})
	client.now = func() time.Time {
		return time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)
	}

	first, err := client.Stress(context.Background(), "2026-08-20")
	require.NoError(t, err)
	require.Equal(t, 31, *first.AvgStressLevel)
	require.Equal(t, 1, store.sets)

	second, err := client.Stress(context.Background(), "2026-08-20")
	require.NoError(t, err)
	require.Equal(t, 31, *second.AvgStressLevel)
	require.Equal(t, 1, hits, "second fetch should come from cache")
}

func TestCurrentDayIsNeverCached(t *testing.T) {
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/wellness-service/wellness/dailyStress/2026-08-27", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"avgStressLevel":31}`))
	})

	store := newMemStore()
	client := newTestClient(t, mux, ClientConfig{Cache: store, CacheTTL: time.Minute})
	client.now = func() time.Time {
		return time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)
	}

	_, err := client.Stress(context.Background(), "2026-08-27")
	require.NoError(t, err)
	_, err = client.Stress(context.Background(), "2026-08-27")
	require.NoError(t, err)

	require.Zero(t, store.sets)
	require.Equal(t, 2, hits)
}

func TestActivityDetailToleratesMissingSubResources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/activity-service/activity/42/splits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/activity-service/activity/42/hrTimeInZones", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"zoneNumber":2,"secsInZone":600}]`))
	})
	mux.HandleFunc("/activity-service/activity/42/weather", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/gear-service/gear/filter", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	client := newTestClient(t, mux, ClientConfig{})

	detail, err := client.ActivityDetail(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), detail.ActivityID)
	require.Nil(t, detail.Splits)
	require.Nil(t, detail.Weather)
	require.Len(t, detail.HRZones, 1)
}

func TestActivityDetailPropagatesAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client := newTestClient(t, mux, ClientConfig{})

	_, err := client.ActivityDetail(context.Background(), 42)
	require.ErrorIs(t, err, ErrAuthentication)
}
