package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/config"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
)

type fakeRateStore struct {
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (s *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	return s.counts[key], nil
}

func portalRouter(cfg config.PortalRateLimitConfig, store *fakeRateStore) http.Handler {
	r := chi.NewRouter()
	r.Route("/portal/{token}", func(r chi.Router) {
		r.Use(PortalRateLimit(cfg, store, nil))
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func portalGet(handler http.Handler, token, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/portal/"+token+"/", nil)
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPortalRateLimitUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	handler := portalRouter(config.PortalRateLimitConfig{Window: time.Minute, IPLimit: 5, TokenLimit: 5}, store)

	for i := 0; i < 5; i++ {
		if rec := portalGet(handler, "tok-a", "10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d blocked: %d", i+1, rec.Code)
		}
	}
}

func TestPortalRateLimitBlocksIP(t *testing.T) {
	store := newFakeRateStore()
	handler := portalRouter(config.PortalRateLimitConfig{Window: time.Minute, IPLimit: 2, TokenLimit: 100}, store)

	portalGet(handler, "tok-a", "10.0.0.1")
	portalGet(handler, "tok-b", "10.0.0.1")
	rec := portalGet(handler, "tok-c", "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}

	// A different client is unaffected.
	if rec := portalGet(handler, "tok-a", "10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("other IP blocked: %d", rec.Code)
	}
}

func TestPortalRateLimitBlocksToken(t *testing.T) {
	store := newFakeRateStore()
	handler := portalRouter(config.PortalRateLimitConfig{Window: time.Minute, IPLimit: 100, TokenLimit: 2}, store)

	portalGet(handler, "tok-a", "10.0.0.1")
	portalGet(handler, "tok-a", "10.0.0.2")
	rec := portalGet(handler, "tok-a", "10.0.0.3")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}

	// Raw token values never appear as redis keys.
	for key := range store.counts {
		if strings.Contains(key, "tok-a") {
			t.Fatalf("plaintext token leaked into key %q", key)
		}
	}
}

func TestPortalRateLimitStoreFailure(t *testing.T) {
	store := newFakeRateStore()
	store.err = context.DeadlineExceeded
	handler := portalRouter(config.PortalRateLimitConfig{Window: time.Minute, IPLimit: 2, TokenLimit: 2}, store)

	rec := portalGet(handler, "tok-a", "10.0.0.1")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(pkgerrors.CodeDependency)) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestPortalRateLimitDisabled(t *testing.T) {
	handler := portalRouter(config.PortalRateLimitConfig{Window: 0, IPLimit: 2, TokenLimit: 2}, nil)

	for i := 0; i < 10; i++ {
		if rec := portalGet(handler, "tok-a", "10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("disabled limiter blocked request: %d", rec.Code)
		}
	}
}
