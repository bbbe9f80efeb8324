package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront_server/config"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testSecret = "middleware-test-secret"

type fakeGuard struct {
	revoked   bool
	banned    bool
	bannedErr error
}

func (g *fakeGuard) GetAccessTokenSecret() string { return testSecret }

func (g *fakeGuard) IsTokenRevoked(ctx context.Context, jti uuid.UUID) bool { return g.revoked }

func (g *fakeGuard) IsUserBanned(ctx context.Context, userId uuid.UUID) (bool, error) {
	return g.banned, g.bannedErr
}

type fakeCounter struct {
	count int
	ttl   time.Duration
	err   error
	calls atomic.Int32
	last  string
}

func (c *fakeCounter) IncrementRateLimit(ctx context.Context, bucket, ip string, window time.Duration) (int, time.Duration, error) {
	c.calls.Add(1)
	c.last = bucket
	return c.count, c.ttl, c.err
}

func newTestMiddleware(guard tokenGuard, limiter rateCounter) *Middleware {
	return &Middleware{
		cfg:     config.Load(),
		logger:  config.NewLogger(false),
		auth:    guard,
		limiter: limiter,
	}
}

func accessCookie(t *testing.T, role string) (*http.Cookie, uuid.UUID) {
	t.Helper()
	now := time.Now()
	userID := uuid.New()
	token, err := lib.SignToken(&structs.AuthClaims{
		Sub:   userID,
		Email: "buyer@example.com",
		Role:  role,
		Iat:   now,
		Exp:   now.Add(time.Hour),
		Jti:   uuid.New(),
	}, testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: lib.AccessCookieName, Value: token}, userID
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestUserAuthMiddleware(t *testing.T) {
	t.Run("missing cookie", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{}, nil)
		rec := httptest.NewRecorder()
		mw.UserAuthMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token puts claims in context", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{}, nil)
		cookie, userID := accessCookie(t, structs.RoleUser)
		req := httptest.NewRequest(http.MethodGet, "/orders/me", nil)
		req.AddCookie(cookie)

		var seen *uuid.UUID
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		mw.UserAuthMiddleware(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, userID, *seen)
	})

	cases := []struct {
		name  string
		guard *fakeGuard
		want  int
	}{
		{"revoked token", &fakeGuard{revoked: true}, http.StatusUnauthorized},
		{"banned user", &fakeGuard{banned: true}, http.StatusForbidden},
		{"deleted user", &fakeGuard{bannedErr: lib.ErrNotFound}, http.StatusUnauthorized},
		{"lookup failure", &fakeGuard{bannedErr: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mw := newTestMiddleware(tc.guard, nil)
			cookie, _ := accessCookie(t, structs.RoleUser)
			req := httptest.NewRequest(http.MethodGet, "/orders/me", nil)
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			mw.UserAuthMiddleware(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("token signed with another secret", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{}, nil)
		token, err := lib.SignToken(&structs.AuthClaims{
			Sub: uuid.New(), Role: structs.RoleUser, Iat: time.Now(), Exp: time.Now().Add(time.Hour), Jti: uuid.New(),
		}, "other-secret")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/orders/me", nil)
		req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: token})
		rec := httptest.NewRecorder()
		mw.UserAuthMiddleware(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminAuthMiddleware(t *testing.T) {
	mw := newTestMiddleware(&fakeGuard{}, nil)
	chain := mw.UserAuthMiddleware(mw.AdminAuthMiddleware(okHandler))

	for role, want := range map[string]int{
		structs.RoleUser:  http.StatusForbidden,
		structs.RoleAdmin: http.StatusOK,
	} {
		cookie, _ := accessCookie(t, role)
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	t.Run("without user auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.AdminAuthMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	capture := func(seen **uuid.UUID) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*seen = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{}, nil)
		var seen *uuid.UUID
		rec := httptest.NewRecorder()
		mw.OptionalAuthMiddleware(capture(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("banned session is treated as anonymous", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{banned: true}, nil)
		cookie, _ := accessCookie(t, structs.RoleUser)
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.AddCookie(cookie)
		var seen *uuid.UUID
		rec := httptest.NewRecorder()
		mw.OptionalAuthMiddleware(capture(&seen)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid session", func(t *testing.T) {
		mw := newTestMiddleware(&fakeGuard{}, nil)
		cookie, userID := accessCookie(t, structs.RoleUser)
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.AddCookie(cookie)
		var seen *uuid.UUID
		rec := httptest.NewRecorder()
		mw.OptionalAuthMiddleware(capture(&seen)).ServeHTTP(rec, req)
		require.NotNil(t, seen)
		assert.Equal(t, userID, *seen)
	})
}

func TestCSRFMiddleware(t *testing.T) {
	mw := newTestMiddleware(&fakeGuard{}, nil)
	handler := mw.CSRFMiddleware()(okHandler)

	cases := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{"safe method skips check", http.MethodGet, "", "", http.StatusOK},
		{"missing token", http.MethodPost, "", "", http.StatusForbidden},
		{"header without cookie", http.MethodPost, "", "abc", http.StatusForbidden},
		{"mismatch", http.MethodPost, "abc", "xyz", http.StatusForbidden},
		{"match", http.MethodPost, "abc", "abc", http.StatusOK},
		{"match on delete", http.MethodDelete, "abc", "abc", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/marketplace/listings", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set(lib.CSRFHeaderName, tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestBucketFor(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/auth/login", bucketAuth},
		{http.MethodPost, "/auth/resend-verification", bucketAuth},
		{http.MethodGet, "/auth/me", bucketGeneral},
		{http.MethodGet, "/admin/orders", bucketAdmin},
		{http.MethodPost, "/marketplace/listings/abc/contact", bucketContact},
		{http.MethodGet, "/marketplace/listings", bucketExpensive},
		{http.MethodGet, "/products", bucketExpensive},
		{http.MethodPost, "/orders/bundle", bucketGeneral},
	}
	for _, tc := range cases {
		bucket, _, _ := mw.bucketFor(tc.path, tc.method)
		assert.Equal(t, tc.want, bucket, tc.method+" "+tc.path)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("under the limit", func(t *testing.T) {
		counter := &fakeCounter{count: 1, ttl: 30 * time.Second}
		mw := newTestMiddleware(nil, counter)
		rec := httptest.NewRecorder()
		mw.RateLimitMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, bucketAuth, counter.last)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("over the limit", func(t *testing.T) {
		counter := &fakeCounter{count: 11, ttl: 42 * time.Second}
		mw := newTestMiddleware(nil, counter)
		rec := httptest.NewRecorder()
		mw.RateLimitMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "42", rec.Header().Get("Retry-After"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("cache failure lets the request through", func(t *testing.T) {
		counter := &fakeCounter{err: errors.New("redis down")}
		mw := newTestMiddleware(nil, counter)
		rec := httptest.NewRecorder()
		mw.RateLimitMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health and uploads are not counted", func(t *testing.T) {
		counter := &fakeCounter{count: 1000}
		mw := newTestMiddleware(nil, counter)
		for _, path := range []string{"/health/server", "/metrics", "/uploads/a.png"} {
			rec := httptest.NewRecorder()
			mw.RateLimitMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
		assert.Zero(t, counter.calls.Load())
	})

	t.Run("disabled", func(t *testing.T) {
		counter := &fakeCounter{count: 1000}
		mw := newTestMiddleware(nil, counter)
		mw.cfg.RateLimit.Enabled = false
		rec := httptest.NewRecorder()
		mw.RateLimitMiddleware()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, counter.calls.Load())
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5123"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestLanguageMiddleware(t *testing.T) {
	mw := newTestMiddleware(nil, nil)

	var seen language.Tag
	handler := mw.LanguageMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = i18n.FromContext(r.Context())
	}))

	t.Run("query param is persisted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?lang=ar", nil))

		assert.Equal(t, language.Arabic, seen)
		assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), i18n.LangCookieName+"=ar")
	})

	t.Run("accept-language is not persisted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Accept-Language", "ar-EG,ar;q=0.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, language.Arabic, seen)
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("unsupported falls back to default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?lang=fr", nil))
		assert.Equal(t, language.English, seen)
		assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	})
}

func TestQuietPath(t *testing.T) {
	assert.True(t, quietPath("/metrics"))
	assert.True(t, quietPath("/health/database"))
	assert.False(t, quietPath("/healthy-snacks"))
	assert.False(t, quietPath("/products"))
}
