package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"caixa-be/internal/auth"
	"caixa-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuth(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok, "Context should not contain user ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/products", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		tokenString, err := auth.GenerateJWT(testSecret, 1, utils.RoleOwner, "dona@loja.com", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, utils.RoleOwner, utils.GetUserRoleFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": float64(1),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(testSecret)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier for order numbering", func(t *testing.T) {
		rl := NewRateLimiter(ctx, "")
		handler := rl.Middleware(ok)

		codes := map[int]int{}
		for i := 0; i < burstStrict+3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/number", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes[w.Code]++
		}

		assert.Equal(t, burstStrict, codes[http.StatusOK])
		assert.Equal(t, 3, codes[http.StatusTooManyRequests])
	})

	t.Run("Separate buckets per identity", func(t *testing.T) {
		rl := NewRateLimiter(ctx, "")
		handler := rl.Middleware(ok)

		for i := 0; i < burstGeneral; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			req.Header.Set("X-Device-ID", "tablet-1")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("X-Device-ID", "tablet-2")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Internal tier", func(t *testing.T) {
		rl := NewRateLimiter(ctx, "svc-key")
		req := httptest.NewRequest(http.MethodPost, "/api/orders/number", nil)
		req.Header.Set("X-Service-Auth", "svc-key")

		limit, burst, tier := rl.resolveTier(req)
		assert.Equal(t, limitInternal, limit)
		assert.Equal(t, burstInternal, burst)
		assert.Equal(t, "internal", tier)
	})

	t.Run("Tier per route", func(t *testing.T) {
		rl := NewRateLimiter(ctx, "")
		cases := []struct {
			method, path, tier string
		}{
			{http.MethodPost, "/auth/login", "strict"},
			{http.MethodPost, "/api/reports/export", "strict"},
			{http.MethodGet, "/api/orders/number", "general"},
			{http.MethodGet, "/api/reports/summary", "general"},
		}
		for _, tc := range cases {
			_, _, tier := rl.resolveTier(httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.tier, tier, tc.method+" "+tc.path)
		}
	})

	t.Run("Sweep drops idle visitors", func(t *testing.T) {
		rl := NewRateLimiter(ctx, "")
		now := time.Now()
		rl.now = func() time.Time { return now }
		rl.getVisitor("ip:1:general", limitGeneral, burstGeneral)

		rl.now = func() time.Time { return now.Add(visitorTTL + time.Second) }
		rl.sweep()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.visitors)
	})
}
