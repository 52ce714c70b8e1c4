package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSigner() *utils.TokenSigner {
	return utils.NewTokenSigner("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestAuthMiddleware(t *testing.T) {
	signer := newSigner()
	userID := uuid.New()
	pair, err := signer.GenerateTokenPair(utils.Subject{UserID: userID, Email: "a@example.com", Username: "alice", Role: "member"})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(signer), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, http.StatusUnauthorized},
		{"refresh token rejected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) }, http.StatusOK},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	supplied := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, supplied)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, supplied, w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter("test", 0.001, 2)
	t.Cleanup(limiter.Stop)

	router := gin.New()
	router.GET("/", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/", RequestSizeLimitMiddleware(8), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(true))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
