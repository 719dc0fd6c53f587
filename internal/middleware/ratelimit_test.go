package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsBurst(t *testing.T) {
	limiter := NewSimpleTokenBucket(5, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, limiter.allow("10.0.0.1"))
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	limiter := NewSimpleTokenBucket(5, 1)

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.2"))
}

func TestGinMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewSimpleTokenBucket(5, 1)
	router := gin.New()
	router.POST("/scan", limiter.GinMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scan", nil)
	req.RemoteAddr = "10.0.0.1:4444"
	router.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/scan", nil)
	req.RemoteAddr = "10.0.0.1:4444"
	router.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
