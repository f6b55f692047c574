package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ebatarlar/personal-finance/internal/middleware"
)

func newLimitedRouter(rpm int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limiter := middleware.NewRateLimiter(rpm)
	r.POST("/login", limiter.Handler(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	r := newLimitedRouter(3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
	require.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
}

func TestRateLimiterIsPerClient(t *testing.T) {
	r := newLimitedRouter(3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
	require.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	require.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	r := newLimitedRouter(0)

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
}
