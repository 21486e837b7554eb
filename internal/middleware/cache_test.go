package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/gymcore/internal/config"
)

func cacheTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", uint64(7))
			return next(c)
		}
	})
	cfg := config.CacheConfig{Enabled: true, TTL: 10 * time.Second, Prefix: "cache"}
	e.GET("/v1/centers/:id/reservations", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"center": c.Param("id")})
	}, CacheGET(cfg, rdb))
	return e
}

func doGET(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCacheGETDoesNotLeakAcrossCenters(t *testing.T) {
	e := cacheTestServer(t)

	first := doGET(e, "/v1/centers/1/reservations")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"center":"1"}`, first.Body.String())

	// A different center on the same registered route must miss the cache
	// and see its own data.
	second := doGET(e, "/v1/centers/2/reservations")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Empty(t, second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"center":"2"}`, second.Body.String())
}

func TestCacheGETHitsOnSameURL(t *testing.T) {
	e := cacheTestServer(t)

	first := doGET(e, "/v1/centers/1/reservations")
	require.Equal(t, http.StatusOK, first.Code)

	repeat := doGET(e, "/v1/centers/1/reservations")
	require.Equal(t, http.StatusOK, repeat.Code)
	assert.Equal(t, "HIT", repeat.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"center":"1"}`, repeat.Body.String())
}

func TestCacheGETKeyVariesByQuery(t *testing.T) {
	e := cacheTestServer(t)

	_ = doGET(e, "/v1/centers/1/reservations")
	filtered := doGET(e, "/v1/centers/1/reservations?user_id=3")
	require.Equal(t, http.StatusOK, filtered.Code)
	assert.Empty(t, filtered.Header().Get("X-Cache"))
}
