package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRouter(v Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/who", RequireToken(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": User(c)})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireToken_StaticTokens(t *testing.T) {
	r := newRouter(NewStaticTokens(map[string]string{"secret": "alice"}))

	rec := get(r, "Bearer secret")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"user":"alice"}`, rec.Body.String())

	for _, h := range []string{"", "Bearer", "Bearer nope", "Basic secret", "secret"} {
		rec := get(r, h)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", h)
		require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	}
}

func TestRequireToken_AllowAll(t *testing.T) {
	rec := get(newRouter(AllowAll{}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"user":"anonymous"}`, rec.Body.String())
}

func TestChain(t *testing.T) {
	c := Chain{NewStaticTokens(map[string]string{"a": "one"}), NewStaticTokens(map[string]string{"b": "two"})}
	user, err := c.Verify(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, "two", user)

	_, err = c.Verify(context.Background(), "c")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRedisSessions_BackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	sessions := NewRedisSessions(client)

	_, err := sessions.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = sessions.Verify(context.Background(), "tok")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthenticated)

	rec := get(newRouter(sessions), "Bearer tok")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", bearerToken("Bearer abc"))
	require.Equal(t, "abc", bearerToken("bearer  abc "))
	require.Empty(t, bearerToken("Token abc"))
}
