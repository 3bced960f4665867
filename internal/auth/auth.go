package auth

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// ContextUserKey ключ gin-контекста с именем пользователя
const ContextUserKey = "user"

// Verifier проверяет bearer-токен и возвращает имя пользователя
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// StaticTokens maps API tokens to user names.
type StaticTokens map[string]string

func NewStaticTokens(tokens map[string]string) StaticTokens {
	return StaticTokens(maps.Clone(tokens))
}

func (s StaticTokens) Verify(_ context.Context, token string) (string, error) {
	user, ok := s[token]
	if !ok || token == "" {
		return "", ErrUnauthenticated
	}
	return user, nil
}

// RedisSessions resolves tokens stored as session:<token> -> user name.
type RedisSessions struct {
	client redis.UniversalClient
}

func NewRedisSessions(client redis.UniversalClient) *RedisSessions {
	return &RedisSessions{client: client}
}

func sessionKey(token string) string { return "session:" + token }

func (r *RedisSessions) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	user, err := r.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && user == "") {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	return user, nil
}

// AllowAll accepts any request, including ones without a token. Development only.
type AllowAll struct{}

func (AllowAll) Verify(context.Context, string) (string, error) { return "anonymous", nil }

// Chain tries each verifier in turn; the first success wins.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (string, error) {
	for _, v := range c {
		user, err := v.Verify(ctx, token)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return "", err
		}
	}
	return "", ErrUnauthenticated
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireToken отклоняет запросы без валидного Authorization: Bearer <token>
func RequireToken(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := v.Verify(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth backend unavailable"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// User returns the name stored by RequireToken.
func User(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
