// Package auth issues and verifies bearer tokens and carries the resolved
// owner id through the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/models"
)

const bearerScheme = "bearer"

type Config struct {
	Secret   string
	TokenTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Gate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewGate(cfg Config) (*Gate, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Gate{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL, now: now}, nil
}

// Issue signs a token whose subject is the owner id.
func (g *Gate) Issue(owner uuid.UUID) (string, error) {
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   owner.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// Resolve validates an Authorization header value of the form
// "Bearer <token>" and returns the owner id embedded in it.
func (g *Gate) Resolve(header string) (uuid.UUID, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	if scheme == "" {
		return uuid.Nil, apperr.Unauthorizedf("authorization header is required")
	}
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return uuid.Nil, apperr.Unauthorizedf("invalid authorization header")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperr.Unauthorizedf("token expired")
		}
		return uuid.Nil, apperr.Unauthorizedf("invalid token")
	}

	owner, err := uuid.Parse(claims.Subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, apperr.Unauthorizedf("invalid token")
	}
	return owner, nil
}

// Middleware rejects the request with 401 unless the Authorization header
// resolves, and otherwise stores the owner id in the request context.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := g.Resolve(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: apperr.Message(err)})
			return
		}
		c.Request = c.Request.WithContext(WithOwner(c.Request.Context(), owner))
		c.Next()
	}
}

type ownerKey struct{}

func WithOwner(ctx context.Context, owner uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	owner, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return owner, ok && owner != uuid.Nil
}
