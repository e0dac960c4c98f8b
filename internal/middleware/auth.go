package middleware

import (
	"context"
	"net/http"
	"strings"

	"localprice/internal/apiresp"
	"localprice/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every locally issued access token.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role.
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ExternalTokenVerifier validates a token issued by the external identity
// provider and returns its subject.
type ExternalTokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// SubjectResolver maps an external subject to a local account.
type SubjectResolver interface {
	FindByExternalSubject(ctx context.Context, subject string) (*model.User, error)
}

// Auth validates the Bearer token on every protected route. Locally issued
// HS256 tokens are tried first; if an external verifier is configured, tokens
// that fail the local check are verified against the provider's JWKS and
// cross-referenced to a local account for roles.
func Auth(secret string, verifier ExternalTokenVerifier, resolver SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiresp.Error("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if claims, err := parseLocal(tokenStr, secret); err == nil {
			c.Set(ClaimsKey, claims)
			c.Next()
			return
		}

		if verifier != nil && resolver != nil {
			if claims, err := resolveExternal(c.Request.Context(), tokenStr, verifier, resolver); err == nil {
				c.Set(ClaimsKey, claims)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, apiresp.Error("invalid or expired token"))
	}
}

// OptionalAuth attaches claims when a valid Bearer token is present but lets
// anonymous requests through. Used on public read routes so validated data is
// browsable without an account.
func OptionalAuth(secret string, verifier ExternalTokenVerifier, resolver SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if claims, err := parseLocal(tokenStr, secret); err == nil {
			c.Set(ClaimsKey, claims)
		} else if verifier != nil && resolver != nil {
			if claims, err := resolveExternal(c.Request.Context(), tokenStr, verifier, resolver); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

func parseLocal(tokenStr, secret string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func resolveExternal(ctx context.Context, tokenStr string, verifier ExternalTokenVerifier, resolver SubjectResolver) (*JWTClaims, error) {
	subject, err := verifier.Verify(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	user, err := resolver.FindByExternalSubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	claims := &JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Roles:    user.RoleNames(),
	}
	if user.Email != nil {
		claims.Email = *user.Email
	}
	return claims, nil
}

// RequireRole rejects requests whose token carries none of the allowed roles.
// super_admin passes any check that admits admin.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	if allowed[model.RoleAdmin] {
		allowed[model.RoleSuperAdmin] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiresp.Error("insufficient permissions"))
			return
		}
		for _, r := range claims.Roles {
			if allowed[r] {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apiresp.Error("insufficient permissions"))
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// Returns nil for anonymous requests.
func GetClaims(c *gin.Context) *JWTClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
