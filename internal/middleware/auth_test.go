package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"localprice/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, roles []string, ttl time.Duration) string {
	t.Helper()
	claims := &JWTClaims{
		UserID:   uuid.NewString(),
		Username: "afi",
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{"user": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims.Username})
	})
	r.GET("/probe", handlers...)
	return r
}

func probe(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := authRouter(Auth(testSecret, nil, nil))

	w := probe(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")

	// Wrong scheme counts as missing too.
	w = probe(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	r := authRouter(Auth(testSecret, nil, nil))

	w := probe(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")

	expired := signToken(t, []string{model.RoleUser}, -time.Hour)
	w = probe(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsLocalToken(t *testing.T) {
	r := authRouter(Auth(testSecret, nil, nil))

	token := signToken(t, []string{model.RoleUser}, time.Hour)
	w := probe(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "afi")
}

func TestRequireRoleEnforcesMembership(t *testing.T) {
	r := authRouter(Auth(testSecret, nil, nil), RequireRole(model.RoleAdmin))

	plain := signToken(t, []string{model.RoleUser, model.RoleContributor}, time.Hour)
	w := probe(r, "Bearer "+plain)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient permissions")

	admin := signToken(t, []string{model.RoleAdmin}, time.Hour)
	w = probe(r, "Bearer "+admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuperAdminPassesAdminChecks(t *testing.T) {
	r := authRouter(Auth(testSecret, nil, nil), RequireRole(model.RoleAdmin))

	token := signToken(t, []string{model.RoleSuperAdmin}, time.Hour)
	w := probe(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	// The widening only applies to checks that admit admin.
	r = authRouter(Auth(testSecret, nil, nil), RequireRole(model.RoleContributor))
	w = probe(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	r := authRouter(OptionalAuth(testSecret, nil, nil))

	w := probe(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// An invalid token degrades to anonymous instead of failing the request.
	w = probe(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	token := signToken(t, []string{model.RoleUser}, time.Hour)
	w = probe(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "afi")
}

// ── external identity fallback ───────────────────────────────────────────────

type stubVerifier struct {
	subject string
	err     error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (string, error) {
	return v.subject, v.err
}

type stubResolver struct {
	users map[string]*model.User
}

func (r *stubResolver) FindByExternalSubject(_ context.Context, subject string) (*model.User, error) {
	u, ok := r.users[subject]
	if !ok {
		return nil, errors.New("no such account")
	}
	return u, nil
}

func TestAuthFallsBackToExternalVerifier(t *testing.T) {
	mail := "kwame@example.org"
	user := &model.User{
		ID:       uuid.New(),
		Username: "kwame",
		Email:    &mail,
		Active:   true,
		Roles:    []model.Role{{ID: uuid.New(), Name: model.RoleContributor}},
	}
	verifier := &stubVerifier{subject: "idp|42"}
	resolver := &stubResolver{users: map[string]*model.User{"idp|42": user}}

	r := authRouter(Auth(testSecret, verifier, resolver), RequireRole(model.RoleContributor))

	// Not a locally issued token, but the external provider vouches for it.
	w := probe(r, "Bearer external-opaque-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kwame")
}

func TestAuthExternalSubjectWithoutAccountFails(t *testing.T) {
	verifier := &stubVerifier{subject: "idp|unknown"}
	resolver := &stubResolver{users: map[string]*model.User{}}

	r := authRouter(Auth(testSecret, verifier, resolver))

	w := probe(r, "Bearer external-opaque-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
