package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uint, name string, admin bool) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:  userID,
		Name:    name,
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runRequest(handler echo.HandlerFunc, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := handler
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return rec, h(c)
}

func okWithActor(c echo.Context) error {
	actor, _ := ActorFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{"user_id": actor.ID, "is_admin": actor.IsAdmin})
}

func TestJWTAuthMiddleware(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuthMiddleware(testSecret)}

	_, err := runRequest(okWithActor, mw, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	_, err = runRequest(okWithActor, mw, "Bearer not-a-token")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	_, err = runRequest(okWithActor, mw, "Token whatever")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	rec, err := runRequest(okWithActor, mw, "Bearer "+signToken(t, 7, "eve", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	claims := &models.JwtCustomClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = runRequest(okWithActor, []echo.MiddlewareFunc{JWTAuthMiddleware(testSecret)}, "Bearer "+forged)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestOptionalJWTMiddleware(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalJWTMiddleware(testSecret)}

	// anonymous requests pass through without an actor
	rec, err := runRequest(func(c echo.Context) error {
		_, ok := ActorFromContext(c)
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	}, mw, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	// so do requests with a bad token
	rec, err = runRequest(func(c echo.Context) error {
		_, ok := ActorFromContext(c)
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	}, mw, "Bearer garbage")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a valid token attaches the actor
	rec, err = runRequest(okWithActor, mw, "Bearer "+signToken(t, 3, "sam", false))
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"user_id":3`)
}

func TestAdminOnly(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuthMiddleware(testSecret), AdminOnly()}

	_, err := runRequest(okWithActor, mw, "Bearer "+signToken(t, 2, "user", false))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	rec, err := runRequest(okWithActor, mw, "Bearer "+signToken(t, 1, "admin", true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}
