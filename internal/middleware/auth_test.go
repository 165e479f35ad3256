package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/threadboard/pkg/session"
)

func setupRouter(t *testing.T) (*gin.Engine, string, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager("test-secret", time.Hour, nil)
	userID := uuid.New()
	token, _, err := sessions.Issue(userID)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(sessions).RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r, token, userID
}

func TestRequireAuthTokenSources(t *testing.T) {
	router, token, userID := setupRouter(t)

	requests := map[string]*http.Request{}

	bearer := httptest.NewRequest(http.MethodGet, "/me", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	requests["bearer"] = bearer

	cookie := httptest.NewRequest(http.MethodGet, "/me", nil)
	cookie.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	requests["cookie"] = cookie

	requests["query"] = httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, userID.String(), rec.Body.String())
		})
	}
}

func TestRequireAuthRejects(t *testing.T) {
	router, _, _ := setupRouter(t)

	missing := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, missing)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := session.NewManager("another-secret", time.Hour, nil)
	forged, _, err := other.Issue(uuid.New())
	require.NoError(t, err)

	bad := httptest.NewRequest(http.MethodGet, "/me", nil)
	bad.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
