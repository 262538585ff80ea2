package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret-key-for-testing-only-32b!", 15*time.Minute, 24*time.Hour)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router := newTestRouter()
	router.GET("/protected", JWTAuth(newTestJWTManager()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	router := newTestRouter()
	router.GET("/protected", JWTAuth(newTestJWTManager()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ValidTokenSetsContext(t *testing.T) {
	jwtMgr := newTestJWTManager()
	token, err := jwtMgr.GenerateToken("42", "Jamie", domain.RoleReviewer)
	assert.NoError(t, err)

	router := newTestRouter()
	router.GET("/protected", JWTAuth(jwtMgr), func(c *gin.Context) {
		assert.Equal(t, uint64(42), GetUserID(c))
		assert.Equal(t, domain.RoleReviewer, GetUserRole(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_WrongSecretRejected(t *testing.T) {
	other := jwt.NewManager("a-completely-different-secret-value!", 15*time.Minute, 24*time.Hour)
	token, err := other.GenerateToken("42", "Jamie", domain.RoleUser)
	assert.NoError(t, err)

	router := newTestRouter()
	router.GET("/protected", JWTAuth(newTestJWTManager()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTAuth_AnonymousPasses(t *testing.T) {
	router := newTestRouter()
	router.GET("/public", OptionalJWTAuth(newTestJWTManager()), func(c *gin.Context) {
		assert.Equal(t, uint64(0), GetUserID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWTAuth_ValidTokenSetsIdentity(t *testing.T) {
	jwtMgr := newTestJWTManager()
	token, err := jwtMgr.GenerateToken("7", "Jamie", domain.RoleUser)
	assert.NoError(t, err)

	router := newTestRouter()
	router.GET("/public", OptionalJWTAuth(jwtMgr), func(c *gin.Context) {
		assert.Equal(t, uint64(7), GetUserID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWTAuth_BadTokenStaysAnonymous(t *testing.T) {
	router := newTestRouter()
	router.GET("/public", OptionalJWTAuth(newTestJWTManager()), func(c *gin.Context) {
		assert.Equal(t, uint64(0), GetUserID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireReviewer_AllowsReviewerAndAdmin(t *testing.T) {
	jwtMgr := newTestJWTManager()
	router := newTestRouter()
	router.POST("/review", JWTAuth(jwtMgr), RequireReviewer(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for role, want := range map[string]int{
		domain.RoleUser:     http.StatusForbidden,
		domain.RoleReviewer: http.StatusOK,
		domain.RoleAdmin:    http.StatusOK,
	} {
		token, err := jwtMgr.GenerateToken("1", "tester", role)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/review", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, want, w.Code, "role %s", role)
	}
}

func TestRequireAdmin_RejectsReviewer(t *testing.T) {
	jwtMgr := newTestJWTManager()
	router := newTestRouter()
	router.POST("/publish", JWTAuth(jwtMgr), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := jwtMgr.GenerateToken("1", "tester", domain.RoleReviewer)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/publish", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
