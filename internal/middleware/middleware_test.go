package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/marketd/internal/access"
	"github.com/01moynul/marketd/internal/auth"
	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var userCols = []string{"id", "role", "email", "password_hash", "full_name", "created_at", "updated_at"}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.TokenManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	st := store.New(sqlx.NewDb(db, "mysql"))

	r := gin.New()
	r.Use(RequestLogger())
	protected := r.Group("/", AuthMiddleware(tokens, st))
	protected.GET("/whoami", func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID(), "role": actor.Role()})
	})
	protected.GET("/vendor-only", RequireRole(models.RoleVendor, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, tokens, mock
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userQuery := regexp.QuoteMeta("FROM users WHERE id = ?")

	t.Run("valid token resolves the actor", func(t *testing.T) {
		r, tokens, mock := newAuthRouter(t)
		mock.ExpectQuery(userQuery).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(9, "vendor", "v@example.com", "x", "Val", time.Now(), time.Now()))

		token, err := tokens.GenerateToken(9)
		require.NoError(t, err)

		w := get(r, "/whoami", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":9,"role":"vendor"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing header", func(t *testing.T) {
		r, _, _ := newAuthRouter(t)
		assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r, _, _ := newAuthRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		r, _, _ := newAuthRouter(t)
		assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "nope").Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		r, tokens, mock := newAuthRouter(t)
		mock.ExpectQuery(userQuery).WillReturnRows(sqlmock.NewRows(userCols))

		token, err := tokens.GenerateToken(9)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", token).Code)
	})

	t.Run("role gate", func(t *testing.T) {
		r, tokens, mock := newAuthRouter(t)
		mock.ExpectQuery(userQuery).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(7, "customer", "c@example.com", "x", "Cara", time.Now(), time.Now()))
		mock.ExpectQuery(userQuery).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(9, "vendor", "v@example.com", "x", "Val", time.Now(), time.Now()))

		customerToken, err := tokens.GenerateToken(7)
		require.NoError(t, err)
		vendorToken, err := tokens.GenerateToken(9)
		require.NoError(t, err)

		assert.Equal(t, http.StatusForbidden, get(r, "/vendor-only", customerToken).Code)
		assert.Equal(t, http.StatusNoContent, get(r, "/vendor-only", vendorToken).Code)
	})
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
}

func TestSetActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetActor(c, access.Rider{UserID: 11})

	actor, ok := ActorFrom(c)
	require.True(t, ok)
	assert.Equal(t, models.RoleRider, actor.Role())
	assert.Equal(t, int64(11), c.GetInt64(userIDKey))
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(r, "/ping", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rl.evictIdle(time.Now().Add(time.Hour))
	assert.Empty(t, rl.visitors)
	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)
}
