// File: internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRoleTestRouter(role string, allowedRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin-only",
		func(c *gin.Context) {
			if role != "" {
				c.Set(common.UserRoleKey, role)
			}
		},
		RoleAuthMiddleware(allowedRoles...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return router
}

func TestRoleAuthMiddleware(t *testing.T) {
	t.Run("allows a matching role through", func(t *testing.T) {
		router := newRoleTestRouter(common.RoleAdmin, common.RoleAdmin)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects an insufficient role", func(t *testing.T) {
		router := newRoleTestRouter(common.RoleUser, common.RoleAdmin)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects requests without a role in context", func(t *testing.T) {
		router := newRoleTestRouter("", common.RoleAdmin)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
