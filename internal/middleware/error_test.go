// File: internal/middleware/error_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newErrorTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()))
	return router
}

func TestErrorHandlerDoesNotDoubleWriteHandlerNotFound(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/missing-user", func(c *gin.Context) {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("User not found"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing-user", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The body must be a single JSON document carrying the handler's details,
	// not the handler response with the unknown-endpoint fallback appended.
	var apiErr common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "User not found", apiErr.Details)
}

func TestErrorHandlerUnknownEndpointFallback(t *testing.T) {
	router := newErrorTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var apiErr common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "The requested endpoint does not exist.", apiErr.Details)
}

func TestErrorHandlerMapsContextErrors(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(common.ErrConflict.WithDetails("Already exists."))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "CONFLICT", apiErr.Code)
}
