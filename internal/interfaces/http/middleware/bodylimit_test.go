package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })
		return router
	}

	t.Run("small payloads pass through", func(t *testing.T) {
		router := newRouter(1024)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"customer_name":"Maria"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("declared oversize gets an immediate 413", func(t *testing.T) {
		router := newRouter(64)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("undeclared stream is capped at read time", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(32))
		router.POST("/orders", func(c *gin.Context) {
			buf := make([]byte, 128)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
