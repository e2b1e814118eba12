package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRedactPath(t *testing.T) {
	cases := map[string]string{
		"/api/finance/history":                 "/api/finance/history",
		"/ws?token=abc.def.ghi":                "/ws?token=REDACTED",
		"/ws?a=1&token=secret":                 "/ws?a=1&token=REDACTED",
		"/api/auth/reset-password/plain-token": "/api/auth/reset-password/REDACTED",
		"/api/auth/reset-password":             "/api/auth/reset-password",
		"/api/auth/reset-password/t?token=x":   "/api/auth/reset-password/REDACTED?token=REDACTED",
		"/api/finance/history?page=2":          "/api/finance/history?page=2",
		"/ws?token=%zz":                        "/ws?REDACTED",
	}
	for in, want := range cases {
		assert.Equal(t, want, redactPath(in), in)
	}
}

func TestRedactedLogger_MasksCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out bytes.Buffer
	r := gin.New()
	r.Use(RedactedLogger(&out))
	r.GET("/ws", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	r.POST("/api/auth/reset-password/:token", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws?token=SECRET-BEARER", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/SECRET-RESET", nil))

	logged := out.String()
	assert.NotContains(t, logged, "SECRET")
	assert.Contains(t, logged, `"/ws?token=REDACTED"`)
	assert.Contains(t, logged, `"/api/auth/reset-password/REDACTED"`)
}
