package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/goals", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/goals?type=title", http.StatusOK, zapcore.InfoLevel},
		{"/missing", http.StatusNotFound, zapcore.WarnLevel},
		{"/broken", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			entry := entries[0]

			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "http request", entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, "GET", fields["method"])
			assert.EqualValues(t, tt.status, fields["status"])
		})
	}
}
