package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"skyfare/internal/config"
	httptransport "skyfare/internal/http"
)

func TestNewHTTPServer_Mode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", gin.ReleaseMode},
		{"development", gin.DebugMode},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			gin.SetMode(gin.DebugMode)
			t.Cleanup(func() { gin.SetMode(gin.TestMode) })

			var cfg config.Config
			cfg.Env = tt.env
			cfg.HTTP.Addr = ":0"
			srv := newHTTPServer(cfg, httptransport.RouterDeps{})
			assert.Equal(t, tt.want, gin.Mode())
			assert.Equal(t, ":0", srv.Addr)

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
