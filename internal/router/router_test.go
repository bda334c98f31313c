package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tallow-shop/storefront/internal/config"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

func TestSetupRouterHealthAndNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	r := SetupRouter(cfg, &provider.Container{Config: cfg})

	cases := []struct {
		path string
		code int
	}{
		{"/healthz", response.CodeOK},
		{"/api/v1/unknown", response.CodeNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		var resp struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", tc.path, err)
		}
		if resp.StatusCode != tc.code {
			t.Fatalf("%s: status_code want %d got %d", tc.path, tc.code, resp.StatusCode)
		}
	}
}
