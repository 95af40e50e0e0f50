package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger())

	var gotID, gotIP any
	r.GET("/ping", func(c *gin.Context) {
		gotID, _ = c.Get("request_id")
		gotIP, _ = c.Get("request_ip")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if id, ok := gotID.(string); !ok || id == "" {
		t.Error("Expected a non-empty request_id in the context")
	}
	if _, ok := gotIP.(string); !ok {
		t.Error("Expected request_ip to be set in the context")
	}
}
