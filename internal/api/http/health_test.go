package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewHealthHandler("devlog-backend", "1.0.0", nil)
	handler.RegisterRoutes(router)

	req, err := nethttp.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if status := rr.Code; status != nethttp.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, nethttp.StatusOK)
	}

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Errorf("failed to unmarshal response: %v", err)
	}

	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}

	if response.Service != "devlog-backend" {
		t.Errorf("expected service 'devlog-backend', got %s", response.Service)
	}

	if response.Cache != "disabled" {
		t.Errorf("expected cache 'disabled', got %s", response.Cache)
	}
}

func TestHealthCheckReportsCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	router := gin.New()
	NewHealthHandler("devlog-backend", "1.0.0", client).RegisterRoutes(router)

	req, _ := nethttp.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response.Cache != "up" {
		t.Errorf("expected cache 'up', got %s", response.Cache)
	}

	mr.Close()
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Cache != "down" {
		t.Errorf("expected cache 'down', got %s", response.Cache)
	}
}
