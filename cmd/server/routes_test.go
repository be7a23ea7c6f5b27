package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"fundguard.backend/internal/interfaces/http/handlers"
)

func testRouteDeps() routeDeps {
	return routeDeps{
		authHandler:         &handlers.AuthHandler{},
		ledgerHandler:       &handlers.LedgerHandler{},
		deliveryHandler:     &handlers.DeliveryHandler{},
		verificationHandler: &handlers.VerificationHandler{},
		authMiddleware: func(c *gin.Context) {
			c.Next()
		},
	}
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, testRouteDeps())

	routes := r.Routes()
	if len(routes) < 20 {
		t.Fatalf("expected full route surface registered, got %d", len(routes))
	}

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/login"},
		{"GET", "/api/v1/auth/me"},
		{"POST", "/api/v1/ledger/entries"},
		{"GET", "/api/v1/ledger/entries/:id"},
		{"GET", "/api/v1/ledger/entries/:id/requirements"},
		{"POST", "/api/v1/ledger/entries/:id/request-release"},
		{"GET", "/api/v1/ledger/balance"},
		{"POST", "/api/v1/deliveries/:id/evidence"},
		{"GET", "/api/v1/verification/me"},
		{"POST", "/api/v1/admin/ledger/entries/:id/approve"},
		{"POST", "/api/v1/admin/ledger/entries/:id/release"},
		{"POST", "/api/v1/admin/ledger/entries/:id/block"},
		{"POST", "/api/v1/admin/ledger/entries/:id/unblock"},
		{"GET", "/api/v1/admin/deliveries/queue"},
		{"POST", "/api/v1/admin/deliveries/:id/verify"},
		{"POST", "/api/v1/admin/deliveries/:id/reopen"},
		{"POST", "/api/v1/admin/deliveries/:id/mark-money-released"},
		{"POST", "/api/v1/admin/verification/:id/review"},
	}

	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from health route, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerMetricsRoute(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics route, got %d", w.Code)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	applyCORSMiddleware(r)
	registerHealthRoute(r)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("origin not echoed: %q", got)
	}
}
