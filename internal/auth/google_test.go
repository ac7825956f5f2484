package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestStartRedirectsToGoogleWithState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("client-id", "client-secret", "http://localhost:8080/api/v1/auth/google/callback", "http://localhost:3000/login")
	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	location := resp.Header().Get("Location")
	if !strings.Contains(location, "accounts.google.com") || !strings.Contains(location, "state=") {
		t.Fatalf("unexpected redirect target %q", location)
	}
}

func TestStartFailsWhenNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("", "", "", "http://localhost:3000/login")
	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestStateStoreConsumeIsOneShot(t *testing.T) {
	store := newStateStore()
	store.put("abc", time.Now().Add(time.Minute))

	if !store.consume("abc") {
		t.Fatal("expected first consume to succeed")
	}
	if store.consume("abc") {
		t.Fatal("expected second consume to fail")
	}

	store.put("expired", time.Now().Add(-time.Minute))
	if store.consume("expired") {
		t.Fatal("expected expired state to be rejected")
	}
}

func TestAppendTokenPreservesQuery(t *testing.T) {
	out, err := appendToken("http://localhost:3000/login?next=%2Fprofile", "jwt-token")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	if !strings.Contains(out, "token=jwt-token") || !strings.Contains(out, "next=%2Fprofile") {
		t.Fatalf("unexpected url %q", out)
	}
}
