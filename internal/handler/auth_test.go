package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/zaytoon-pos/api/internal/auth"
	"github.com/zaytoon-pos/api/internal/handler"
	"github.com/zaytoon-pos/api/internal/middleware"
)

func setupAuthRouter(t *testing.T) *chi.Mux {
	t.Helper()
	h, err := handler.NewAuthHandler("admin", "correct-horse", testJWTSecret)
	if err != nil {
		t.Fatalf("NewAuthHandler: %v", err)
	}
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postLogin(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLoginSuccess(t *testing.T) {
	router := setupAuthRouter(t)

	rr := postLogin(t, router, "admin", "correct-horse")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatal("no token in response")
	}
	claims, err := auth.ValidateToken(testJWTSecret, token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("token username: got %q, want admin", claims.Username)
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if cookie.Value != token {
		t.Error("cookie token differs from body token")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	router := setupAuthRouter(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"wrong username", "root", "correct-horse"},
		{"both wrong", "root", "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postLogin(t, router, tt.username, tt.password)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rr.Code)
			}
		})
	}
}

func TestLoginMissingFields(t *testing.T) {
	router := setupAuthRouter(t)

	rr := postLogin(t, router, "", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	router := setupAuthRouter(t)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not cleared")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Errorf("cookie not expired: MaxAge=%d Value=%q", cookie.MaxAge, cookie.Value)
	}
}
