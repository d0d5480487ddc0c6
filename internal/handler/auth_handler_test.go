package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	authSvc := service.NewAuthService(repos, testutil.JWTSecret, 24*time.Hour, "tailoring-test")
	userSvc := service.NewUserService(repos)
	h := NewAuthHandler(authSvc, userSvc)

	router.POST("/api/v1/auth/login", h.Login)
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", h.Me)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestLogin(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedAdmin(t, env.DB)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": user.Username,
		"password": "password123",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["token"] == "" || data["token"] == nil {
		t.Error("Expected a token in the login response")
	}
	loggedIn := data["user"].(map[string]interface{})
	if loggedIn["username"] != user.Username {
		t.Errorf("Expected username %s, got %v", user.Username, loggedIn["username"])
	}
	if _, exposed := loggedIn["password_hash"]; exposed {
		t.Error("Password hash must not appear in the response")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedAdmin(t, env.DB)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": user.Username,
		"password": "not-the-password",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := setupAuthTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"username": "ghost",
		"password": "password123",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMe(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedAdmin(t, env.DB)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/auth/me", nil, testutil.AdminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["id"] != "test-admin-001" {
		t.Errorf("Expected test-admin-001, got %v", data["id"])
	}

	// No token, no identity.
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/auth/me", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}
