package handler

import (
	"net/http"
	"testing"

	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func setupCustomerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	h := NewCustomerHandler(service.NewCustomerService(repository.NewRepositories(db)))

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/customers", h.List)
	api.POST("/customers", h.Create)
	api.GET("/customers/:id", h.Get)
	api.PUT("/customers/:id", h.Update)
	api.DELETE("/customers/:id", h.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestCustomerCRUD(t *testing.T) {
	env := setupCustomerTest(t)
	token := testutil.AdminToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/customers", map[string]interface{}{
		"name":           "Juan Dela Cruz",
		"contact_number": "0917 555 0101",
		"address":        "Dipolog City",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	created := resp["data"].(map[string]interface{})
	id := created["id"].(string)

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/customers/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, "PUT", "/api/v1/customers/"+id, map[string]interface{}{
		"address": "Dapitan City",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	updated := resp["data"].(map[string]interface{})
	if updated["address"] != "Dapitan City" {
		t.Errorf("Expected updated address, got %v", updated["address"])
	}
	if updated["name"] != "Juan Dela Cruz" {
		t.Errorf("Partial update must keep the name, got %v", updated["name"])
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/customers?search=juan", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	list := resp["data"].(map[string]interface{})
	items := list["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected one match for juan, got %d", len(items))
	}

	w = testutil.DoRequest(env.Router, "DELETE", "/api/v1/customers/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/customers/"+id, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestCustomerValidation(t *testing.T) {
	env := setupCustomerTest(t)
	token := testutil.AdminToken()

	// contact_number is required.
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/customers", map[string]interface{}{
		"name": "No Number",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCustomerRequiresAuth(t *testing.T) {
	env := setupCustomerTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/customers", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}
