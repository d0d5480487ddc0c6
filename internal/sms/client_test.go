package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsFormToGateway(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = map[string]string{
			"apikey":     r.PostFormValue("apikey"),
			"number":     r.PostFormValue("number"),
			"message":    r.PostFormValue("message"),
			"sendername": r.PostFormValue("sendername"),
		}
		w.Write([]byte(`[{"message_id":123,"status":"Pending"}]`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "TESTSHOP")
	client.SetBaseURL(srv.URL)

	body, err := client.Send(context.Background(), "639171234567", "Your order is ready")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if body != `[{"message_id":123,"status":"Pending"}]` {
		t.Errorf("Unexpected response body: %s", body)
	}
	if gotPath != "/messages" {
		t.Errorf("Expected /messages path, got %s", gotPath)
	}
	if gotForm["apikey"] != "test-key" || gotForm["number"] != "639171234567" ||
		gotForm["message"] != "Your order is ready" || gotForm["sendername"] != "TESTSHOP" {
		t.Errorf("Unexpected form values: %v", gotForm)
	}
}

func TestSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"insufficient credits"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "")
	client.SetBaseURL(srv.URL)

	_, err := client.Send(context.Background(), "639171234567", "hello")
	if err == nil {
		t.Fatal("Expected an error for a non-2xx response")
	}
}

func TestSendWithoutAPIKey(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Send(context.Background(), "639171234567", "hello")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09171234567", "639171234567"},
		{"0917 123 4567", "639171234567"},
		{"0917-123-4567", "639171234567"},
		{"639171234567", "639171234567"},
		{"+639171234567", "+639171234567"},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
