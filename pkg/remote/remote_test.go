package remote

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestGetJSON_Success(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer server.Close()

	c := NewClient("test", server.URL+"/v1/", time.Second)
	var out struct {
		Name string `json:"name"`
	}
	if err := c.GetJSON(context.Background(), "/items", url.Values{"q": {"雞肉"}}, &out); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if out.Name != "ok" {
		t.Errorf("Expected decoded name, got %q", out.Name)
	}
	if gotPath != "/v1/items" {
		t.Errorf("Expected path /v1/items, got %q", gotPath)
	}
	if gotQuery != "雞肉" {
		t.Errorf("Expected query to round-trip, got %q", gotQuery)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(strings.Repeat("x", 5000)))
	}))
	defer server.Close()

	c := NewClient("spoonacular", server.URL, time.Second)
	var out map[string]any
	err := c.GetJSON(context.Background(), "/x", nil, &out)

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
	if tErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d", tErr.StatusCode)
	}
	if len(tErr.Body) != maxErrorBody {
		t.Errorf("Expected body capped at %d bytes, got %d", maxErrorBody, len(tErr.Body))
	}
	if tErr.Service != "spoonacular" {
		t.Errorf("Expected service name, got %q", tErr.Service)
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient("test", server.URL, time.Second)
	var out map[string]any
	err := c.GetJSON(context.Background(), "/", nil, &out)

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("Expected *TransportError, got %T", err)
	}
	if tErr.Err == nil {
		t.Error("Expected decode cause")
	}
}

func TestGetJSON_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient("test", addr, time.Second)
	var out map[string]any
	err := c.GetJSON(context.Background(), "/", nil, &out)

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("Expected *TransportError, got %T", err)
	}
	if tErr.StatusCode != 0 {
		t.Errorf("Expected no status, got %d", tErr.StatusCode)
	}
}

func TestGetJSON_NetworkErrorHidesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	const secret = "SECRETKEY1234567"
	c := NewClient("spoonacular", addr, time.Second)
	var out map[string]any
	err := c.GetJSON(context.Background(), "/complexSearch", url.Values{"apiKey": {secret}, "query": {"chicken"}}, &out)
	if err == nil {
		t.Fatal("Expected error")
	}
	if strings.Contains(err.Error(), secret) {
		t.Errorf("Error leaks the key: %v", err)
	}
	if !strings.Contains(err.Error(), "/complexSearch") {
		t.Errorf("Expected path in error, got %v", err)
	}
	if strings.Contains(logs.String(), secret) {
		t.Errorf("Log leaks the key: %s", logs.String())
	}

	var uErr *url.Error
	if !errors.As(err, &uErr) {
		t.Fatalf("Expected *url.Error in chain, got %T", err)
	}
}

func TestGetJSON_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "   ", "not-a-url"} {
		c := NewClient("test", base, time.Second)
		var out map[string]any
		err := c.GetJSON(context.Background(), "/", nil, &out)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("base %q: expected *ValidationError, got %v", base, err)
		}
	}
}

func TestErrorStrings(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ValidationError{Field: "query", Reason: "is empty"}, "invalid query: is empty"},
		{&TransportError{Service: "cat", StatusCode: 500, Body: "boom"}, "cat request failed (500): boom"},
		{&TransportError{Service: "cat", StatusCode: 404}, "cat request failed (404)"},
		{&TransportError{Service: "cat", Err: errors.New("refused")}, "cat request failed: refused"},
		{&EmptyResultError{Service: "cat"}, "cat returned no result"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}
