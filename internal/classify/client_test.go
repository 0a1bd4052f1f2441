package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestClassify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.EmailBody != "click here to verify your account" {
			t.Errorf("email_body = %q", req.EmailBody)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{
			"phishing":     0.92,
			"not_phishing": 0.08,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, zap.NewNop())
	result, err := c.Classify(context.Background(), "click here to verify your account")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Phishing != 0.92 || result.NotPhishing != 0.08 {
		t.Errorf("result = %+v", result)
	}
}

func TestClassify_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, zap.NewNop())
	result, err := c.Classify(context.Background(), "body")
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T: %v", err, err)
	}
	if failure.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", failure.StatusCode)
	}
}

func TestClassify_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	c := NewClient(server.URL, zap.NewNop())
	result, err := c.Classify(context.Background(), "body")
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T: %v", err, err)
	}
}

func TestClassify_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	c := NewClient(server.URL, zap.NewNop())
	result, err := c.Classify(context.Background(), "body")
	if err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
}

func TestNewClient_DefaultURL(t *testing.T) {
	c := NewClient("", zap.NewNop())
	if c.url != DefaultURL {
		t.Errorf("url = %q, want %q", c.url, DefaultURL)
	}
}
