package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestRestyClientPostSendsRawBody(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Post(context.Background(), srv.URL, map[string]string{
		"Content-Type": "application/json",
	}, []byte(`{"model":"m"}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated || string(resp.Body()) != `{"id":1}` {
		t.Fatalf("unexpected response: %d %s", resp.StatusCode(), resp.Body())
	}
	if gotBody != `{"model":"m"}` || gotType != "application/json" {
		t.Fatalf("server saw body=%q type=%q", gotBody, gotType)
	}
}

func TestRestyClientDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Post(context.Background(), srv.URL, nil, []byte(`{}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}
