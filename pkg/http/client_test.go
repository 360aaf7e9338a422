package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type payload struct {
	Name string `json:"name"`
}

func TestClient_SendsAndDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("missing default header")
		}
		if r.URL.Path != "/items" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"echo"}`))
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL+"/", ClientOptions{DefaultHeaders: map[string]string{"X-Test": "1"}})

	var out payload
	_, _, status, err := client.Request().
		Method(http.MethodPost).
		Path("items").
		Body(payload{Name: "in"}).
		Into(&out).
		Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if status != http.StatusOK || out.Name != "echo" {
		t.Fatalf("status=%d out=%+v", status, out)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"name":"bad"}`))
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})

	var errOut payload
	_, errResp, status, err := client.Request().
		Method(http.MethodPost).
		Path("x").
		Body(payload{}).
		OnError(&errOut).
		Do(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if status != http.StatusBadRequest || errResp == nil || errOut.Name != "bad" {
		t.Fatalf("status=%d errOut=%+v", status, errOut)
	}
}

func TestClient_RetriesWithBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})
	backoff := &BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, Multiplier: 2}

	_, _, status, err := client.Request().
		Method(http.MethodDelete).
		Path("x").
		Backoff(backoff).
		Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if status != http.StatusNoContent || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("status=%d calls=%d", status, calls)
	}
}

func TestClient_IgnoresNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})
	var errOut payload
	_, errResp, status, err := client.Request().Path("x").OnError(&errOut).Do(context.Background())
	if err == nil || status != http.StatusBadGateway {
		t.Fatalf("status=%d err=%v", status, err)
	}
	if errResp != nil {
		t.Fatalf("errResp = %+v, want nil for an HTML body", errResp)
	}
}

func TestClient_RejectsNonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})
	var out payload
	_, _, _, err := client.Request().Path("x").Into(&out).Do(context.Background())
	if !errors.Is(err, ErrUnexpectedContentType) {
		t.Fatalf("err = %v, want ErrUnexpectedContentType", err)
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"", true},
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/html", false},
		{"text/xml; charset=ISO-8859-1", false},
		{";;", false},
	}
	for _, tt := range tests {
		if got := isJSON(tt.contentType); got != tt.want {
			t.Errorf("isJSON(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestBackoffConfig_Interval(t *testing.T) {
	b := &BackoffConfig{InitialInterval: 10 * time.Millisecond, MaxInterval: 30 * time.Millisecond, Multiplier: 2}
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 30 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := b.interval(tt.retry); got != tt.want {
			t.Errorf("interval(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

type recordingLogger struct {
	NopLogger
	retries   int
	responses []Exchange
}

func (l *recordingLogger) LogRetry(Exchange) { l.retries++ }

func (l *recordingLogger) LogResponse(exchange Exchange) {
	l.responses = append(l.responses, exchange)
}

func TestRequest_PathEscapesSegments(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})
	_, _, _, err := client.Request().
		Method(http.MethodDelete).
		Path("api", "todos", "a b/c").
		Bearer("tok").
		Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotPath != "/api/todos/a%20b%2Fc" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestClient_LogsFinalOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger := &recordingLogger{}
	client := NewHttpClient(srv.URL, ClientOptions{Logger: logger})
	backoff := &BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, Multiplier: 1}

	_, _, status, err := client.Request().Path("x").Backoff(backoff).Do(context.Background())
	if err == nil || status != http.StatusServiceUnavailable {
		t.Fatalf("status=%d err=%v", status, err)
	}
	if logger.retries != 2 {
		t.Fatalf("retries = %d", logger.retries)
	}
	if len(logger.responses) != 1 || logger.responses[0].Err == nil || logger.responses[0].Status != http.StatusServiceUnavailable {
		t.Fatalf("responses = %+v", logger.responses)
	}
}

func TestRequest_EncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "a b&c" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHttpClient(srv.URL, ClientOptions{})
	if _, _, _, err := client.Request().Path("feed").Query("q", "a b&c").Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
}
