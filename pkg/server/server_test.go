package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/telemetry/health"
	"lightning-jet/jet/pkg/telemetry/metrics"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	cfg := config.Default()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	collector.SetRecordCount("failed_htlc", 7)

	return Options{
		Metrics:       collector,
		MetricsConfig: cfg.Telemetry.Metrics,
		Health:        health.New(time.Second),
		HealthConfig:  cfg.Telemetry.Health,
		Version:       health.VersionInfo{Version: "v1.2.3"},
	}
}

func TestServer_Routes(t *testing.T) {
	opts := testOptions(t)
	srv := NewServer(&config.Default().Server, opts)
	handler := srv.Handler()

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/metrics", http.StatusOK, `jet_eventlog_records{table="failed_htlc"} 7`},
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/ready", http.StatusOK, `"status":"ready"`},
		{"/version", http.StatusOK, `"version":"v1.2.3"`},
		{"/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Error("response is missing X-Request-ID")
			}
		})
	}
}

func TestServer_ReadinessFailure(t *testing.T) {
	opts := testOptions(t)
	opts.Health.RegisterCheck("eventlog", func(ctx context.Context) error {
		return errors.New("store closed")
	})
	handler := NewServer(&config.Default().Server, opts).Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestServer_DisabledEndpoints(t *testing.T) {
	opts := testOptions(t)
	opts.MetricsConfig.Enabled = false
	opts.HealthConfig.Enabled = false
	handler := NewServer(&config.Default().Server, opts).Handler()

	for _, path := range []string{"/metrics", "/health", "/ready"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := NewServer(&config.Default().Server, testOptions(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not answer: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, body %q", resp.StatusCode, body)
	}
	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}
	if srv.Addr().String() != ln.Addr().String() {
		t.Errorf("Addr() = %v, want %v", srv.Addr(), ln.Addr())
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_StartInvalidAddress(t *testing.T) {
	cfg := config.Default().Server
	cfg.ListenAddress = "not-an-address"

	if err := NewServer(&cfg, Options{}).Start(context.Background()); err == nil {
		t.Error("expected listen error")
	}
}
