package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"lightning-jet/jet/pkg/config"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestNew(t *testing.T) {
	if got := New(0).checkTimeout; got != 5*time.Second {
		t.Errorf("default timeout = %v, want 5s", got)
	}
	if got := New(time.Second).checkTimeout; got != time.Second {
		t.Errorf("custom timeout = %v, want 1s", got)
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("eventlog", StoreCheck(fakePinger{}))
	checker.RegisterCheck("archive", JobCheck("archive", func() error { return nil }))

	if got := checker.ListChecks(); !reflect.DeepEqual(got, []string{"archive", "eventlog"}) {
		t.Errorf("ListChecks() = %v", got)
	}

	checker.UnregisterCheck("archive")
	if got := checker.ListChecks(); !reflect.DeepEqual(got, []string{"eventlog"}) {
		t.Errorf("ListChecks() after unregister = %v", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "store healthy",
			checks: map[string]CheckFunc{
				"eventlog": StoreCheck(fakePinger{}),
			},
			wantStatus: StatusReady,
		},
		{
			name: "store closed",
			checks: map[string]CheckFunc{
				"eventlog": StoreCheck(fakePinger{err: errors.New("store closed")}),
			},
			wantStatus: StatusDegraded,
		},
		{
			name: "archive failed",
			checks: map[string]CheckFunc{
				"eventlog": StoreCheck(fakePinger{}),
				"archive":  JobCheck("archive", func() error { return errors.New("disk full") }),
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow check result = %+v", result)
	}
}

func TestStoreCheck_WrapsError(t *testing.T) {
	cause := errors.New("store closed")
	err := StoreCheck(fakePinger{err: cause})(context.Background())
	if !errors.Is(err, cause) {
		t.Errorf("StoreCheck() error = %v, want wrapping %v", err, cause)
	}
}

func TestRegister_Endpoints(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("eventlog", StoreCheck(fakePinger{err: errors.New("store closed")}))

	cfg := config.HealthConfig{
		Enabled:       true,
		LivenessPath:  "/health",
		ReadinessPath: "/ready",
		VersionPath:   "/version",
	}
	mux := http.NewServeMux()
	checker.Register(mux, cfg, VersionInfo{Version: "1.0.0", Commit: "abc123"})

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodHead, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != "1.0.0" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("version info = %+v", info)
	}
}

func TestRegister_Disabled(t *testing.T) {
	mux := http.NewServeMux()
	New(time.Second).Register(mux, config.HealthConfig{Enabled: false, LivenessPath: "/health"}, VersionInfo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}
