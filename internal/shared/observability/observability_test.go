package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestInitTracing_NoEndpoint(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracing(ctx, TracingConfig{ServiceName: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestStartAnalysisSpan(t *testing.T) {
	ctx, span := StartAnalysisSpan(context.Background(), "src/App.tsx", 2)
	if ctx == nil || span == nil {
		t.Fatal("expected context and span")
	}
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()
}

func TestServer_ServesMetricsAndHealth(t *testing.T) {
	FilesReadTotal.Inc()

	srv := NewServer("127.0.0.1:0")
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "comptree_files_read_total") {
		t.Fatalf("expected comptree metrics in output")
	}

	resp, err = http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"up"`) {
		t.Fatalf("unexpected health body: %s", body)
	}
}

func TestServer_CustomHealthCheck(t *testing.T) {
	srv := NewServer("127.0.0.1:0")
	srv.SetHealthCheck(func(ctx context.Context) any {
		return map[string]string{"status": "degraded", "history": "unavailable"}
	})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"degraded"`) || !strings.Contains(string(body), `"history"`) {
		t.Fatalf("unexpected health body: %s", body)
	}
}
