package observability

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	h := Hooks{Sync: NoopSyncHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}

	h.Sync.OnFetchComplete(ctx, "vendors", 100, time.Second, nil)
	h.Sync.OnExpandComplete(ctx, "42", time.Second)

	h.Cache.OnCacheHit(ctx, "VENDOR")
	h.Cache.OnCacheMiss(ctx, "SOFTWARE")
	h.Cache.OnCacheSet(ctx, "SOFTWARE", 1024)

	h.HTTP.OnRequest(ctx, "GET", "/api/v2/vendors")
	h.HTTP.OnResponse(ctx, "GET", "/api/v2/vendors", 200, time.Second)
	h.HTTP.OnError(ctx, "GET", "/api/v2/vendors", nil)
}

func TestCombine(t *testing.T) {
	ctx := context.Background()
	a, b := &testHTTPHooks{}, &testHTTPHooks{}
	h := Combine(Hooks{HTTP: a}, Hooks{HTTP: b}, Hooks{})

	h.HTTP.OnRequest(ctx, "GET", "/x")
	h.HTTP.OnResponse(ctx, "GET", "/x", 200, time.Millisecond)
	h.Cache.OnCacheHit(ctx, "VENDOR") // no cache hooks registered

	for i, th := range []*testHTTPHooks{a, b} {
		if th.requests != 1 || th.responses != 1 {
			t.Errorf("hooks[%d] requests=%d responses=%d, want 1/1", i, th.requests, th.responses)
		}
	}
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	h := m.Hooks()

	h.HTTP.OnResponse(ctx, "GET", "/api/v2/vendors", 200, 10*time.Millisecond)
	h.HTTP.OnResponse(ctx, "GET", "/api/v2/vendors", 429, time.Millisecond)
	h.HTTP.OnResponse(ctx, "GET", "/api/v2/vendors", 200, time.Millisecond)
	h.HTTP.OnError(ctx, "GET", "/api/v2/vendors", errors.New("timeout"))
	h.Cache.OnCacheMiss(ctx, "VENDOR")
	h.Sync.OnFetchComplete(ctx, "vendors", 150, time.Second, nil)
	h.Sync.OnFetchComplete(ctx, "installations", 7, time.Second, errors.New("page 2 failed"))

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("requests{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "429")); got != 1 {
		t.Errorf("requests{429} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TransportErrors); got != 1 {
		t.Errorf("transport errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheEvents.WithLabelValues("VENDOR", "miss")); got != 1 {
		t.Errorf("cache miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FetchedRecords.WithLabelValues("vendors")); got != 150 {
		t.Errorf("fetched vendors = %v, want 150", got)
	}
	if got := testutil.ToFloat64(m.TruncatedFetch.WithLabelValues("installations")); got != 1 {
		t.Errorf("truncated installations = %v, want 1", got)
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Hooks().HTTP.OnResponse(context.Background(), "GET", "/x", 200, time.Millisecond)

	path := filepath.Join(t.TempDir(), "swcatalog.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "swcatalog_http_requests_total") {
		t.Errorf("textfile missing request counter:\n%s", data)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.HTTP.OnResponse(ctx, "GET", "/x", 200, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("200 response should log at debug, got %q", buf.String())
	}

	h.HTTP.OnResponse(ctx, "GET", "/x", 429, time.Millisecond)
	if !strings.Contains(buf.String(), "rate limited") {
		t.Errorf("429 should log a warning, got %q", buf.String())
	}

	buf.Reset()
	h.Sync.OnFetchComplete(ctx, "licenses", 3, time.Second, errors.New("truncated"))
	if buf.Len() != 0 {
		t.Errorf("failed fetch should log at debug only, got %q", buf.String())
	}

	logger.SetLevel(log.DebugLevel)
	h.Sync.OnFetchComplete(ctx, "licenses", 3, time.Second, errors.New("truncated"))
	if !strings.Contains(buf.String(), "fetch incomplete") {
		t.Errorf("failed fetch missing at debug level, got %q", buf.String())
	}
}

type testHTTPHooks struct {
	requests  int
	responses int
}

func (h *testHTTPHooks) OnRequest(context.Context, string, string) { h.requests++ }
func (h *testHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {
	h.responses++
}
func (h *testHTTPHooks) OnError(context.Context, string, string, error) {}
