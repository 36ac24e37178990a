package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a charmbracelet logger at debug level,
// except rate limits which are warnings. Fetch failures stay at debug: the
// code that saw the failure warns with its own context.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns a Hooks set backed by logger. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) Hooks {
	if logger == nil {
		logger = log.Default()
	}
	h := &LogHooks{Logger: logger}
	return Hooks{Sync: h, Cache: h, HTTP: h}
}

func (h *LogHooks) OnFetchComplete(_ context.Context, collection string, records int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("fetch incomplete", "collection", collection, "records", records, "err", err)
		return
	}
	h.Logger.Debug("fetched", "collection", collection, "records", records, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnExpandComplete(_ context.Context, softwareID string, d time.Duration) {
	h.Logger.Debug("expanded", "software", softwareID, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, kind string) {
	h.Logger.Debug("cache hit", "kind", kind)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, kind string) {
	h.Logger.Debug("cache miss", "kind", kind)
}

func (h *LogHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.Logger.Debug("cache write", "kind", kind, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status == 429 {
		h.Logger.Warn("rate limited", "method", method, "path", path)
		return
	}
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Debug("request failed", "method", method, "path", path, "err", err)
}
