package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type snapshot map[string]struct {
	Name     string   `json:"name"`
	Software []string `json:"software"`
}

type countingHooks struct {
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func tempPaths(t *testing.T) Paths {
	dir := t.TempDir()
	return Paths{
		Vendor:   filepath.Join(dir, "nested", "vendors.json"),
		Software: filepath.Join(dir, "software.json"),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	hooks := &countingHooks{}
	s := NewFileStore(tempPaths(t), hooks)

	in := snapshot{
		"11000001":     {Name: "Adobe", Software: []string{"42", "43"}},
		"UNREGISTERED": {Name: "UNREGISTERED", Software: []string{}},
	}
	if err := s.Write(ctx, KindVendor, in); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var out snapshot
	if err := s.Read(ctx, KindVendor, &out); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 2 || out["11000001"].Name != "Adobe" || len(out["11000001"].Software) != 2 {
		t.Errorf("Read = %+v", out)
	}
	if hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = %+v, want 1 set and 1 hit", hooks)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(s.Paths().Vendor))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestFileStoreMiss(t *testing.T) {
	hooks := &countingHooks{}
	s := NewFileStore(tempPaths(t), hooks)

	var out snapshot
	err := s.Read(context.Background(), KindSoftware, &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read error = %v, want ErrCacheMiss", err)
	}
	if hooks.misses != 1 {
		t.Errorf("misses = %d, want 1", hooks.misses)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	paths := tempPaths(t)
	if err := os.WriteFile(paths.Software, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(paths, nil)

	var out snapshot
	err := s.Read(context.Background(), KindSoftware, &out)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Read error = %v, want ErrCorrupt", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(tempPaths(t), nil)

	_ = s.Write(ctx, KindSoftware, map[string]string{"a": "1", "b": "2"})
	_ = s.Write(ctx, KindSoftware, map[string]string{"c": "3"})

	var out map[string]string
	if err := s.Read(ctx, KindSoftware, &out); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(out) != 1 || out["c"] != "3" {
		t.Errorf("Read = %v, want only the second snapshot", out)
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(tempPaths(t), nil)

	_ = s.Write(ctx, KindVendor, map[string]string{})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	// Clearing an already empty store is fine.
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear error: %v", err)
	}
	var out map[string]string
	if err := s.Read(ctx, KindVendor, &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read after Clear = %v, want ErrCacheMiss", err)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()

	if err := s.Write(ctx, KindVendor, map[string]string{"a": "b"}); err != nil {
		t.Errorf("Write error: %v", err)
	}
	var out map[string]string
	if err := s.Read(ctx, KindVendor, &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read error = %v, want ErrCacheMiss", err)
	}
	if out != nil {
		t.Error("NullStore should not decode anything")
	}
}

func TestUnknownKindPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Paths.For", func() { Paths{}.For(Kind(7)) }},
		{"FileStore.Read", func() { NewFileStore(Paths{}, nil).Read(context.Background(), Kind(7), nil) }},
		{"NullStore.Write", func() { NullStore{}.Write(context.Background(), Kind(-1), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic for unknown kind")
				}
			}()
			tt.fn()
		})
	}
}

func TestKindString(t *testing.T) {
	if KindVendor.String() != "vendor" || KindSoftware.String() != "software" {
		t.Errorf("String() = %q, %q", KindVendor, KindSoftware)
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", Kind(9))
	}
}
