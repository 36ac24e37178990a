// Package cache persists catalog snapshots on local disk.
//
// A snapshot is one JSON document per [Kind]. The set of kinds is closed:
// asking a store for a kind it does not know is a programming error and
// panics. Reads report a missing or unreadable snapshot as an error so the
// caller can fall back to a remote fetch; see registry.Store for the
// never-failing wrapper the pipeline uses.
//
// Two implementations are provided:
//   - [FileStore]: one file per kind, written atomically
//   - [NullStore]: stores nothing, for --no-cache runs and tests
package cache

import (
	"context"
	"fmt"
)

// Kind identifies one snapshot document.
type Kind int

const (
	KindVendor Kind = iota
	KindSoftware
)

// Kinds lists every snapshot kind.
var Kinds = []Kind{KindVendor, KindSoftware}

func (k Kind) String() string {
	switch k {
	case KindVendor:
		return "vendor"
	case KindSoftware:
		return "software"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Paths binds each kind to a file.
type Paths struct {
	Vendor   string
	Software string
}

// For returns the file bound to kind. It panics for unknown kinds.
func (p Paths) For(kind Kind) string {
	mustKnow(kind)
	if kind == KindVendor {
		return p.Vendor
	}
	return p.Software
}

func mustKnow(kind Kind) {
	if kind != KindVendor && kind != KindSoftware {
		panic(fmt.Sprintf("cache: unknown kind %d", int(kind)))
	}
}

// Store reads and writes snapshot documents.
type Store interface {
	// Read decodes the snapshot for kind into v.
	// It returns ErrCacheMiss when no snapshot exists.
	Read(ctx context.Context, kind Kind, v any) error

	// Write replaces the snapshot for kind with v.
	Write(ctx context.Context, kind Kind, v any) error

	// Clear removes every snapshot.
	Clear(ctx context.Context) error
}
