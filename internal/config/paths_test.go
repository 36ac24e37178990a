package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := CacheDir()
			if err != nil {
				t.Fatalf("CacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("CacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCachePathsFollowCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/srv/cache")
	v := New()
	if got := v.GetString(EnvSoftwareCache); got != filepath.Join("/srv/cache", appName, "software.json") {
		t.Errorf("%s default = %q", EnvSoftwareCache, got)
	}
}
