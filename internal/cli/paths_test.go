package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	// Empty XDG_CACHE_HOME falls back to ~/.cache.
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	want := filepath.Join(customCache, appName)
	if dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("TYPEGRID_TEST_VAR", "set")

	if got := getenv("TYPEGRID_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("getenv(set var) = %q, want %q", got, "set")
	}
	if got := getenv("TYPEGRID_TEST_VAR_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getenv(unset var) = %q, want %q", got, "fallback")
	}
}

func TestCacheDirSuffix(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}
