package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/coinlog" {
		t.Errorf("Expected /custom/data/coinlog, got %s", got)
	}
}

func TestDefaultDataDirNoHome(t *testing.T) {
	t.Setenv("HOME", "")
	if got := DefaultDataDir(); got != "./data" {
		t.Errorf("Expected fallback to './data', got %s", got)
	}
}

func TestDefaultDataDirShape(t *testing.T) {
	result := DefaultDataDir()
	if !filepath.IsAbs(result) && !strings.HasPrefix(result, "./") {
		t.Errorf("DefaultDataDir should return absolute path or start with ./, got %s", result)
	}
	if result != DefaultDataDir() {
		t.Errorf("DefaultDataDir should be consistent")
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Errorf("expected . to be a directory")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Errorf("expected missing path to not be a directory")
	}
}
