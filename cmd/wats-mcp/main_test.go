package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsConfigError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")
	err := run(missing)
	if err == nil || !strings.Contains(err.Error(), "config.yaml") {
		t.Fatalf("run(%q) = %v, want config error", missing, err)
	}
}
