package display

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeDisplayplacer writes an executable script standing in for the real
// binary so Client's exec plumbing can be exercised.
func fakeDisplayplacer(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "displayplacer")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	return path
}

func TestNewClient_ConfiguredPathMissing(t *testing.T) {
	_, err := NewClient(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing configured path")
	}
}

func TestList_SurfacesStderr(t *testing.T) {
	path := fakeDisplayplacer(t, "echo 'could not connect to window server' >&2\nexit 1\n")
	client, err := NewClient(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.List()
	if err == nil {
		t.Fatal("expected list failure")
	}
	if !strings.Contains(err.Error(), "could not connect to window server") {
		t.Errorf("error should carry the tool's stderr, got: %v", err)
	}
}

func TestSetMode_SurfacesStderr(t *testing.T) {
	path := fakeDisplayplacer(t, "echo 'Unable to find screen s999' >&2\nexit 1\n")
	client, err := NewClient(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SetMode("s999", "0")
	if err == nil {
		t.Fatal("expected set-mode failure")
	}
	if !strings.Contains(err.Error(), "Unable to find screen s999") {
		t.Errorf("error should carry the tool's stderr, got: %v", err)
	}
}
