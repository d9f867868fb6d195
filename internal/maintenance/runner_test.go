package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunnerLaunchIgnoresExitStatus(t *testing.T) {
	failing := writeScript(t, "exit 3")
	r := NewRunner(failing, failing)

	if err := r.Launch(context.Background(), ScriptUpgrade); err != nil {
		t.Fatalf("expected launch success regardless of exit status, got %v", err)
	}
	if err := r.Launch(context.Background(), ScriptRestart); err != nil {
		t.Fatalf("expected launch success regardless of exit status, got %v", err)
	}
}

func TestRunnerLaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	r := NewRunner(missing, missing)

	if err := r.Launch(context.Background(), ScriptUpgrade); err == nil {
		t.Fatal("expected launch failure for missing executable")
	}
}

func TestRunnerUnknownScript(t *testing.T) {
	r := NewRunner("", "")
	if err := r.Launch(context.Background(), Script("deploy")); err == nil {
		t.Fatal("expected error for unknown script")
	}
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner("", "")
	if r.paths[ScriptUpgrade] != DefaultUpgradePath || r.paths[ScriptRestart] != DefaultRestartPath {
		t.Fatalf("unexpected default paths %v", r.paths)
	}
}
