package store

import (
	"context"
	"path/filepath"
	"testing"

	"tableflip.dev/moodlog/pkg/entry"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moods.db")
	t.Setenv("MOODLOG_PATH", path)
	t.Setenv("MOODLOG_CONFIG_PATH", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabasePath() != path {
		t.Fatalf("expected %s, got %s", path, cfg.DatabasePath())
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath(MemoryPath)
	if err != nil || got != MemoryPath {
		t.Fatalf("memory path must pass through, got %q (%v)", got, err)
	}
	got, err = expandPath("~/moods.db")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got == "~/moods.db" || filepath.Base(got) != "moods.db" {
		t.Fatalf("expected home to be expanded, got %q", got)
	}
}

func TestDefaultIsShared(t *testing.T) {
	t.Setenv("MOODLOG_PATH", filepath.Join(t.TempDir(), "default.db"))
	t.Chdir(t.TempDir())
	t.Cleanup(func() { _ = CloseDefault() })

	first, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	second, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same persistence handle")
	}
	if err := first.Insert(context.Background(), entry.New("Happy 😊", 5, "")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := CloseDefault(); err != nil {
		t.Fatalf("close default: %v", err)
	}
	third, err := Default()
	if err != nil {
		t.Fatalf("default after close: %v", err)
	}
	all, err := third.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected reopened database to keep its entry, got %d", len(all))
	}
}
