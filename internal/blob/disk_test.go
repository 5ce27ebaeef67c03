package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskUploadAndURL(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}

	ref, err := store.Upload(ctx, "images/abc-123", strings.NewReader("png bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ref != "images/abc-123" {
		t.Fatalf("ref = %q, want %q", ref, "images/abc-123")
	}

	u, err := store.URL(ctx, ref)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if !strings.HasPrefix(u, "file://") {
		t.Fatalf("url = %q, want file:// scheme", u)
	}

	data, err := os.ReadFile(filepath.Join(store.root, "images", "abc-123"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png bytes" {
		t.Fatalf("stored %q, want %q", data, "png bytes")
	}
}

func TestDiskUploadOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}

	if _, err := store.Upload(ctx, "images/photo", strings.NewReader("old")); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := store.Upload(ctx, "images/photo", strings.NewReader("new")); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.root, "images", "photo"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("stored %q, want overwrite", data)
	}
}

func TestDiskURLMissingObject(t *testing.T) {
	store, err := NewDisk(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	if _, err := store.URL(context.Background(), "images/nope"); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestDiskRejectsEscapingRefs(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	for _, ref := range []string{"", "../outside", "images/../../outside"} {
		if _, err := store.Upload(ctx, ref, strings.NewReader("x")); err == nil {
			t.Fatalf("ref %q accepted, want rejection", ref)
		}
	}
}
