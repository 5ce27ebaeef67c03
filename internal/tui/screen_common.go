package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockdeck/stockdeck/internal/helpers"
)

type mutationKind string

const (
	mutCreate mutationKind = "create"
	mutUpdate mutationKind = "update"
	mutDelete mutationKind = "delete"
)

// itemMutationMsg and categoryMutationMsg report async create/update/
// delete completions. gen is the issuing screen's generation; stale
// completions are dropped.
type itemMutationMsg struct {
	gen  int
	kind mutationKind
	err  error
}

type categoryMutationMsg struct {
	gen  int
	kind mutationKind
	err  error
}

// photoNeedsUpload distinguishes a freshly picked local file from an
// already-stored URL. URLs pass through edits untouched.
func photoNeedsUpload(photo string) bool {
	if photo == "" {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(photo, scheme) {
			return false
		}
	}
	return true
}

// resolvePhoto uploads a local photo file and returns its stored URL.
// Existing URLs (and empty values) are returned unchanged with no
// upload call.
func resolvePhoto(ctx context.Context, caps Caps, photo string) (string, error) {
	if !photoNeedsUpload(photo) {
		return photo, nil
	}
	f, err := os.Open(photo)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	name := "images/" + helpers.GenerateFilename() + filepath.Ext(photo)
	ref, err := caps.Blobs.Upload(ctx, name, f)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	url, err := caps.Blobs.URL(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve photo url: %w", err)
	}
	return url, nil
}

// sortableHeaders filters out the columns that never sort: the
// positional id, the photo URL and the variants affordance.
func sortableHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		switch h {
		case "id", "photo", "variants":
			continue
		}
		out = append(out, h)
	}
	return out
}
