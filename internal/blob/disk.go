package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Disk stores objects as plain files under a root directory. Refs are
// slash-separated paths like "images/<filename>"; URLs are file://
// links into the root.
type Disk struct {
	root string
	log  *zap.Logger
}

func NewDisk(root string, log *zap.Logger) (*Disk, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Disk{root: abs, log: log}, nil
}

func (d *Disk) Upload(ctx context.Context, ref string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := d.resolve(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("stage object: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("flush object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("commit object: %w", err)
	}
	d.log.Debug("object stored", zap.String("ref", ref))
	return ref, nil
}

func (d *Disk) URL(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := d.resolve(ref)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("object %q: %w", ref, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String(), nil
}

// resolve maps a ref onto the root and rejects anything that would
// escape it.
func (d *Disk) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty object ref")
	}
	path := filepath.Join(d.root, filepath.FromSlash(ref))
	if path != d.root && !strings.HasPrefix(path, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("object ref %q escapes storage root", ref)
	}
	return path, nil
}
