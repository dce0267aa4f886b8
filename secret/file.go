package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider resolves references of the form secretref:file:<path>, for
// secrets mounted as files (Docker and Kubernetes secrets). Relative paths
// are joined to Dir and may not escape it. Trailing newlines are trimmed.
type FileProvider struct {
	Dir string
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Lookup reads the referenced file.
func (p *FileProvider) Lookup(_ context.Context, ref string) (string, error) {
	path, err := p.path(ref)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (p *FileProvider) path(ref string) (string, error) {
	if filepath.IsAbs(ref) {
		if p.Dir != "" {
			return "", fmt.Errorf("%w: absolute path %q with base dir set", ErrInvalidRef, ref)
		}
		return filepath.Clean(ref), nil
	}
	if !filepath.IsLocal(ref) {
		return "", fmt.Errorf("%w: %q escapes base dir", ErrInvalidRef, ref)
	}
	return filepath.Join(p.Dir, ref), nil
}


func newFileProvider(cfg map[string]any) (Provider, error) {
	dir, _ := cfg["dir"].(string)
	return &FileProvider{Dir: dir}, nil
}
