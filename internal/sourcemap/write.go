package sourcemap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteTree materializes a reconstructed tree under dir, creating
// parent directories as needed. Paths are sanitized so a hostile map
// cannot write outside dir. Returns the number of files written.
func WriteTree(dir string, tree map[string]string) (int, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	written := 0
	for path, text := range tree {
		rel := sanitizePath(path)
		if rel == "" {
			continue
		}
		dst := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return written, fmt.Errorf("create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(dst, []byte(text), 0o600); err != nil {
			return written, fmt.Errorf("write %s: %w", rel, err)
		}
		written++
	}
	return written, nil
}

// sanitizePath converts a source-map path into a safe relative path:
// scheme prefixes (webpack://) are stripped, traversal segments are
// removed, and absolute paths become relative.
func sanitizePath(path string) string {
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+len("://"):]
	}
	path = strings.ReplaceAll(path, "\\", "/")

	parts := strings.Split(path, "/")
	clean := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		clean = append(clean, p)
	}
	if len(clean) == 0 {
		return ""
	}
	return filepath.Join(clean...)
}
