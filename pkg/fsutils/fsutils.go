package fsutils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// CreateDir creates a directory and any missing parents.
func CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", path, err)
	}
	return nil
}

// FileExists checks if a path exists and is a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileAtomic writes content to a uniquely named temporary file in the
// target directory and renames it over path, so readers never observe a
// partially written file.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := CreateDir(dir); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move %q into place: %w", path, err)
	}
	return nil
}

// RemoveFile deletes a file. A missing file is not an error.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	return nil
}

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9_.-]+`)
var collapseUnderscoreRegex = regexp.MustCompile(`_+`)

// SanitizeFilename converts a string into a safe filename: lowercase, spaces
// and disallowed characters replaced with underscores, runs of underscores
// collapsed.
func SanitizeFilename(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	noSpaces := strings.ReplaceAll(lower, " ", "_")
	sanitized := nonAlphanumericRegex.ReplaceAllString(noSpaces, "_")
	collapsed := collapseUnderscoreRegex.ReplaceAllString(sanitized, "_")
	collapsed = strings.TrimLeft(collapsed, ".")

	if collapsed == "" && name != "" {
		return "_"
	}
	return collapsed
}

// KeyFilename maps an arbitrary key to a filename that is safe on disk and
// distinct for distinct keys, even when their sanitized forms collide.
func KeyFilename(key, ext string) string {
	sum := sha256.Sum256([]byte(key))
	return SanitizeFilename(key) + "-" + hex.EncodeToString(sum[:6]) + ext
}
