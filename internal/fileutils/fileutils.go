// Package fileutils provides the file/bytes boundary for the parsing
// engine: entry points accept either an in-memory buffer or a file path,
// and a missing file is a distinct error, never a silent empty document.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"

	"finbridge/internal/parsererror"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadTextFile reads the entire file as text. A missing file yields a
// FileNotFoundError so callers can distinguish "no such input" from
// "unparseable input".
func ReadTextFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &parsererror.FileNotFoundError{Path: filePath, Err: err}
		}
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return string(data), nil
}

// WriteTextFile writes text to a file, creating parent directories as
// needed.
func WriteTextFile(filePath, content string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	return nil
}
