package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileReader provides file reading with modification-aware caching, so
// repeated go.mod lookups during a multi-directory run stay cheap.
type FileReader struct {
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	// Caching is best effort: if the stat fails the entry is simply not
	// stored and the next read goes back to disk.
	_ = fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)
	return contentStr, nil
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contentCache.Clear()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)

	// Allow .. only when the whole path is relative to a parent directory.
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}
	return cleanPath, nil
}
