package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProcessor provides directory scanning and cleanup for the CLI.
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// IsSourceGoFile reports whether a directory entry is a hand-written,
// non-test Go source file.
func IsSourceGoFile(entry os.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	name := entry.Name()
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, "autogen_")
}

// skipDirs are directories that never hold scannable source code.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
	"build":        true,
	"dist":         true,
}

// shouldScanDirectory reports whether a directory may contain packages.
func shouldScanDirectory(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return !skipDirs[name]
}

// ScanDirectoriesWithGoFiles walks the given roots and returns every
// directory holding at least one source Go file.
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}
	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	// Resolve absolute path to handle symlinks and avoid cycles.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
	}
	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("Go file check in %s", dir), err)
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || !shouldScanDirectory(entry.Name()) {
			continue
		}
		subDirs, err := fp.scanDirectoryRecursive(filepath.Join(dir, entry.Name()), visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}
	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any source Go files.
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if IsSourceGoFile(entry) {
			return true, nil
		}
	}
	return false, nil
}

// CleanDirectories removes the named generated file from every directory
// under the given roots and returns the removed paths.
func (fp *FileProcessor) CleanDirectories(baseDirs []string, generatedFileName string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		startDir := baseDir
		if startDir == "" {
			startDir = "."
		}

		err := filepath.Walk(startDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				// Unreadable entries are skipped, a clean never aborts.
				return nil
			}
			if !info.IsDir() {
				return nil
			}
			if !shouldScanDirectory(info.Name()) && path != startDir {
				return filepath.SkipDir
			}

			generated := filepath.Join(path, generatedFileName)
			if _, statErr := os.Stat(generated); statErr != nil {
				return nil
			}
			if removeErr := os.Remove(generated); removeErr != nil {
				return nil
			}
			removedFiles = append(removedFiles, generated)
			return nil
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}
	}
	return removedFiles, nil
}
