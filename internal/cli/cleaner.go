package cli

import (
	"fmt"
	"strings"

	"github.com/clientwire/clientwire/internal/generator"
	"github.com/clientwire/clientwire/internal/utils"
)

// Cleaner handles cleaning up generated client files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes all generated client files from the specified
// directories and returns the removed paths. Supports "./..." patterns.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var baseDirs []string
	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			base := strings.TrimSuffix(dir, "/...")
			if base == "" {
				base = "."
			}
			baseDirs = append(baseDirs, base)
			continue
		}
		baseDirs = append(baseDirs, dir)
	}

	removed, err := c.fileProcessor.CleanDirectories(baseDirs, generator.OutputFileName)
	if err != nil {
		return removed, fmt.Errorf("failed to clean generated files: %w", err)
	}
	return removed, nil
}
