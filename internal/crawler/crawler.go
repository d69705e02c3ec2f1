package crawler

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Crawler scans a directory for source files.
type Crawler struct {
	extensions []string
	ignored    []string
}

// NewCrawler creates a crawler matching files by extension. Directories whose
// name is in ignored are not entered.
func NewCrawler(extensions, ignored []string) *Crawler {
	return &Crawler{
		extensions: extensions,
		ignored:    ignored,
	}
}

// Match reports whether path has one of the crawler's extensions.
func (c *Crawler) Match(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(c.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// ScanProject walks the root directory and reports every matching file.
// It uses a callback to stream paths, preventing large memory buildup.
// An error from onFile stops the walk.
func (c *Crawler) ScanProject(root string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(c.ignored, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !c.Match(path) {
			return nil
		}
		return onFile(path)
	})
}
