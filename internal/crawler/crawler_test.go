package crawler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
	}
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/A.php",
		"src/Model/B.PHP",
		"src/readme.md",
		"vendor/lib/C.php",
		".git/hooks/D.php",
		"tests/E.php",
	)

	c := NewCrawler([]string{".php"}, []string{".git", "vendor"})

	var found []string
	err := c.ScanProject(root, func(path string) error {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"src/A.php", "src/Model/B.PHP", "tests/E.php"}, found)
}

func TestCrawler_CallbackErrorStops(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.php", "b.php")

	stop := errors.New("stop")
	calls := 0
	err := NewCrawler([]string{".php"}, nil).ScanProject(root, func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCrawler_Match(t *testing.T) {
	c := NewCrawler([]string{".php", ".inc"}, nil)
	assert.True(t, c.Match("x/y.php"))
	assert.True(t, c.Match("x/y.INC"))
	assert.False(t, c.Match("x/y.phpt"))
	assert.False(t, c.Match("Makefile"))
}
