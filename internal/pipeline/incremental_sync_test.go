package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrdoc/internal/crawler"
	"attrdoc/internal/extractor"
	"attrdoc/internal/storage"
	"attrdoc/internal/synthesizer"
)

const attributed = "<?php\n#[Returns('int')]\nfunction count_items() {}\n"

const plain = "<?php\nfunction plain() {}\n"

func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func newSync(t *testing.T, root string, ledger storage.Ledger, opts ...synthesizer.Option) *IncrementalSync {
	t.Helper()
	ext, err := extractor.NewExtractor("php")
	require.NoError(t, err)
	cr := crawler.NewCrawler([]string{".php"}, []string{"vendor"})
	s := NewIncrementalSync(cr, ext, synthesizer.New(opts...), ledger, nil)
	s.ProjectRoot = root
	s.Workers = 2
	return s
}

func openLedger(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIncrementalSync_DryRun(t *testing.T) {
	root := setupProject(t, map[string]string{
		"src/a.php":        attributed,
		"src/b.php":        plain,
		"vendor/x/lib.php": attributed,
	})
	ledger := openLedger(t)
	var diff bytes.Buffer

	s := newSync(t, root, ledger)
	s.Diff = &diff

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 1, report.Rewritten)
	assert.Equal(t, 1, report.Stats.Tags)
	assert.Contains(t, diff.String(), "--- a/src/a.php")
	assert.Contains(t, diff.String(), "+ * @return int")
	assert.NotContains(t, diff.String(), "b.php")

	data, err := os.ReadFile(filepath.Join(root, "src", "a.php"))
	require.NoError(t, err)
	assert.Equal(t, attributed, string(data))

	records, err := ledger.ListRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIncrementalSync_WriteThenSkip(t *testing.T) {
	root := setupProject(t, map[string]string{
		"a.php": attributed,
		"b.php": plain,
	})
	ledger := openLedger(t)
	ctx := context.Background()

	s := newSync(t, root, ledger)
	s.Write = true

	report, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rewritten)
	assert.Zero(t, report.Skipped)

	data, err := os.ReadFile(filepath.Join(root, "a.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php\n/**\n * @return int\n */\n#[Returns('int')]\nfunction count_items() {}\n", string(data))

	rec, err := ledger.Lookup(ctx, "a.php")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, storage.HashContent(data), rec.ContentHash)
	assert.Equal(t, []string{"@return int"}, rec.Tags)

	t.Run("Second run skips recorded files", func(t *testing.T) {
		report, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Skipped)
		assert.Zero(t, report.Rewritten)

		again, err := os.ReadFile(filepath.Join(root, "a.php"))
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})

	t.Run("Different mode reprocesses", func(t *testing.T) {
		other := newSync(t, root, ledger, synthesizer.WithMode(synthesizer.ModePHPStan))
		report, err := other.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Skipped)
	})
}

func TestIncrementalSync_WithoutLedger(t *testing.T) {
	root := setupProject(t, map[string]string{"a.php": attributed})

	s := newSync(t, root, nil)
	s.Write = true
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	// With no ledger the second run appends again.
	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Rewritten)
}

type failingLedger struct {
	storage.Ledger
	fail string
}

func (l failingLedger) Lookup(ctx context.Context, path string) (*storage.FileRecord, error) {
	if path == l.fail {
		return nil, errors.New("ledger unavailable")
	}
	return nil, nil
}

func TestIncrementalSync_FileFailureDoesNotAbort(t *testing.T) {
	root := setupProject(t, map[string]string{
		"a.php":   attributed,
		"bad.php": attributed,
	})

	s := newSync(t, root, failingLedger{fail: "bad.php"})
	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Rewritten)
	require.Len(t, report.Results, 2)
	assert.Error(t, report.Results[1].Err)
}

func TestIncrementalSync_Changed(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	root := setupProject(t, map[string]string{
		"a.php": plain,
		"b.php": plain,
	})
	gitRun := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-c", "user.email=dev@example.com", "-c", "user.name=dev"}, args...)...)
		cmd.Dir = root
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	gitRun("init", "-q")
	gitRun("add", ".")
	gitRun("commit", "-q", "-m", "init")

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.php"), []byte(attributed), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.php"), []byte(attributed), 0o644))

	var diff bytes.Buffer
	s := newSync(t, root, nil)
	s.Changed = true
	s.Diff = &diff

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "a.php", report.Results[0].Path)
	assert.Equal(t, 1, report.Results[0].Affected)
	assert.Contains(t, diff.String(), "b/a.php")
}

func TestIncrementalSync_Canceled(t *testing.T) {
	root := setupProject(t, map[string]string{"a.php": attributed})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSync(t, root, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("x.php", []byte("a\nb\n"), []byte("a\nc\n"))
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/x.php")
	assert.Contains(t, diff, "+++ b/x.php")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")
}
