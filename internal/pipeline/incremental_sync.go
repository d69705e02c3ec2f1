package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"attrdoc/internal/analysis"
	"attrdoc/internal/ast"
	"attrdoc/internal/crawler"
	"attrdoc/internal/extractor"
	"attrdoc/internal/git"
	"attrdoc/internal/printer"
	"attrdoc/internal/storage"
	"attrdoc/internal/synthesizer"
)

// IncrementalSync brings the doc comments of a source tree in line with its
// attributes. Files recorded in the ledger with an unchanged hash and mode are
// skipped, so tags are never appended twice.
type IncrementalSync struct {
	ProjectRoot string
	// Write replaces files in place. Without it a unified diff of every
	// change is written to Diff.
	Write bool
	Diff  io.Writer
	// Changed restricts the run to files git reports as changed against BaseRef.
	Changed bool
	BaseRef string
	// Force ignores the ledger.
	Force   bool
	Workers int

	crawler   *crawler.Crawler
	extractor *extractor.Extractor
	synth     *synthesizer.Synthesizer
	ledger    storage.Ledger
	logger    *zap.Logger
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path    string
	Stats   synthesizer.Stats
	Tags    []string
	Changed bool
	Skipped bool
	Err     error
	// Affected counts declarations touching a changed line; only set when
	// running on git changes.
	Affected int

	output []byte
	hash   string
}

// Report summarizes a run.
type Report struct {
	Files     int
	Rewritten int
	Skipped   int
	Failed    int
	Removed   int
	Affected  int
	Stats     synthesizer.Stats
	Results   []FileResult
}

// NewIncrementalSync wires the pipeline stages. ledger may be nil, in which
// case every file is processed and nothing is recorded.
func NewIncrementalSync(cr *crawler.Crawler, ext *extractor.Extractor, synth *synthesizer.Synthesizer, ledger storage.Ledger, logger *zap.Logger) *IncrementalSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncrementalSync{
		ProjectRoot: ".",
		Diff:        io.Discard,
		BaseRef:     "HEAD",
		Workers:     runtime.GOMAXPROCS(0),
		crawler:     cr,
		extractor:   ext,
		synth:       synth,
		ledger:      ledger,
		logger:      logger,
	}
}

func (s *IncrementalSync) Run(ctx context.Context) (*Report, error) {
	files, deleted, changedLines, err := s.collectFilesStage(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Files: len(files)}

	if s.ledger != nil && s.Write && len(deleted) > 0 {
		if err := s.ledger.RemoveRecords(ctx, deleted); err != nil {
			return nil, fmt.Errorf("failed to forget deleted files: %w", err)
		}
		report.Removed = len(deleted)
	}
	if len(files) == 0 {
		return report, nil
	}

	results, err := s.processStage(ctx, files, changedLines)
	if err != nil {
		return nil, err
	}
	report.Results = results

	for _, r := range results {
		switch {
		case r.Err != nil:
			report.Failed++
		case r.Skipped:
			report.Skipped++
		case r.Changed:
			report.Rewritten++
		}
		report.Affected += r.Affected
		report.Stats.Decls += r.Stats.Decls
		report.Stats.Rewritten += r.Stats.Rewritten
		report.Stats.Tags += r.Stats.Tags
		report.Stats.Bound += r.Stats.Bound
		report.Stats.Dropped += r.Stats.Dropped
	}

	if err := s.outputStage(results); err != nil {
		return report, err
	}
	if err := s.recordStage(ctx, results); err != nil {
		return report, err
	}
	return report, nil
}

// collectFilesStage returns the files to process, sorted, the ledger keys of
// files git reports as deleted, and the changed lines of each kept file.
func (s *IncrementalSync) collectFilesStage(ctx context.Context) ([]string, []string, map[string][]int, error) {
	var files []string
	err := s.crawler.ScanProject(s.ProjectRoot, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to scan %s: %w", s.ProjectRoot, err)
	}
	sort.Strings(files)

	if !s.Changed {
		return files, nil, nil, nil
	}

	root, err := resolvedAbs(s.ProjectRoot)
	if err != nil {
		return nil, nil, nil, err
	}
	top, err := git.TopLevel(ctx, root)
	if err != nil {
		return nil, nil, nil, err
	}
	changes, err := git.GetChangedFiles(ctx, root, s.BaseRef)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get git changes: %w", err)
	}

	changed := make(map[string][]int, len(changes))
	var deleted []string
	for _, c := range changes {
		abs := filepath.Join(top, filepath.FromSlash(c.Path))
		if c.Deleted {
			if rel, err := filepath.Rel(root, abs); err == nil && s.crawler.Match(abs) {
				deleted = append(deleted, filepath.ToSlash(rel))
			}
			continue
		}
		changed[abs] = c.ChangedLines
	}

	var kept []string
	keptLines := make(map[string][]int)
	for _, f := range files {
		rel, err := filepath.Rel(s.ProjectRoot, f)
		if err != nil {
			continue
		}
		if lines, ok := changed[filepath.Join(root, rel)]; ok {
			kept = append(kept, f)
			keptLines[f] = lines
		}
	}
	s.logger.Info("restricted to changed files",
		zap.String("base", s.BaseRef), zap.Int("changed", len(changes)), zap.Int("matched", len(kept)))
	return kept, deleted, keptLines, nil
}

func (s *IncrementalSync) processStage(ctx context.Context, files []string, changedLines map[string][]int) ([]FileResult, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns results[i].
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.processFile(gctx, path, changedLines[path])
			if err := results[i].Err; err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("failed to process file", zap.String("file", path), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *IncrementalSync) processFile(ctx context.Context, path string, changedLines []int) FileResult {
	res := FileResult{Path: s.key(path)}

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file %s: %w", path, err)
		return res
	}
	res.hash = storage.HashContent(src)

	if s.ledger != nil && !s.Force {
		rec, err := s.ledger.Lookup(ctx, res.Path)
		if err != nil {
			res.Err = err
			return res
		}
		if rec != nil && rec.ContentHash == res.hash && rec.Mode == string(s.synth.Mode()) {
			res.Skipped = true
			s.logger.Debug("unchanged since last run", zap.String("file", res.Path))
			return res
		}
	}

	f, err := s.extractor.Extract(ctx, path, src)
	if err != nil {
		res.Err = err
		return res
	}

	if len(changedLines) > 0 {
		impact := analysis.AnalyzeImpact(f, changedLines)
		res.Affected = len(impact.DirectlyAffected)
		s.logger.Debug("declarations touched by change",
			zap.String("file", res.Path),
			zap.Int("direct", len(impact.DirectlyAffected)),
			zap.Int("enclosing", len(impact.IndirectlyAffected)))
	}

	ast.Inspect(f, func(d ast.Decl) bool {
		r := s.synth.Visit(d)
		res.Stats.Add(r)
		for _, t := range r.Tags {
			res.Tags = append(res.Tags, t.Text)
		}
		for _, t := range r.Bound {
			res.Tags = append(res.Tags, t.Text)
		}
		return true
	})

	out, err := printer.Print(f)
	if err != nil {
		res.Err = err
		return res
	}
	res.output = out
	res.Changed = !bytes.Equal(out, src)
	s.logger.Debug("synthesized",
		zap.String("file", res.Path), zap.Int("tags", res.Stats.Tags), zap.Int("bound", res.Stats.Bound))
	return res
}

// outputStage writes changed files, or their diffs in a dry run. Results are
// handled in path order so diff output is stable.
func (s *IncrementalSync) outputStage(results []FileResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Skipped || !r.Changed {
			continue
		}
		path := filepath.Join(s.ProjectRoot, filepath.FromSlash(r.Path))

		if !s.Write {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}
			diff, err := UnifiedDiff(r.Path, src, r.output)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(s.Diff, diff); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, r.output, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.hash = storage.HashContent(r.output)
		s.logger.Info("rewrote file", zap.String("file", r.Path), zap.Int("tags", len(r.Tags)))
	}
	return nil
}

// recordStage stores the final hash of every processed file. Dry runs change
// nothing on disk and record nothing.
func (s *IncrementalSync) recordStage(ctx context.Context, results []FileResult) error {
	if s.ledger == nil || !s.Write {
		return nil
	}
	var records []storage.FileRecord
	for _, r := range results {
		if r.Err != nil || r.Skipped {
			continue
		}
		records = append(records, storage.FileRecord{
			Path:        r.Path,
			ContentHash: r.hash,
			Mode:        string(s.synth.Mode()),
			Tags:        r.Tags,
		})
	}
	if len(records) == 0 {
		return nil
	}
	if err := s.ledger.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to record processed files: %w", err)
	}
	return nil
}

// key is the ledger key of path: slash separated and relative to the root.
func (s *IncrementalSync) key(path string) string {
	if rel, err := filepath.Rel(s.ProjectRoot, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// UnifiedDiff renders the change from before to after as a unified diff.
func UnifiedDiff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

func resolvedAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
