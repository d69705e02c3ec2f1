package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"attrdoc/internal/ast"
	"attrdoc/internal/crawler"
	"attrdoc/internal/extractor"
	"attrdoc/internal/synthesizer"
)

// Entry describes one attributed declaration.
type Entry struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	Tags       []string `json:"tags,omitempty"`
}

// Index lists the attributes of a project and the tags they produce.
type Index struct {
	Root    string  `json:"root"`
	Tool    string  `json:"tool,omitempty"`
	Entries []Entry `json:"entries"`
}

// Indexer orchestrates attribute indexing over a codebase.
type Indexer struct {
	crawler   *crawler.Crawler
	extractor *extractor.Extractor
	synth     *synthesizer.Synthesizer
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler, ext *extractor.Extractor, synth *synthesizer.Synthesizer) *Indexer {
	return &Indexer{
		crawler:   c,
		extractor: ext,
		synth:     synth,
	}
}

// Build scans root and records every declaration carrying attributes. Files
// are parsed but never written.
func (i *Indexer) Build(ctx context.Context, root string) (*Index, error) {
	idx := &Index{Root: root, Tool: string(i.synth.Mode()), Entries: []Entry{}}

	err := i.crawler.ScanProject(root, func(path string) error {
		f, err := i.extractor.ExtractFromFile(ctx, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		idx.Entries = append(idx.Entries, i.entries(filepath.ToSlash(rel), f)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return idx, nil
}

func (i *Indexer) entries(file string, f *ast.File) []Entry {
	var out []Entry
	ast.Inspect(f, func(d ast.Decl) bool {
		attrs := attributeNames(d)
		if len(attrs) == 0 {
			return true
		}
		e := Entry{
			File:       file,
			Line:       d.Pos().Start.Line,
			Kind:       d.Kind().String(),
			Name:       d.Name(),
			Attributes: attrs,
		}
		r := i.synth.Visit(d)
		for _, t := range r.Tags {
			e.Tags = append(e.Tags, t.Text)
		}
		for _, t := range r.Bound {
			e.Tags = append(e.Tags, t.Text)
		}
		out = append(out, e)
		return true
	})
	return out
}

// attributeNames lists the attributes on d and on its parameters.
func attributeNames(d ast.Decl) []string {
	var names []string
	for _, g := range d.AttrGroups() {
		for _, a := range g.Attrs {
			names = append(names, a.Name)
		}
	}
	for _, p := range ast.Params(d) {
		for _, g := range p.Groups {
			for _, a := range g.Attrs {
				names = append(names, a.Name)
			}
		}
	}
	return names
}

// Save persists the index to a JSON file.
func Save(idx *Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(idx); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return nil
}

// Load reads an index saved by Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := json.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	return &idx, nil
}
