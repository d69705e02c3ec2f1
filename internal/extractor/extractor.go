package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"attrdoc/internal/ast"
)

// ErrUnsupportedLanguage is returned by NewExtractor for unknown languages.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Extractor parses source files into declaration trees.
type Extractor struct {
	lang     *sitter.Language
	langName string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	switch lang {
	case "php":
		return &Extractor{lang: php.GetLanguage(), langName: lang}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// Language returns the language name the extractor was created for.
func (e *Extractor) Language() string { return e.langName }

// ExtractFromFile reads and parses a single source file.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*ast.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(ctx, path, src)
}

// Extract parses src. A fresh parser is used per call, so an Extractor may be
// shared between goroutines.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte) (*ast.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	b := &phpBuilder{src: src, toks: newTokenIndex(root)}
	b.collect(root)

	return &ast.File{
		Path:      path,
		Namespace: e.detectNamespace(root, src),
		Source:    src,
		Decls:     b.decls,
	}, nil
}

func (e *Extractor) detectNamespace(root *sitter.Node, src []byte) string {
	query, err := sitter.NewQuery([]byte(`(namespace_definition (namespace_name) @ns)`), e.lang)
	if err != nil {
		return ""
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)
	if m, ok := qc.NextMatch(); ok && len(m.Captures) > 0 {
		return m.Captures[0].Node.Content(src)
	}
	return ""
}
