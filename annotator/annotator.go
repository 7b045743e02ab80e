package annotator

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/viant/sagaloc/location"
)

// File represents per file compilation options
type File struct {
	Name           string // file name reported in annotations
	InputSourceMap []byte // optional input source map JSON
}

// SyntaxError represents source that could not be parsed
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error near %q", e.File, e.Line, e.Column, e.Text)
}

// Annotator injects source location metadata into generator declarations and yielded effects
type Annotator struct {
	useSymbol bool
	basePath  string
	logger    *slog.Logger
}

// UseSymbol returns true if metadata is attached under Symbol.for key
func (a *Annotator) UseSymbol() bool {
	return a.useSymbol
}

// BasePath returns base path
func (a *Annotator) BasePath() string {
	return a.basePath
}

// NewUnit creates compilation unit for the file, the input source map is parsed once per unit
func (a *Annotator) NewUnit(src []byte, file *File) (*Unit, error) {
	unit := &Unit{
		FileName: file.Name,
		basePath: a.basePath,
		key:      NewKey(a.useSymbol),
		src:      src,
	}
	if len(file.InputSourceMap) > 0 {
		sourceMap, err := location.NewSourceMap(file.InputSourceMap)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Name, err)
		}
		unit.sourceMap = sourceMap
		a.logger.Debug("input source map", slog.String("file", file.Name), slog.String("generated", sourceMap.File()))
	}
	return unit, nil
}

// Annotate parses JavaScript source and returns annotated code
func (a *Annotator) Annotate(ctx context.Context, src []byte, file *File) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("annotate canceled before start: %w", err)
	}
	unit, err := a.NewUnit(src, file)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Name, err)
	}
	defer tree.Close()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("annotate canceled after parse: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		syntaxErr := &SyntaxError{File: file.Name}
		if node := firstError(root); node != nil {
			pos := position(node, src)
			syntaxErr.Line, syntaxErr.Column = pos.Line, pos.Column
			syntaxErr.Text = node.Content(src)
		}
		return nil, syntaxErr
	}
	if err := unit.walk(root, 0); err != nil {
		return nil, err
	}
	result := &Result{Code: unit.edits.apply(src), Annotations: unit.annotations}
	a.logger.Debug("annotated",
		slog.String("file", file.Name),
		slog.Int("declarations", result.Count(KindDeclaration)),
		slog.Int("effects", result.Count(KindEffect)),
		slog.Bool("sourceMap", unit.sourceMap != nil))
	return result, nil
}

// New creates an annotator
func New(options ...Option) *Annotator {
	ret := &Annotator{useSymbol: true, logger: discardLogger()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
