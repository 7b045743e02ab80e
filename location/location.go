package location

import (
	"path/filepath"
)

// Position represents a node start position, line is 1-based, column is 0-based in UTF-16 code units
type Position struct {
	Line   int
	Column int
}

// Location represents provenance data attached to an annotated node
type Location struct {
	FileName   string `yaml:"fileName"`         // reported file name, suffixed with the mapped source when a source map is used
	LineNumber int    `yaml:"lineNumber"`       // 1-based line in original source (mapped) or generated source, 0 when unmapped
	Source     string `yaml:"source,omitempty"` // original source identifier reported by the source map, if any
}

// UnmappedSource is reported in file name suffix for positions the source map has no segment for
const UnmappedSource = "null"

// Resolve computes location for the supplied position
func Resolve(pos Position, fileName, basePath string, sourceMap *SourceMap) *Location {
	name := RelativeName(fileName, basePath)
	if sourceMap == nil {
		return &Location{FileName: name, LineNumber: pos.Line}
	}
	line, source, ok := sourceMap.Original(pos.Line, pos.Column)
	if !ok {
		return &Location{FileName: name + " (" + UnmappedSource + ")"}
	}
	return &Location{
		FileName:   name + " (" + source + ")",
		LineNumber: line,
		Source:     source,
	}
}

// RelativeName returns fileName relative to basePath, both are resolved against working directory first
func RelativeName(fileName, basePath string) string {
	if basePath == "" {
		return fileName
	}
	from, err := filepath.Abs(basePath)
	if err != nil {
		return fileName
	}
	to, err := filepath.Abs(fileName)
	if err != nil {
		return fileName
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return fileName
	}
	return filepath.ToSlash(rel)
}
