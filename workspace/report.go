package workspace

import "github.com/viant/sagaloc/annotator"

// FileReport represents a single processed file
type FileReport struct {
	Path         string                  `yaml:"path"` // path relative to processed root
	Output       string                  `yaml:"output,omitempty"`
	SourceMap    string                  `yaml:"sourceMap,omitempty"`
	Declarations int                     `yaml:"declarations"`
	Effects      int                     `yaml:"effects"`
	Skipped      bool                    `yaml:"skipped,omitempty"`
	Annotations  []*annotator.Annotation `yaml:"annotations,omitempty"`
}

// Report represents workspace processing summary
type Report struct {
	Root  string        `yaml:"root"`
	Files []*FileReport `yaml:"files"`
}

// Annotated returns number of annotated files
func (r *Report) Annotated() int {
	count := 0
	for _, file := range r.Files {
		if !file.Skipped {
			count++
		}
	}
	return count
}

// Skipped returns number of unchanged files
func (r *Report) Skipped() int {
	return len(r.Files) - r.Annotated()
}

// Declarations returns total number of annotated generator declarations
func (r *Report) Declarations() int {
	count := 0
	for _, file := range r.Files {
		count += file.Declarations
	}
	return count
}

// Effects returns total number of annotated effects
func (r *Report) Effects() int {
	count := 0
	for _, file := range r.Files {
		count += file.Effects
	}
	return count
}
