package annotator

import "github.com/viant/sagaloc/location"

// Kind represents annotation kind
type Kind string

const (
	KindDeclaration Kind = "declaration" // generator function declaration
	KindEffect      Kind = "effect"      // yielded call expression
)

// Annotation describes injected location metadata
type Annotation struct {
	Kind     Kind               `yaml:"kind"`
	Name     string             `yaml:"name"`
	Code     string             `yaml:"code,omitempty"`
	Location *location.Location `yaml:"location"`
}

// Result represents annotated file
type Result struct {
	Code        []byte
	Annotations []*Annotation
}

// Count returns number of annotations of the supplied kind
func (r *Result) Count(kind Kind) int {
	count := 0
	for _, annotation := range r.Annotations {
		if annotation.Kind == kind {
			count++
		}
	}
	return count
}
