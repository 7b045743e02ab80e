package annotator

import (
	"bytes"
	"sort"
)

// edit represents text insertion at source byte offset
type edit struct {
	offset  uint32
	text    string
	closing bool // inserted after a node end
	depth   int
}

type edits []*edit

// wrap surrounds [start, end) with prefix and suffix
func (e *edits) wrap(start, end uint32, depth int, prefix, suffix string) {
	*e = append(*e,
		&edit{offset: start, text: prefix, depth: depth},
		&edit{offset: end, text: suffix, closing: true, depth: depth},
	)
}

// insertAfter inserts text after a node ending at offset
func (e *edits) insertAfter(offset uint32, depth int, text string) {
	*e = append(*e, &edit{offset: offset, text: text, closing: true, depth: depth})
}

// apply returns source with all insertions; at the same offset closing text goes first,
// nested wrappers compose with outer prefix before inner and inner suffix before outer
func (e edits) apply(src []byte) []byte {
	if len(e) == 0 {
		return src
	}
	ordered := make(edits, len(e))
	copy(ordered, e)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.offset != b.offset {
			return a.offset < b.offset
		}
		if a.closing != b.closing {
			return a.closing
		}
		if a.closing {
			return a.depth > b.depth
		}
		return a.depth < b.depth
	})
	size := len(src)
	for _, item := range ordered {
		size += len(item.text)
	}
	result := bytes.NewBuffer(make([]byte, 0, size))
	position := uint32(0)
	for _, item := range ordered {
		result.Write(src[position:item.offset])
		result.WriteString(item.text)
		position = item.offset
	}
	result.Write(src[position:])
	return result.Bytes()
}
