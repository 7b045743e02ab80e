package location

import (
	"fmt"
	"sort"
	"strings"
)

const vlqAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqMask         = 1<<vlqShift - 1
	vlqContinuation = 1 << vlqShift
)

type (
	mapDocument struct {
		SourceRoot string        `json:"sourceRoot"`
		Sources    []string      `json:"sources"`
		Mappings   string        `json:"mappings"`
		Sections   []*mapSection `json:"sections"`
	}

	mapSection struct {
		Offset struct {
			Line   int `json:"line"`
			Column int `json:"column"`
		} `json:"offset"`
		Map *mapDocument `json:"map"`
	}

	// segment represents a decoded mapping segment
	segment struct {
		column         int // generated column
		sourceIndex    int // -1 for segments without source
		originalLine   int // 1-based
		originalColumn int
	}

	// section represents a (possibly single) section of an index map, offset is 0-based
	section struct {
		line    int
		column  int
		sources []string
		lines   [][]*segment
	}
)

func (d *mapDocument) sources() []string {
	if d.SourceRoot == "" {
		return d.Sources
	}
	root := d.SourceRoot
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	ret := make([]string, len(d.Sources))
	for i, source := range d.Sources {
		if strings.HasPrefix(source, "/") || strings.Contains(source, "://") {
			ret[i] = source
			continue
		}
		ret[i] = root + source
	}
	return ret
}

// original returns the greatest segment at or before column on the 1-based generated line
func (s *section) original(line, column int) (int, string, bool) {
	if line < 1 || line > len(s.lines) {
		return 0, "", false
	}
	segments := s.lines[line-1]
	index := sort.Search(len(segments), func(i int) bool {
		return segments[i].column > column
	})
	if index == 0 {
		return 0, "", false
	}
	match := segments[index-1]
	if match.sourceIndex < 0 || match.sourceIndex >= len(s.sources) {
		return 0, "", false
	}
	return match.originalLine, s.sources[match.sourceIndex], true
}

// decodeMappings decodes "mappings" into segments per generated line, sorted by generated column
func decodeMappings(mappings string) ([][]*segment, error) {
	var sourceIndex, originalLine, originalColumn int
	groups := strings.Split(mappings, ";")
	lines := make([][]*segment, len(groups))
	for i, group := range groups {
		column := 0
		for _, encoded := range strings.Split(group, ",") {
			if encoded == "" {
				continue
			}
			fields, err := decodeVLQ(encoded)
			if err != nil {
				return nil, err
			}
			switch len(fields) {
			case 1, 4, 5:
			default:
				return nil, fmt.Errorf("invalid mapping segment %q at line %d", encoded, i+1)
			}
			column += fields[0]
			item := &segment{column: column, sourceIndex: -1}
			if len(fields) >= 4 {
				sourceIndex += fields[1]
				originalLine += fields[2]
				originalColumn += fields[3]
				item.sourceIndex = sourceIndex
				item.originalLine = originalLine + 1
				item.originalColumn = originalColumn
			}
			lines[i] = append(lines[i], item)
		}
		sort.SliceStable(lines[i], func(a, b int) bool {
			return lines[i][a].column < lines[i][b].column
		})
	}
	return lines, nil
}

// decodeVLQ decodes base64 VLQ encoded segment fields
func decodeVLQ(encoded string) ([]int, error) {
	var fields []int
	value, shift := 0, 0
	for i := 0; i < len(encoded); i++ {
		digit := strings.IndexByte(vlqAlphabet, encoded[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid mapping character %q in %q", encoded[i], encoded)
		}
		value += (digit & vlqMask) << shift
		if digit&vlqContinuation != 0 {
			shift += vlqShift
			continue
		}
		if value&1 == 1 {
			fields = append(fields, -(value >> 1))
		} else {
			fields = append(fields, value>>1)
		}
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, fmt.Errorf("truncated mapping segment %q", encoded)
	}
	return fields, nil
}
