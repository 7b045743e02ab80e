package location

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-sourcemap/sourcemap"
)

const dataURLPrefix = "data:"

// ErrUnsupportedDataURL is returned for data URLs that do not carry JSON source map
var ErrUnsupportedDataURL = errors.New("unsupported source map data URL")

// SourceMap represents a parsed input source map owned by a single compilation unit
type SourceMap struct {
	consumer *sourcemap.Consumer
	sections []*section
}

// Original returns original line and source identifier for the generated position, line is 1-based,
// column is 0-based in UTF-16 code units. The closest segment at or before column on the same generated
// line is used; false is returned when the line has no such segment or the segment carries no source.
func (s *SourceMap) Original(line, column int) (int, string, bool) {
	for i := len(s.sections) - 1; i >= 0; i-- {
		section := s.sections[i]
		if section.line > line-1 || (section.line == line-1 && section.column > column) {
			continue
		}
		if section.line == line-1 {
			column -= section.column
		}
		return section.original(line-section.line, column)
	}
	return 0, "", false
}

// File returns generated file name declared by the source map
func (s *SourceMap) File() string {
	return s.consumer.File()
}

// NewSourceMap parses source map JSON
func NewSourceMap(data []byte) (*SourceMap, error) {
	return NewSourceMapWithURL("", data)
}

// NewSourceMapWithURL parses source map JSON, relative sources are resolved against an absolute mapURL
func NewSourceMapWithURL(mapURL string, data []byte) (*SourceMap, error) {
	consumer, err := sourcemap.Parse(mapURL, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}
	document := &mapDocument{}
	if err = json.Unmarshal(data, document); err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}
	ret := &SourceMap{consumer: consumer}
	if len(document.Sections) == 0 {
		document.Sections = []*mapSection{{Map: document}}
	}
	for _, item := range document.Sections {
		if item.Map == nil {
			return nil, fmt.Errorf("failed to parse source map: section at %d:%d without map", item.Offset.Line, item.Offset.Column)
		}
		lines, err := decodeMappings(item.Map.Mappings)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source map: %w", err)
		}
		ret.sections = append(ret.sections, &section{
			line:    item.Offset.Line,
			column:  item.Offset.Column,
			sources: item.Map.sources(),
			lines:   lines,
		})
	}
	sort.SliceStable(ret.sections, func(i, j int) bool {
		a, b := ret.sections[i], ret.sections[j]
		if a.line != b.line {
			return a.line < b.line
		}
		return a.column < b.column
	})
	return ret, nil
}

// IsDataURL returns true if URL is an inline data URL
func IsDataURL(URL string) bool {
	return strings.HasPrefix(URL, dataURLPrefix)
}

// DecodeInline decodes inline source map, i.e. data:application/json;charset=utf-8;base64,...
func DecodeInline(URL string) ([]byte, error) {
	if !IsDataURL(URL) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataURL, URL)
	}
	header, payload, ok := strings.Cut(URL[len(dataURLPrefix):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrUnsupportedDataURL)
	}
	params := strings.Split(header, ";")
	if params[0] != "application/json" {
		return nil, fmt.Errorf("%w: media type %q", ErrUnsupportedDataURL, params[0])
	}
	isBase64 := false
	for _, param := range params[1:] {
		if param == "base64" {
			isBase64 = true
		}
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline source map: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inline source map: %w", err)
	}
	return []byte(data), nil
}
