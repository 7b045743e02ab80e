package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceMap_Original(t *testing.T) {
	var testCases = []struct {
		description string
		sourceMap   string
		line        int
		column      int
		expectLine  int
		expectFile  string
		expectOK    bool
	}{
		{
			description: "segment at queried column",
			sourceMap:   `{"version":3,"sources":["src/saga.ts"],"names":[],"mappings":"AACA;;;;;;;;;QACA"}`,
			line:        10,
			column:      8,
			expectLine:  3,
			expectFile:  "src/saga.ts",
			expectOK:    true,
		},
		{
			description: "segment to original first line and column",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AAAA;;AACA"}`,
			line:        1,
			column:      0,
			expectLine:  1,
			expectFile:  "orig.js",
			expectOK:    true,
		},
		{
			description: "column after last segment of the line",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AACA;EACA"}`,
			line:        1,
			column:      5,
			expectLine:  2,
			expectFile:  "orig.js",
			expectOK:    true,
		},
		{
			description: "column after last segment of the next line",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AACA;EACA"}`,
			line:        2,
			column:      9,
			expectLine:  3,
			expectFile:  "orig.js",
			expectOK:    true,
		},
		{
			description: "column before first segment of the line",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AACA;EACA"}`,
			line:        2,
			column:      0,
		},
		{
			description: "line without segments",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AAAA;;AACA"}`,
			line:        2,
			column:      4,
		},
		{
			description: "line past mappings",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AACA"}`,
			line:        20,
			column:      0,
		},
		{
			description: "segment without source",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"A,EAAA"}`,
			line:        1,
			column:      1,
		},
		{
			description: "segment with source after segment without source",
			sourceMap:   `{"version":3,"sources":["orig.js"],"names":[],"mappings":"A,EAAA"}`,
			line:        1,
			column:      3,
			expectLine:  1,
			expectFile:  "orig.js",
			expectOK:    true,
		},
		{
			description: "source root",
			sourceMap:   `{"version":3,"sourceRoot":"src","sources":["saga.ts"],"names":[],"mappings":"AACA"}`,
			line:        1,
			column:      0,
			expectLine:  2,
			expectFile:  "src/saga.ts",
			expectOK:    true,
		},
		{
			description: "index map first section",
			sourceMap:   indexMap,
			line:        1,
			column:      4,
			expectLine:  2,
			expectFile:  "a.ts",
			expectOK:    true,
		},
		{
			description: "index map second section",
			sourceMap:   indexMap,
			line:        3,
			column:      0,
			expectLine:  3,
			expectFile:  "b.ts",
			expectOK:    true,
		},
		{
			description: "index map past section mappings",
			sourceMap:   indexMap,
			line:        4,
			column:      0,
		},
	}
	for _, testCase := range testCases {
		sourceMap, err := NewSourceMap([]byte(testCase.sourceMap))
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		line, source, ok := sourceMap.Original(testCase.line, testCase.column)
		assert.Equal(t, testCase.expectOK, ok, testCase.description)
		assert.Equal(t, testCase.expectLine, line, testCase.description)
		assert.Equal(t, testCase.expectFile, source, testCase.description)
	}
}

const indexMap = `{"version":3,"sections":[` +
	`{"offset":{"line":0,"column":0},"map":{"version":3,"sources":["a.ts"],"names":[],"mappings":"AACA"}},` +
	`{"offset":{"line":2,"column":0},"map":{"version":3,"sources":["b.ts"],"names":[],"mappings":"AAEA"}}]}`

func TestDecodeVLQ(t *testing.T) {
	var testCases = []struct {
		description string
		encoded     string
		expect      []int
		hasError    bool
	}{
		{description: "single field", encoded: "A", expect: []int{0}},
		{description: "negative", encoded: "AADA", expect: []int{0, 0, -1, 0}},
		{description: "continuation", encoded: "qCAGA", expect: []int{37, 0, 3, 0}},
		{description: "invalid character", encoded: "A!", hasError: true},
		{description: "truncated", encoded: "q", hasError: true},
	}
	for _, testCase := range testCases {
		actual, err := decodeVLQ(testCase.encoded)
		if testCase.hasError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if assert.Nil(t, err, testCase.description) {
			assert.Equal(t, testCase.expect, actual, testCase.description)
		}
	}
}

func TestSourceMap_File(t *testing.T) {
	sourceMap, err := NewSourceMap([]byte(`{"version":3,"file":"a.js","sources":["orig.js"],"names":[],"mappings":"AAAA"}`))
	if assert.Nil(t, err) {
		assert.Equal(t, "a.js", sourceMap.File())
	}
}

func TestNewSourceMap_Invalid(t *testing.T) {
	_, err := NewSourceMap([]byte(`{"version":2,"sources":[],"mappings":""}`))
	assert.NotNil(t, err)
	_, err = NewSourceMap([]byte(`not a map`))
	assert.NotNil(t, err)
}

func TestDecodeInline(t *testing.T) {
	var testCases = []struct {
		description string
		URL         string
		expect      string
		hasError    bool
	}{
		{
			description: "base64 payload",
			URL:         "data:application/json;charset=utf-8;base64,eyJ2ZXJzaW9uIjozLCJzb3VyY2VzIjpbIm9yaWcuanMiXSwibmFtZXMiOltdLCJtYXBwaW5ncyI6Ijs7Ozs7Ozs7O1FBRUEifQ==",
			expect:      `{"version":3,"sources":["orig.js"],"names":[],"mappings":";;;;;;;;;QAEA"}`,
		},
		{
			description: "percent encoded payload",
			URL:         "data:application/json,%7B%22version%22%3A3%7D",
			expect:      `{"version":3}`,
		},
		{
			description: "not a data URL",
			URL:         "a.js.map",
			hasError:    true,
		},
		{
			description: "unsupported media type",
			URL:         "data:text/plain;base64,AAAA",
			hasError:    true,
		},
	}
	for _, testCase := range testCases {
		actual, err := DecodeInline(testCase.URL)
		if testCase.hasError {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, string(actual), testCase.description)
	}
}
