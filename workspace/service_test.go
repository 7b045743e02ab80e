package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/sagaloc/annotator"
)

const rootSaga = "export function* root() {\n  yield fork(watch)\n}\n"

const rootSagaAnnotated = "export function* root() {\n" +
	`  yield (function reduxSagaSource() { return Object.defineProperty(fork(watch), "@@redux-saga/LOCATION", { value: { fileName: "src/root.js", lineNumber: 2, code: "fork(watch)" } }); })()` + "\n" +
	`} Object.defineProperty(root, "@@redux-saga/LOCATION", { value: { fileName: "src/root.js", lineNumber: 1 } });` + "\n"

const inlineMap = "//# sourceMappingURL=data:application/json;base64,eyJ2ZXJzaW9uIjozLCJzb3VyY2VzIjpbIm9yaWcuanMiXSwibmFtZXMiOltdLCJtYXBwaW5ncyI6IkFBQUEifQ=="

func writeFiles(t *testing.T, root string, files map[string]string) {
	for name, content := range files {
		location := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(location), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(location, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, location string) string {
	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func testFiles() map[string]string {
	return map[string]string{
		"src/root.js":               rootSaga,
		"src/util.js":               "export const add = (a, b) => a + b\n",
		"src/compiled.js":           "function* saga() {\n\n\n\n\n\n\n\n\n  yield call(fn, 1)\n}\n",
		"src/compiled.js.map":       `{"version":3,"sources":["orig.js"],"names":[],"mappings":"AACA;;;;;;;;;QACA"}`,
		"src/inline.js":             "function* g() {}\n" + inlineMap + "\n",
		"node_modules/lib/index.js": "function* skipped() {}\n",
		"README.md":                 "# app\n",
	}
}

func TestService_Process(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, testFiles())
	service := New(annotator.New(annotator.WithUseSymbol(false), annotator.WithBasePath(root)))

	report, err := service.Process(context.Background(), root)
	if !assert.Nil(t, err) {
		return
	}
	var paths []string
	for _, file := range report.Files {
		paths = append(paths, file.Path)
	}
	assert.Equal(t, []string{"src/compiled.js", "src/inline.js", "src/root.js", "src/util.js"}, paths)
	assert.Equal(t, 4, report.Annotated())
	assert.Equal(t, 3, report.Declarations())
	assert.Equal(t, 2, report.Effects())

	assert.Equal(t, rootSagaAnnotated, readFile(t, filepath.Join(root, "src/root.js")))
	assert.Equal(t, "export const add = (a, b) => a + b\n", readFile(t, filepath.Join(root, "src/util.js")))
	assert.Equal(t, "function* skipped() {}\n", readFile(t, filepath.Join(root, "node_modules/lib/index.js")))

	compiled := report.Files[0]
	assert.Equal(t, "compiled.js.map", compiled.SourceMap)
	if assert.Len(t, compiled.Annotations, 2) {
		assert.Equal(t, "src/compiled.js (orig.js)", compiled.Annotations[0].Location.FileName)
		assert.Equal(t, 2, compiled.Annotations[0].Location.LineNumber)
		assert.Equal(t, 3, compiled.Annotations[1].Location.LineNumber)
		assert.Equal(t, "call(fn, 1)", compiled.Annotations[1].Code)
	}
	inline := report.Files[1]
	assert.Equal(t, "inline", inline.SourceMap)
	if assert.Len(t, inline.Annotations, 1) {
		assert.Equal(t, "src/inline.js (orig.js)", inline.Annotations[0].Location.FileName)
		assert.Equal(t, 1, inline.Annotations[0].Location.LineNumber)
	}

	again, err := service.Process(context.Background(), root)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 4, again.Skipped())
	assert.Equal(t, rootSagaAnnotated, readFile(t, filepath.Join(root, "src/root.js")))
}

func TestService_Process_OutDir(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFiles(t, root, map[string]string{"src/root.js": rootSaga})
	service := New(annotator.New(annotator.WithUseSymbol(false), annotator.WithBasePath(root)),
		WithOutDir(out), WithSourceMaps(false), WithConcurrency(1))

	report, err := service.Process(context.Background(), root)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 1, report.Annotated())
	assert.Equal(t, rootSaga, readFile(t, filepath.Join(root, "src/root.js")))
	assert.Equal(t, rootSagaAnnotated, readFile(t, filepath.Join(out, "src/root.js")))
	_, err = os.Stat(filepath.Join(out, ".sagaloc-manifest.yaml"))
	assert.Nil(t, err)
}

func TestService_Process_SingleFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/root.js": rootSaga})
	service := New(annotator.New(annotator.WithUseSymbol(false), annotator.WithBasePath(root)), WithManifest(""))

	report, err := service.Process(context.Background(), filepath.Join(root, "src/root.js"))
	if !assert.Nil(t, err) {
		return
	}
	if assert.Len(t, report.Files, 1) {
		assert.Equal(t, "root.js", report.Files[0].Path)
	}
	assert.Equal(t, rootSagaAnnotated, readFile(t, filepath.Join(root, "src/root.js")))
}

func TestService_Annotate(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"src/root.js": rootSaga})
	service := New(annotator.New(annotator.WithUseSymbol(false), annotator.WithBasePath(root)))

	result, err := service.Annotate(context.Background(), filepath.Join(root, "src/root.js"))
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, rootSagaAnnotated, string(result.Code))
	assert.Equal(t, rootSaga, readFile(t, filepath.Join(root, "src/root.js")))
}

func TestService_Process_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		files       map[string]string
	}{
		{
			description: "syntax error",
			files:       map[string]string{"broken.js": "function* broken( {"},
		},
		{
			description: "missing referenced source map",
			files:       map[string]string{"a.js": "function* a() {}\n//# sourceMappingURL=missing.js.map\n"},
		},
		{
			description: "malformed source map",
			files:       map[string]string{"a.js": "function* a() {}\n", "a.js.map": "{"},
		},
	}
	for _, testCase := range testCases {
		root := t.TempDir()
		writeFiles(t, root, testCase.files)
		service := New(annotator.New())
		_, err := service.Process(context.Background(), root)
		assert.NotNil(t, err, testCase.description)
	}
}
