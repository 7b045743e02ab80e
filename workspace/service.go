package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/sagaloc/annotator"
	"golang.org/x/sync/errgroup"
)

// Service annotates JavaScript files of a directory tree, each file is processed as its own compilation unit
type Service struct {
	annotator   *annotator.Annotator
	fs          afs.Service
	extensions  []string
	exclude     map[string]bool
	outDir      string
	sourceMaps  bool
	concurrency int
	manifest    string
	logger      *slog.Logger
}

// Process annotates a file or every matching file under a directory
func (s *Service) Process(ctx context.Context, root string) (*Report, error) {
	object, err := s.fs.Object(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", root, err)
	}
	baseURL := root
	var paths []string
	if object.IsDir() {
		if paths, err = s.collect(ctx, root); err != nil {
			return nil, err
		}
	} else {
		parent, name := url.Split(root, file.Scheme)
		baseURL, paths = parent, []string{name}
	}

	manifestURL := ""
	manifest := &Manifest{Files: map[string]*Entry{}}
	if s.manifest != "" {
		manifestURL = url.Join(s.outputBase(baseURL), s.manifest)
		if manifest, err = loadManifest(ctx, s.fs, manifestURL); err != nil {
			return nil, err
		}
	}
	options := s.fingerprint()

	report := &Report{Root: root, Files: make([]*FileReport, len(paths))}
	entries := make([]*Entry, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for i, relPath := range paths {
		group.Go(func() error {
			fileReport, entry, err := s.processFile(groupCtx, baseURL, relPath, manifest, options)
			if err != nil {
				return err
			}
			report.Files[i], entries[i] = fileReport, entry
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}

	if manifestURL != "" {
		manifest.Options = options
		for i, entry := range entries {
			if entry != nil {
				manifest.Put(paths[i], entry)
			}
		}
		if err = manifest.store(ctx, s.fs, manifestURL); err != nil {
			return nil, err
		}
	}
	s.logger.Info("processed",
		slog.String("root", root),
		slog.Int("files", len(report.Files)),
		slog.Int("annotated", report.Annotated()),
		slog.Int("skipped", report.Skipped()))
	return report, nil
}

// Annotate annotates a single file and returns annotated code without writing it
func (s *Service) Annotate(ctx context.Context, URL string) (*annotator.Result, error) {
	src, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	baseURL, name := url.Split(URL, file.Scheme)
	sourceMap, _, err := s.inputSourceMap(ctx, baseURL, name, src)
	if err != nil {
		return nil, err
	}
	return s.annotator.Annotate(ctx, src, &annotator.File{Name: url.Path(URL), InputSourceMap: sourceMap})
}

func (s *Service) processFile(ctx context.Context, baseURL, relPath string, manifest *Manifest, options string) (*FileReport, *Entry, error) {
	URL := url.Join(baseURL, relPath)
	src, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	digest, err := Digest(src)
	if err != nil {
		return nil, nil, err
	}
	fileReport := &FileReport{Path: relPath}
	if manifest.Unchanged(relPath, digest, options) {
		fileReport.Skipped = true
		s.logger.Debug("unchanged", slog.String("path", relPath))
		return fileReport, manifest.Files[relPath], nil
	}
	sourceMap, sourceMapRef, err := s.inputSourceMap(ctx, baseURL, relPath, src)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.annotator.Annotate(ctx, src, &annotator.File{Name: url.Path(URL), InputSourceMap: sourceMap})
	if err != nil {
		return nil, nil, err
	}
	destURL := url.Join(s.outputBase(baseURL), relPath)
	if err = s.fs.Upload(ctx, destURL, file.DefaultFileOsMode, bytes.NewReader(result.Code)); err != nil {
		return nil, nil, fmt.Errorf("failed to write %s: %w", destURL, err)
	}
	outputDigest, err := Digest(result.Code)
	if err != nil {
		return nil, nil, err
	}
	fileReport.Output = destURL
	fileReport.SourceMap = sourceMapRef
	fileReport.Declarations = result.Count(annotator.KindDeclaration)
	fileReport.Effects = result.Count(annotator.KindEffect)
	fileReport.Annotations = result.Annotations
	return fileReport, &Entry{Input: digest, Output: outputDigest}, nil
}

// collect returns sorted paths, relative to root, of files with matching extension
func (s *Service) collect(ctx context.Context, root string) ([]string, error) {
	var paths []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !s.exclude[info.Name()], nil
		}
		if info.Name() == s.manifest || !s.matches(info.Name()) {
			return true, nil
		}
		paths = append(paths, path.Join(parent, info.Name()))
		return true, nil
	}
	if err := s.fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Service) matches(name string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (s *Service) outputBase(baseURL string) string {
	if s.outDir == "" {
		return baseURL
	}
	return s.outDir
}

// fingerprint identifies options that change annotated output
func (s *Service) fingerprint() string {
	return "useSymbol=" + strconv.FormatBool(s.annotator.UseSymbol()) +
		";basePath=" + s.annotator.BasePath() +
		";sourceMaps=" + strconv.FormatBool(s.sourceMaps) +
		";outDir=" + s.outDir
}

// New creates workspace service
func New(annotate *annotator.Annotator, options ...Option) *Service {
	ret := &Service{
		annotator:   annotate,
		fs:          afs.New(),
		extensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
		exclude:     map[string]bool{"node_modules": true, ".git": true},
		sourceMaps:  true,
		concurrency: 4,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
