package workspace

import (
	"log/slog"
	"strings"

	"github.com/viant/afs"
)

// Option represents workspace service option
type Option func(*Service)

// WithExtensions sets processed file extensions
func WithExtensions(extensions ...string) Option {
	return func(s *Service) {
		s.extensions = nil
		for _, ext := range extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			s.extensions = append(s.extensions, ext)
		}
	}
}

// WithExclude sets directory names that are not descended into
func WithExclude(names ...string) Option {
	return func(s *Service) {
		s.exclude = map[string]bool{}
		for _, name := range names {
			s.exclude[name] = true
		}
	}
}

// WithOutDir sets output location, files are annotated in place when empty
func WithOutDir(outDir string) Option {
	return func(s *Service) {
		s.outDir = outDir
	}
}

// WithSourceMaps sets whether input source maps are discovered
func WithSourceMaps(enabled bool) Option {
	return func(s *Service) {
		s.sourceMaps = enabled
	}
}

// WithConcurrency sets number of files processed in parallel
func WithConcurrency(concurrency int) Option {
	return func(s *Service) {
		if concurrency > 0 {
			s.concurrency = concurrency
		}
	}
}

// WithManifest sets manifest file name, empty disables manifest
func WithManifest(name string) Option {
	return func(s *Service) {
		s.manifest = name
	}
}

// WithFS sets file system service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
