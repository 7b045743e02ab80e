package annotator

import (
	"io"
	"log/slog"
)

// Option represents annotator option
type Option func(*Annotator)

// WithUseSymbol sets whether metadata is attached under Symbol.for key (default) or plain string key
func WithUseSymbol(useSymbol bool) Option {
	return func(a *Annotator) {
		a.useSymbol = useSymbol
	}
}

// WithBasePath sets base path reported file names are made relative to
func WithBasePath(basePath string) Option {
	return func(a *Annotator) {
		a.basePath = basePath
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
