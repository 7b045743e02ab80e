package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/viant/sagaloc/annotator"
	"github.com/viant/sagaloc/config"
	"github.com/viant/sagaloc/repository"
	"github.com/viant/sagaloc/workspace"
)

var version = "dev"

var ErrStdoutRequiresSingleFile = errors.New("--stdout requires exactly one file")

var (
	pathFmt    = color.New(color.FgCyan).SprintFunc()
	countFmt   = color.New(color.FgGreen, color.Bold).SprintfFunc()
	skippedFmt = color.New(color.FgYellow).SprintFunc()
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
}

// CLI represents command line interface
type CLI struct {
	Config  string `help:"Configuration file" short:"c" default:".sagaloc.yaml"`
	Verbose bool   `help:"Enable debug logging" short:"v"`

	Annotate AnnotateCmd `cmd:"" help:"Annotate generator declarations and yielded effects with source location"`
	Version  VersionCmd  `cmd:"" help:"Print version"`
}

// AnnotateCmd represents the annotate command
type AnnotateCmd struct {
	Paths        []string `arg:"" help:"Files or directories to annotate" type:"path"`
	BasePath     string   `help:"Report file names relative to this path" type:"path"`
	DetectBase   bool     `help:"Use detected project root (package.json, .babelrc, .git) as base path"`
	NoSymbol     bool     `help:"Attach metadata under plain string key instead of Symbol.for key"`
	OutDir       string   `help:"Write annotated files to this directory instead of in place" type:"path"`
	NoSourceMaps bool     `help:"Do not look up input source maps"`
	Concurrency  int      `help:"Number of files processed in parallel"`
	Manifest     string   `help:"Manifest file name, '-' disables skipping unchanged files"`
	Stdout       bool     `help:"Print annotated code of a single file instead of writing it"`
}

// Run executes the annotate command
func (cmd *AnnotateCmd) Run(cliCtx *Context) error {
	ctx := context.Background()
	cfg, err := config.Load(ctx, cliCtx.Config)
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if cliCtx.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err = cmd.apply(cfg, logger); err != nil {
		return err
	}

	annotate := annotator.New(
		annotator.WithUseSymbol(cfg.UsesSymbol()),
		annotator.WithBasePath(cfg.BasePath),
		annotator.WithLogger(logger),
	)
	manifest := cfg.Manifest
	if manifest == "-" {
		manifest = ""
	}
	service := workspace.New(annotate,
		workspace.WithExtensions(cfg.Extensions...),
		workspace.WithExclude(cfg.Exclude...),
		workspace.WithOutDir(cfg.OutDir),
		workspace.WithSourceMaps(cfg.UsesSourceMaps()),
		workspace.WithConcurrency(cfg.Concurrency),
		workspace.WithManifest(manifest),
		workspace.WithLogger(logger),
	)

	if cmd.Stdout {
		if len(cmd.Paths) != 1 {
			return ErrStdoutRequiresSingleFile
		}
		result, err := service.Annotate(ctx, cmd.Paths[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(result.Code)
		return err
	}

	for _, location := range cmd.Paths {
		report, err := service.Process(ctx, location)
		if err != nil {
			return err
		}
		printReport(report)
	}
	return nil
}

func (cmd *AnnotateCmd) apply(cfg *config.Config, logger *slog.Logger) error {
	if cmd.BasePath != "" {
		cfg.BasePath = cmd.BasePath
	}
	if cmd.DetectBase && cfg.BasePath == "" && len(cmd.Paths) > 0 {
		project, err := repository.New().DetectProject(cmd.Paths[0])
		if err != nil {
			return fmt.Errorf("failed to detect project: %w", err)
		}
		cfg.BasePath = project.RootPath
		_, _ = color.New(color.FgCyan).Fprintf(os.Stderr, "Detected %s project %s at %s\n", project.Type, project.Name, project.RootPath)
		logger.Debug("detected project",
			slog.String("root", project.RootPath),
			slog.String("relativePath", project.RelativePath))
	}
	if cmd.NoSymbol {
		useSymbol := false
		cfg.UseSymbol = &useSymbol
	}
	if cmd.OutDir != "" {
		cfg.OutDir = cmd.OutDir
	}
	if cmd.NoSourceMaps {
		sourceMaps := false
		cfg.SourceMaps = &sourceMaps
	}
	if cmd.Concurrency > 0 {
		cfg.Concurrency = cmd.Concurrency
	}
	if cmd.Manifest != "" {
		cfg.Manifest = cmd.Manifest
	}
	return nil
}

func printReport(report *workspace.Report) {
	for _, file := range report.Files {
		if file.Skipped {
			fmt.Printf("  %s %s\n", pathFmt(file.Path), skippedFmt("unchanged"))
			continue
		}
		fmt.Printf("  %s %s\n", pathFmt(file.Path), countFmt("%d declarations, %d effects", file.Declarations, file.Effects))
	}
	fmt.Printf("%s: %s, %s\n", report.Root,
		countFmt("%d annotated", report.Annotated()),
		skippedFmt(fmt.Sprintf("%d unchanged", report.Skipped())))
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run prints version
func (cmd *VersionCmd) Run(*Context) error {
	fmt.Println("sagaloc", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sagaloc"),
		kong.Description("Injects source location metadata into redux-saga generators and effects"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&Context{Config: cli.Config, Verbose: cli.Verbose})
	ctx.FatalIfErrorf(err)
}
