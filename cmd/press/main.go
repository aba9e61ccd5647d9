package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	press "github.com/goliatone/go-press"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("press: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("press", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	sourceDir := fs.String("source", "", "Posts directory (overrides config)")
	outputDir := fs.String("output", "", "Output directory (overrides config)")
	baseURL := fs.String("base-url", "", "Site base URL (overrides config)")
	permalink := fs.String("permalink", "", "Permalink pattern, e.g. /:year/:month/:day/:title/")
	workers := fs.Int("workers", 0, "Worker pool size (0 = NumCPU)")
	strict := fs.Bool("strict", false, "Treat any fatal or soft finding as build-breaking")
	dryRun := fs.Bool("dry-run", false, "Render without writing artifacts")
	watch := fs.Bool("watch", false, "Rebuild on source changes")
	clean := fs.Bool("clean", false, "Remove previous artifacts before building")
	logLevel := fs.String("log-level", "", "Log level (trace|debug|info|warn|error|fatal)")
	logFormat := fs.String("log-format", "", "Log format (json|console|pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := press.DefaultConfig()
	if *configPath != "" {
		loaded, err := press.LoadFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *permalink != "" {
		cfg.PermalinkPattern = *permalink
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *strict {
		cfg.Strict = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	site, err := press.New(cfg)
	if err != nil {
		return fmt.Errorf("configure pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *clean {
		if err := site.Clean(ctx); err != nil {
			return err
		}
	}

	if *watch {
		return site.Watch(ctx, press.WatchOptions{
			Build: press.BuildOptions{DryRun: *dryRun},
			OnBuild: func(result *press.BuildResult, err error) {
				if result != nil {
					reportFindings(result)
				}
			},
		})
	}

	result, err := site.Build(ctx, press.BuildOptions{DryRun: *dryRun})
	if result != nil {
		reportFindings(result)
		fmt.Fprintf(os.Stdout, "built %d pages from %d documents in %s\n",
			len(result.Pages), len(result.Documents), result.Duration)
	}
	return err
}

func reportFindings(result *press.BuildResult) {
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "error [%s] %s: %v\n", diag.Code, diag.Path, diag.Err)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning [%s] %s: %s\n", warning.Code, warning.Path, warning.Detail)
	}
}
