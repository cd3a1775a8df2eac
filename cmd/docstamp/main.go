package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kpauljoseph/docstamp/internal/config"
	"github.com/kpauljoseph/docstamp/internal/converter"
	"github.com/kpauljoseph/docstamp/pkg/logger"
	"github.com/kpauljoseph/docstamp/pkg/version"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "path to config file (optional)")
	input := flag.StringP("input", "i", config.DefaultInput, "input document (.xlsx, .xls or .docx)")
	output := flag.StringP("output", "o", config.DefaultOutput, "path of the generated PDF")
	rowsPerPage := flag.Int("rows-per-page", config.DefaultRowsPerPage, "table rows drawn on each page")
	backend := flag.String("backend", config.BackendInline, "watermark backend: inline or stamp")
	verbose := flag.BoolP("verbose", "v", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return
	}

	log := logger.New(logger.WithPrefix("[docstamp] "))
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	if *verbose {
		log.Debug("Verbose logging enabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}

	if flag.CommandLine.Changed("input") {
		cfg.Input = *input
	}
	if flag.CommandLine.Changed("output") {
		cfg.Output = *output
	}
	if flag.CommandLine.Changed("rows-per-page") {
		cfg.RowsPerPage = *rowsPerPage
	}
	if flag.CommandLine.Changed("backend") {
		cfg.Watermark.Backend = *backend
	}

	conv, err := converter.New(cfg, log)
	if err != nil {
		log.Fatal("Error initializing converter: %v", err)
	}

	stats, err := conv.Convert(ctx, cfg.Input, cfg.Output)
	if err != nil {
		log.Fatal("Error converting %s: %v", cfg.Input, err)
	}

	log.Debug("Processing complete:")
	log.Debug("- Rows: %d", stats.Rows)
	log.Debug("- Columns: %d", stats.Columns)
	log.Debug("- Pages: %d", stats.Pages)
	log.Debug("- Duration: %s", stats.Duration)

	fmt.Fprintf(os.Stdout, "PDF with watermark saved as %s\n", stats.Output)
}
