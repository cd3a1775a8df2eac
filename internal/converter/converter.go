// Package converter runs the load, render and verify stages for one input
// document.
package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kpauljoseph/docstamp/internal/config"
	"github.com/kpauljoseph/docstamp/internal/loader"
	"github.com/kpauljoseph/docstamp/internal/pdf"
	"github.com/kpauljoseph/docstamp/internal/render"
	"github.com/kpauljoseph/docstamp/pkg/logger"
	"github.com/kpauljoseph/docstamp/pkg/models"
	"github.com/kpauljoseph/docstamp/pkg/version"
)

const outputMode os.FileMode = 0o644

// Stats describes one finished conversion.
type Stats struct {
	Input    string
	Output   string
	Format   loader.Format
	Rows     int
	Columns  int
	Pages    int
	Duration time.Duration
}

type Converter struct {
	logger   *logger.Logger
	renderer *render.TableRenderer
	opts     pdf.Options
	stamper  pdf.DocumentStamper
}

func New(cfg *config.Config, log *logger.Logger) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	dim, err := cfg.PageDimensions()
	if err != nil {
		return nil, err
	}

	opts := render.DefaultOptions()
	opts.FontSize = cfg.Image.FontSize
	opts.RowScale = cfg.Image.RowScale
	opts.DPI = cfg.Image.DPI
	opts.BoldHeader = cfg.Image.BoldHeader
	renderer, err := render.NewTableRenderer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize table renderer: %w", err)
	}

	wm := pdf.Watermark{
		Text:     cfg.Watermark.Text,
		Font:     cfg.Watermark.Font,
		Size:     cfg.Watermark.Size,
		Rotation: cfg.Watermark.Rotation,
		Opacity:  cfg.Watermark.Opacity,
		Gray:     cfg.Watermark.Gray,
	}

	creator := cfg.PDF.Creator
	if creator == "" {
		creator = version.GetVersionInfo()
	}

	wopts := pdf.Options{
		Layout: pdf.Layout{
			Page:      dim,
			OffsetX:   cfg.Image.OffsetX,
			OffsetY:   cfg.Image.OffsetY,
			Margin:    cfg.Image.Margin,
			TopMargin: cfg.Image.TopMargin,
		},
		RowsPerPage: cfg.RowsPerPage,
		Compat13:    cfg.PDF.Compat == config.CompatPDF13,
		Title:       cfg.PDF.Title,
		Creator:     creator,
	}

	c := &Converter{logger: log, renderer: renderer}

	switch cfg.Watermark.Backend {
	case config.BackendStamp:
		c.stamper = pdf.NewPDFCPUStamper(wm)
	default:
		wopts.Watermark = &wm
	}

	c.opts = wopts
	if _, err := c.newWriter(""); err != nil {
		return nil, err
	}

	return c, nil
}

// newWriter builds the page writer for one input. The document title falls
// back to the input file name.
func (c *Converter) newWriter(in string) (pdf.TableWriter, error) {
	opts := c.opts
	if opts.Title == "" && in != "" {
		opts.Title = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}
	w, err := pdf.NewWriter(opts, c.renderer, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDF writer: %w", err)
	}
	return w, nil
}

// Convert turns the document at in into a watermarked PDF at out. The output
// file appears only when every stage succeeds.
func (c *Converter) Convert(ctx context.Context, in, out string) (Stats, error) {
	start := time.Now()
	stats := Stats{Input: in, Output: out}

	format, err := loader.DetectFormat(in)
	if err != nil {
		return stats, err
	}
	stats.Format = format

	c.logger.Info("Reading %s as %s", in, format)
	table, err := loader.Load(ctx, in)
	if err != nil {
		return stats, err
	}
	stats.Rows = table.Len()
	stats.Columns = table.Width()
	c.logger.Debug("Loaded %d rows x %d columns: %s", stats.Rows, stats.Columns, strings.Join(table.Columns, ", "))

	writer, err := c.newWriter(in)
	if err != nil {
		return stats, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return stats, fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	result, err := c.writeDocument(ctx, writer, table, tmp)
	if err == nil {
		// CreateTemp opens files 0600; the output is an ordinary document.
		if chmodErr := tmp.Chmod(outputMode); chmodErr != nil {
			err = fmt.Errorf("failed to set output permissions: %w", chmodErr)
		}
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close temporary output: %w", closeErr)
	}
	if err != nil {
		return stats, err
	}

	report, err := pdf.Verify(tmpPath)
	if err != nil {
		return stats, err
	}
	if err := report.ExpectPages(result.Pages); err != nil {
		return stats, err
	}

	if err := os.Rename(tmpPath, out); err != nil {
		return stats, fmt.Errorf("failed to move output into place: %w", err)
	}
	committed = true

	stats.Pages = report.Pages
	stats.Duration = time.Since(start)
	c.logger.Debug("Wrote %d pages in %s", stats.Pages, stats.Duration)
	return stats, nil
}

func (c *Converter) writeDocument(ctx context.Context, writer pdf.TableWriter, table *models.Table, f *os.File) (pdf.Result, error) {
	if c.stamper == nil {
		return writer.Write(ctx, table, f)
	}

	plain, err := os.CreateTemp(filepath.Dir(f.Name()), ".unstamped.*.tmp")
	if err != nil {
		return pdf.Result{}, fmt.Errorf("failed to create temporary output: %w", err)
	}
	defer os.Remove(plain.Name())
	defer plain.Close()

	result, err := writer.Write(ctx, table, plain)
	if err != nil {
		return result, err
	}
	if _, err := plain.Seek(0, io.SeekStart); err != nil {
		return result, fmt.Errorf("failed to rewind temporary output: %w", err)
	}

	if err := c.stamper.Stamp(plain, f); err != nil {
		return result, err
	}
	result.Translucent = c.stamper.SupportsOpacity()
	return result, nil
}
