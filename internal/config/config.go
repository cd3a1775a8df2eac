// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

const (
	DefaultInput       = "input.docx"
	DefaultOutput      = "demo_with_watermark.pdf"
	DefaultRowsPerPage = 40

	BackendInline = "inline"
	BackendStamp  = "stamp"

	CompatDefault = ""
	CompatPDF13   = "pdf13"
)

var (
	ErrInvalidRowsPerPage = errors.New("rows_per_page must be positive")
	ErrInvalidPageSize    = errors.New("unknown page size")
	ErrInvalidOpacity     = errors.New("watermark opacity must be within [0, 1]")
	ErrInvalidGray        = errors.New("watermark gray must be within [0, 1]")
	ErrInvalidBackend     = errors.New("unknown watermark backend")
	ErrInvalidCompat      = errors.New("unknown pdf compat mode")
	ErrInvalidImage       = errors.New("invalid image placement")
	ErrInvalidFontSize    = errors.New("watermark size must be positive")
)

type Page struct {
	Size   string  `yaml:"size"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Image struct {
	OffsetX    float64 `yaml:"offset_x"`
	OffsetY    float64 `yaml:"offset_y"`
	Margin     float64 `yaml:"margin"`
	TopMargin  float64 `yaml:"top_margin"`
	DPI        float64 `yaml:"dpi"`
	FontSize   float64 `yaml:"font_size"`
	RowScale   float64 `yaml:"row_scale"`
	BoldHeader bool    `yaml:"bold_header"`
}

type Watermark struct {
	Text     string  `yaml:"text"`
	Font     string  `yaml:"font"`
	Size     float64 `yaml:"size"`
	Rotation float64 `yaml:"rotation"`
	Opacity  float64 `yaml:"opacity"`
	Gray     float64 `yaml:"gray"`
	Backend  string  `yaml:"backend"`
}

type PDF struct {
	Compat  string `yaml:"compat"`
	Title   string `yaml:"title"`
	Creator string `yaml:"creator"`
}

type Config struct {
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output"`
	RowsPerPage int       `yaml:"rows_per_page"`
	Page        Page      `yaml:"page"`
	Image       Image     `yaml:"image"`
	Watermark   Watermark `yaml:"watermark"`
	PDF         PDF       `yaml:"pdf"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:       DefaultInput,
		Output:      DefaultOutput,
		RowsPerPage: DefaultRowsPerPage,
		Page:        Page{Size: "A4"},
		Image: Image{
			OffsetX:   30,
			OffsetY:   100,
			Margin:    60,
			TopMargin: 30,
			DPI:       150,
			FontSize:  9,
			RowScale:  1.2,
		},
		Watermark: Watermark{
			Text:     "M&N Digital",
			Font:     "Helvetica-Bold",
			Size:     50,
			Rotation: 45,
			Opacity:  0.3,
			Gray:     0.9,
			Backend:  BackendInline,
		},
	}
}

// Load reads a YAML file over Default, so keys missing from the file keep
// their default and explicit zero values are honoured.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// applyDefaults restores names that were set to an empty string; an empty
// name never means anything.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Input == "" {
		c.Input = def.Input
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Page.Size == "" && (c.Page.Width <= 0 || c.Page.Height <= 0) {
		c.Page.Size = def.Page.Size
	}
	if c.Watermark.Text == "" {
		c.Watermark.Text = def.Watermark.Text
	}
	if c.Watermark.Font == "" {
		c.Watermark.Font = def.Watermark.Font
	}
	if c.Watermark.Backend == "" {
		c.Watermark.Backend = def.Watermark.Backend
	}
}

// PageDimensions resolves the configured page format. Explicit width and
// height win over a named size.
func (c *Config) PageDimensions() (models.PageDimensions, error) {
	if c.Page.Width > 0 && c.Page.Height > 0 {
		return models.PageDimensions{Width: c.Page.Width, Height: c.Page.Height}, nil
	}
	dim, ok := models.PageSizes[c.Page.Size]
	if !ok {
		return models.PageDimensions{}, fmt.Errorf("%w: %q", ErrInvalidPageSize, c.Page.Size)
	}
	return dim, nil
}

func (c *Config) Validate() error {
	if c.RowsPerPage < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRowsPerPage, c.RowsPerPage)
	}
	dim, err := c.PageDimensions()
	if err != nil {
		return err
	}
	if c.Image.Margin >= dim.Width || c.Image.OffsetY >= dim.Height {
		return fmt.Errorf("%w: margins exceed the %gx%g page", ErrInvalidImage, dim.Width, dim.Height)
	}
	if c.Image.DPI <= 0 || c.Image.FontSize <= 0 || c.Image.RowScale <= 0 {
		return fmt.Errorf("%w: dpi, font_size and row_scale must be positive", ErrInvalidImage)
	}
	if c.Image.OffsetX < 0 || c.Image.OffsetY < 0 || c.Image.Margin < 0 || c.Image.TopMargin < 0 {
		return fmt.Errorf("%w: offsets and margins must not be negative", ErrInvalidImage)
	}
	if c.Watermark.Size <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidFontSize, c.Watermark.Size)
	}
	if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidOpacity, c.Watermark.Opacity)
	}
	if c.Watermark.Gray < 0 || c.Watermark.Gray > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidGray, c.Watermark.Gray)
	}
	switch c.Watermark.Backend {
	case BackendInline, BackendStamp:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Watermark.Backend)
	}
	switch c.PDF.Compat {
	case CompatDefault, CompatPDF13:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCompat, c.PDF.Compat)
	}
	return nil
}
