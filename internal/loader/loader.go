// Package loader reads spreadsheet and word-processing documents into a
// models.Table.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

var (
	ErrUnsupportedFormat = errors.New("only .xlsx, .xls and .docx files are supported")
	ErrEmptyDocument     = errors.New("no text or tables found in document")
)

// Format identifies which reader handles a file.
type Format int

const (
	FormatUnknown Format = iota
	FormatSpreadsheet
	FormatLegacySpreadsheet
	FormatDocument
)

func (f Format) String() string {
	switch f {
	case FormatSpreadsheet:
		return "spreadsheet"
	case FormatLegacySpreadsheet:
		return "legacy spreadsheet"
	case FormatDocument:
		return "document"
	default:
		return "unknown"
	}
}

var extensions = map[string]Format{
	".xlsx": FormatSpreadsheet,
	".xls":  FormatLegacySpreadsheet,
	".docx": FormatDocument,
}

// SupportedExtensions lists the recognized input extensions.
func SupportedExtensions() []string {
	return []string{".xlsx", ".xls", ".docx"}
}

// DetectFormat inspects the file extension only; the file is not opened.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return FormatUnknown, fmt.Errorf("%w: got %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// Load reads path with the reader selected by its extension.
func Load(ctx context.Context, path string) (*models.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatSpreadsheet:
		return ReadSpreadsheet(path)
	case FormatLegacySpreadsheet:
		return ReadLegacySpreadsheet(path)
	default:
		return ReadDocument(path)
	}
}
