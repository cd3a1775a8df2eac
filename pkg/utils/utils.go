package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaultPreviewDir creates a scratch directory for page previews.
func GetDefaultPreviewDir() string {
	tmpDir, err := os.MkdirTemp("", "docstamp-preview-*")
	if err != nil {
		// If we can't create a temp directory, fall back to local directory
		return "docstamp-preview"
	}
	return tmpDir
}

// PreviewPath names the PNG preview of a 0-based page index.
func PreviewPath(dir, pdfPath string, page int) string {
	base := filepath.Base(pdfPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, fmt.Sprintf("%s_page%03d.png", base, page+1))
}
