package pdf

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var ErrPageCountMismatch = errors.New("page count does not match row chunks")

// Report describes a PDF file as read back from disk.
type Report struct {
	Pages      int
	Dimensions []types.Dim
}

// Verify validates the file at path and reads its page count and sizes.
func Verify(path string) (Report, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return Report{}, fmt.Errorf("failed to validate %s: %w", path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get page dimensions of %s: %w", path, err)
	}

	return Report{Pages: pages, Dimensions: dims}, nil
}

// ExpectPages returns ErrPageCountMismatch unless the report has n pages.
func (r Report) ExpectPages(n int) error {
	if r.Pages != n {
		return fmt.Errorf("%w: file has %d, expected %d", ErrPageCountMismatch, r.Pages, n)
	}
	return nil
}
