package pdf

import (
	"context"
	"io"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

// TableWriter renders a table as a paginated PDF document.
type TableWriter interface {
	Write(ctx context.Context, table *models.Table, w io.Writer) (Result, error)
}

// Canvas is the drawing surface a watermark is painted on. *fpdf.Fpdf
// satisfies it.
type Canvas interface {
	SetFont(familyStr, styleStr string, size float64)
	SetTextColor(r, g, b int)
	GetStringWidth(s string) float64
	TransformBegin()
	TransformRotate(angle, x, y float64)
	TransformEnd()
	Text(x, y float64, txtStr string)
}

// AlphaCanvas is a Canvas that may be able to paint with partial opacity.
// SupportsAlpha reports whether the target document allows it.
type AlphaCanvas interface {
	Canvas
	SupportsAlpha() bool
	SetAlpha(alpha float64, blendModeStr string)
}

// DocumentStamper applies a watermark to every page of a finished PDF.
type DocumentStamper interface {
	Stamp(in io.ReadSeeker, out io.Writer) error
	SupportsOpacity() bool
}
