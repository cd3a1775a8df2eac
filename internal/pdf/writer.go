package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/kpauljoseph/docstamp/internal/render"
	"github.com/kpauljoseph/docstamp/pkg/logger"
	"github.com/kpauljoseph/docstamp/pkg/models"
)

// Layout fixes where a chunk image lands on the page, in points.
type Layout struct {
	Page models.PageDimensions
	// OffsetX and OffsetY are measured from the left and bottom page edges.
	OffsetX float64
	OffsetY float64
	// Margin is the total horizontal space left free around the image.
	Margin    float64
	TopMargin float64
}

func DefaultLayout() Layout {
	return Layout{
		Page:      models.A4,
		OffsetX:   30,
		OffsetY:   100,
		Margin:    60,
		TopMargin: 30,
	}
}

// Placement is the image rectangle on a page in top-left page coordinates.
type Placement struct {
	X, Y, W, H float64
}

// Place scales an image of the given pixel size to the available width,
// keeping its aspect ratio, with its bottom edge OffsetY above the page
// bottom. An image too tall for the page is shrunk to fit under TopMargin
// and centered horizontally.
func (l Layout) Place(imgW, imgH float64) Placement {
	availW := l.Page.Width - l.Margin
	availH := l.Page.Height - l.OffsetY - l.TopMargin

	w := availW
	h := w * imgH / imgW
	if h > availH {
		h = availH
		w = h * imgW / imgH
	}

	return Placement{
		X: l.OffsetX + (availW-w)/2,
		Y: l.Page.Height - l.OffsetY - h,
		W: w,
		H: h,
	}
}

type Options struct {
	Layout      Layout
	RowsPerPage int
	// Watermark is drawn while composing each page. Leave nil when a
	// DocumentStamper applies it afterwards.
	Watermark *Watermark
	// Compat13 restricts output to PDF 1.3, which has no transparency.
	Compat13 bool
	Title    string
	Creator  string
}

// Result summarizes a written document.
type Result struct {
	Pages       int
	Rows        int
	Translucent bool
}

// Writer composes one page per row chunk: the chunk image near the bottom of
// the page and the watermark over it.
type Writer struct {
	opts     Options
	renderer *render.TableRenderer
	logger   *logger.Logger
}

func NewWriter(opts Options, renderer *render.TableRenderer, log *logger.Logger) (*Writer, error) {
	if renderer == nil {
		return nil, errors.New("pdf writer needs a table renderer")
	}
	if opts.RowsPerPage < 1 {
		return nil, fmt.Errorf("rows per page must be positive, got %d", opts.RowsPerPage)
	}
	if opts.Layout.Page.Width <= 0 || opts.Layout.Page.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %gx%g", opts.Layout.Page.Width, opts.Layout.Page.Height)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Writer{opts: opts, renderer: renderer, logger: log}, nil
}

// fpdfCanvas adds the opacity capability check to *fpdf.Fpdf.
type fpdfCanvas struct {
	*fpdf.Fpdf
	alpha bool
}

func (c fpdfCanvas) SupportsAlpha() bool {
	return c.alpha
}

func (w *Writer) newDocument() *fpdf.Fpdf {
	page := w.opts.Layout.Page
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	if w.opts.Title != "" {
		doc.SetTitle(w.opts.Title, true)
	}
	if w.opts.Creator != "" {
		doc.SetCreator(w.opts.Creator, true)
	}
	return doc
}

// Write renders table to out. An empty table still produces one page.
func (w *Writer) Write(ctx context.Context, table *models.Table, out io.Writer) (Result, error) {
	doc := w.newDocument()
	canvas := fpdfCanvas{Fpdf: doc, alpha: !w.opts.Compat13}
	page := w.opts.Layout.Page

	if w.opts.Watermark != nil && !canvas.SupportsAlpha() {
		w.logger.Warn("PDF 1.3 output has no transparency; watermark is drawn opaque")
	}

	result := Result{Rows: table.Len()}
	for _, chunk := range table.Chunks(w.opts.RowsPerPage) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})

		if err := w.drawChunk(doc, chunk); err != nil {
			return result, fmt.Errorf("failed to draw page %d: %w", chunk.Index+1, err)
		}

		if w.opts.Watermark != nil {
			result.Translucent = w.opts.Watermark.Draw(canvas, page)
		}

		if err := doc.Error(); err != nil {
			return result, fmt.Errorf("failed to compose page %d: %w", chunk.Index+1, err)
		}

		result.Pages++
		w.logger.Debug("Page %d: rows %d-%d", chunk.Index+1, chunk.Start+1, chunk.End)
	}

	if err := doc.Output(out); err != nil {
		return result, fmt.Errorf("failed to write PDF: %w", err)
	}
	return result, nil
}

func (w *Writer) drawChunk(doc *fpdf.Fpdf, chunk models.Chunk) error {
	if chunk.Table.Width() == 0 {
		w.logger.Debug("Page %d: table has no columns, drawing watermark only", chunk.Index+1)
		return nil
	}

	img, err := w.renderer.Render(chunk.Table)
	if err != nil {
		return err
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("chunk-%d", chunk.Index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := doc.Error(); err != nil {
		return err
	}

	bounds := img.Bounds()
	p := w.opts.Layout.Place(float64(bounds.Dx()), float64(bounds.Dy()))
	doc.ImageOptions(name, p.X, p.Y, p.W, p.H, false, opts, 0, "")

	w.logger.Trace("Page %d: image %dx%d px placed at %.1f,%.1f size %.1fx%.1f (registered %.0fx%.0f)",
		chunk.Index+1, bounds.Dx(), bounds.Dy(), p.X, p.Y, p.W, p.H, info.Width(), info.Height())
	return doc.Error()
}
