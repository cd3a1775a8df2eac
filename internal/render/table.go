package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

var ErrNoColumns = errors.New("table has no columns to render")

const ellipsis = "…"

// Options controls the figure geometry. Lengths are in inches unless noted.
type Options struct {
	FontSize    float64 // points
	RowScale    float64
	DPI         float64
	FigureWidth float64
	// AxesFraction is the share of the figure width covered by the table.
	AxesFraction float64
	Padding      float64
	BoldHeader   bool
}

func DefaultOptions() Options {
	return Options{
		FontSize:     9,
		RowScale:     1.2,
		DPI:          150,
		FigureWidth:  12,
		AxesFraction: 0.775,
		Padding:      0.1,
	}
}

type TableRenderer struct {
	opts    Options
	regular *opentype.Font
	bold    *opentype.Font
}

func NewTableRenderer(opts Options) (*TableRenderer, error) {
	if opts.FontSize <= 0 || opts.RowScale <= 0 || opts.DPI <= 0 || opts.FigureWidth <= 0 {
		return nil, fmt.Errorf("invalid render options: %+v", opts)
	}
	if opts.AxesFraction <= 0 || opts.AxesFraction > 1 {
		opts.AxesFraction = DefaultOptions().AxesFraction
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &TableRenderer{opts: opts, regular: regular, bold: bold}, nil
}

func (r *TableRenderer) Options() Options {
	return r.opts
}

// layout holds pixel geometry for one chunk.
type layout struct {
	canvas  image.Rectangle
	origin  image.Point
	colW    float64
	rowH    int
	rows    int
	cols    int
	cellPad float64
}

func (r *TableRenderer) layout(t *models.Table) layout {
	dpi := r.opts.DPI
	px := dpi / 72

	rows := t.Len() + 1
	cols := t.Width()
	rowH := int(math.Round(r.opts.FontSize * 2 * r.opts.RowScale * px))

	figW := int(math.Round(r.opts.FigureWidth * dpi))
	tableW := float64(figW) * r.opts.AxesFraction
	tableH := rows * rowH
	pad := int(math.Round(r.opts.Padding * dpi))

	figH := int(math.Round((float64(t.Len())*0.3 + 1) * dpi))
	if figH < tableH+2*pad {
		figH = tableH + 2*pad
	}

	return layout{
		canvas:  image.Rect(0, 0, figW, figH),
		origin:  image.Pt(int(math.Round((float64(figW)-tableW)/2)), (figH-tableH)/2),
		colW:    tableW / float64(cols),
		rowH:    rowH,
		rows:    rows,
		cols:    cols,
		cellPad: r.opts.FontSize * 0.5 * px,
	}
}

// Render draws the header and rows of t and returns the cropped bitmap.
func (r *TableRenderer) Render(t *models.Table) (image.Image, error) {
	if t.Width() == 0 {
		return nil, ErrNoColumns
	}

	faceOpts := &opentype.FaceOptions{Size: r.opts.FontSize, DPI: r.opts.DPI, Hinting: font.HintingFull}
	body, err := opentype.NewFace(r.regular, faceOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer body.Close()

	header := body
	if r.opts.BoldHeader {
		header, err = opentype.NewFace(r.bold, faceOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to create header font face: %w", err)
		}
		defer header.Close()
	}

	l := r.layout(t)
	canvas := image.NewRGBA(l.canvas)
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	r.drawGrid(canvas, l)

	for c, name := range t.Columns {
		drawCellText(canvas, header, l, 0, c, name)
	}
	for i, row := range t.Rows {
		for c, value := range row {
			drawCellText(canvas, body, l, i+1, c, value)
		}
	}

	pad := int(math.Round(r.opts.Padding * r.opts.DPI))
	return Crop(canvas, color.White, pad), nil
}

func (r *TableRenderer) drawGrid(dst *image.RGBA, l layout) {
	lw := int(math.Max(1, math.Round(r.opts.DPI/100)))
	left := l.origin.X
	right := l.origin.X + int(math.Round(l.colW*float64(l.cols)))
	top := l.origin.Y
	bottom := l.origin.Y + l.rows*l.rowH

	for i := 0; i <= l.rows; i++ {
		y := top + i*l.rowH
		fillRect(dst, image.Rect(left, y, right+lw, y+lw))
	}
	for c := 0; c <= l.cols; c++ {
		x := left + int(math.Round(l.colW*float64(c)))
		fillRect(dst, image.Rect(x, top, x+lw, bottom+lw))
	}
}

func fillRect(dst *image.RGBA, r image.Rectangle) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.Black, image.Point{}, draw.Src)
}

func drawCellText(dst *image.RGBA, face font.Face, l layout, row, col int, text string) {
	text = singleLine(text)
	if text == "" {
		return
	}

	maxW := fixed.Int26_6((l.colW - 2*l.cellPad) * 64)
	text = fitText(face, text, maxW)
	if text == "" {
		return
	}

	width := font.MeasureString(face, text)
	metrics := face.Metrics()

	cellX := float64(l.origin.X) + l.colW*float64(col)
	cellY := l.origin.Y + row*l.rowH

	x := fixed.Int26_6(cellX*64) + (fixed.Int26_6(l.colW*64)-width)/2
	y := fixed.I(cellY) + (fixed.I(l.rowH)+metrics.Ascent-metrics.Descent)/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fitText shortens s with a trailing ellipsis until it is at most maxW wide.
func fitText(face font.Face, s string, maxW fixed.Int26_6) string {
	if font.MeasureString(face, s) <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if font.MeasureString(face, candidate) <= maxW {
			return candidate
		}
	}
	return ""
}

// EncodePNG serializes a rendered chunk for the PDF writer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode table image: %w", err)
	}
	return buf.Bytes(), nil
}
