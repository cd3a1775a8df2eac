package pdf

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

// Watermark describes the text stamped diagonally across every page.
type Watermark struct {
	Text     string
	Font     string // PostScript core font name, e.g. Helvetica-Bold
	Size     float64
	Rotation float64 // degrees, counter-clockwise
	Opacity  float64
	Gray     float64 // fill gray level, 0 black .. 1 white
}

func DefaultWatermark() Watermark {
	return Watermark{
		Text:     "M&N Digital",
		Font:     "Helvetica-Bold",
		Size:     50,
		Rotation: 45,
		Opacity:  0.3,
		Gray:     0.9,
	}
}

func (wm Watermark) grayLevel() int {
	return int(math.Round(wm.Gray * 255))
}

// Draw paints the watermark centered on the page and rotated about its
// center. Canvases that cannot paint with partial opacity get the plain
// gray fill at full opacity. It reports whether opacity was applied.
func (wm Watermark) Draw(c Canvas, page models.PageDimensions) bool {
	family, style := coreFont(wm.Font)
	cx, cy := page.Width/2, page.Height/2

	c.TransformBegin()
	defer c.TransformEnd()

	c.SetFont(family, style, wm.Size)
	g := wm.grayLevel()
	c.SetTextColor(g, g, g)

	translucent := false
	if ac, ok := c.(AlphaCanvas); ok && ac.SupportsAlpha() && wm.Opacity < 1 {
		ac.SetAlpha(wm.Opacity, "Normal")
		defer ac.SetAlpha(1, "Normal")
		translucent = true
	}

	c.TransformRotate(wm.Rotation, cx, cy)
	c.Text(cx-c.GetStringWidth(wm.Text)/2, cy, wm.Text)
	return translucent
}

// coreFont splits a PostScript core font name into the family and style
// strings used by the page writer.
func coreFont(name string) (family, style string) {
	family, variant, _ := strings.Cut(name, "-")
	switch strings.ToLower(variant) {
	case "bold":
		style = "B"
	case "oblique", "italic":
		style = "I"
	case "boldoblique", "bolditalic":
		style = "BI"
	}
	return family, style
}

// PDFCPUStamper stamps the watermark onto an existing document with pdfcpu.
type PDFCPUStamper struct {
	Watermark Watermark
	Conf      *model.Configuration
}

func NewPDFCPUStamper(wm Watermark) *PDFCPUStamper {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUStamper{Watermark: wm, Conf: conf}
}

// SupportsOpacity is always true: pdfcpu writes an ExtGState for the stamp.
func (s *PDFCPUStamper) SupportsOpacity() bool {
	return true
}

// Description renders the pdfcpu text watermark description string.
func (s *PDFCPUStamper) Description() string {
	g := s.Watermark.grayLevel()
	return fmt.Sprintf(
		"fontname:%s, points:%g, scalefactor:1 abs, rotation:%g, opacity:%g, fillcolor:#%02X%02X%02X, position:c",
		s.Watermark.Font, s.Watermark.Size, s.Watermark.Rotation, s.Watermark.Opacity, g, g, g,
	)
}

func (s *PDFCPUStamper) Stamp(in io.ReadSeeker, out io.Writer) error {
	wm, err := api.TextWatermark(s.Watermark.Text, s.Description(), true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build watermark: %w", err)
	}
	if err := api.AddWatermarks(in, out, nil, wm, s.Conf); err != nil {
		return fmt.Errorf("failed to stamp watermark: %w", err)
	}
	return nil
}
