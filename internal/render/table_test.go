package render_test

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/docstamp/internal/render"
	"github.com/kpauljoseph/docstamp/pkg/models"
)

func sampleTable(rows int) *models.Table {
	data := make([][]string, rows)
	for i := range data {
		data[i] = []string{fmt.Sprintf("item-%d", i), fmt.Sprint(i * 10), "a rather long description that will not fit in the cell at all"}
	}
	return models.NewTable([]string{"Item", "Qty", "Notes"}, data)
}

var _ = Describe("TableRenderer", func() {
	var renderer *render.TableRenderer

	BeforeEach(func() {
		var err error
		renderer, err = render.NewTableRenderer(render.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject invalid options", func() {
		opts := render.DefaultOptions()
		opts.FontSize = 0
		_, err := render.NewTableRenderer(opts)
		Expect(err).To(HaveOccurred())
	})

	It("should refuse tables without columns", func() {
		_, err := renderer.Render(models.NewTable(nil, nil))
		Expect(err).To(MatchError(render.ErrNoColumns))
	})

	It("should keep a constant width and grow with the row count", func() {
		small, err := renderer.Render(sampleTable(5))
		Expect(err).NotTo(HaveOccurred())
		large, err := renderer.Render(sampleTable(40))
		Expect(err).NotTo(HaveOccurred())

		Expect(small.Bounds().Dx()).To(Equal(large.Bounds().Dx()))
		Expect(large.Bounds().Dy()).To(BeNumerically(">", small.Bounds().Dy()))
	})

	It("should be cropped tightly around the grid", func() {
		img, err := renderer.Render(sampleTable(3))
		Expect(err).NotTo(HaveOccurred())

		opts := renderer.Options()
		figureWidth := int(opts.FigureWidth * opts.DPI)
		Expect(img.Bounds().Dx()).To(BeNumerically("<", figureWidth))

		content := render.ContentBounds(img, color.White)
		pad := int(opts.Padding * opts.DPI)
		Expect(content.Min.X).To(BeNumerically("~", pad, 1))
		Expect(content.Min.Y).To(BeNumerically("~", pad, 1))
	})

	It("should render a header-only table for an empty chunk", func() {
		img, err := renderer.Render(models.NewTable([]string{"Only"}, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Empty()).To(BeFalse())
	})

	It("should draw a bold header when asked", func() {
		opts := render.DefaultOptions()
		opts.BoldHeader = true
		bold, err := render.NewTableRenderer(opts)
		Expect(err).NotTo(HaveOccurred())

		plainImg, err := renderer.Render(sampleTable(1))
		Expect(err).NotTo(HaveOccurred())
		boldImg, err := bold.Render(sampleTable(1))
		Expect(err).NotTo(HaveOccurred())

		plainPNG, err := render.EncodePNG(plainImg)
		Expect(err).NotTo(HaveOccurred())
		boldPNG, err := render.EncodePNG(boldImg)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.Equal(plainPNG, boldPNG)).To(BeFalse())
	})

	It("should encode a decodable PNG", func() {
		img, err := renderer.Render(sampleTable(2))
		Expect(err).NotTo(HaveOccurred())

		data, err := render.EncodePNG(img)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := png.Decode(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Bounds()).To(Equal(img.Bounds()))
	})
})
