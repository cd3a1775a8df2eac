package acceptance_test

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/gen2brain/go-fitz"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/docstamp/internal/config"
	"github.com/kpauljoseph/docstamp/internal/converter"
	"github.com/kpauljoseph/docstamp/internal/pdf"
	"github.com/kpauljoseph/docstamp/pkg/logger"
	"github.com/kpauljoseph/docstamp/pkg/models"
	"github.com/kpauljoseph/docstamp/pkg/utils"
	"github.com/kpauljoseph/docstamp/tests/acceptance"
)

const previewDPI = 72

func getTestDataPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Could not get current file path")
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(projectRoot, "tests", "acceptance", "testdata")
}

// darkest returns the lowest gray level in the rows between y0 and y1,
// given in points from the top of the page.
func darkest(img image.Image, y0, y1 float64) uint8 {
	scale := float64(previewDPI) / 72
	b := img.Bounds()
	lo := uint8(255)
	for y := b.Min.Y + int(y0*scale); y < b.Min.Y+int(y1*scale) && y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			v := uint8((r + g + bl) / 3 >> 8)
			if v < lo {
				lo = v
			}
		}
	}
	return lo
}

var _ = Describe("docstamp End-to-End", Ordered, func() {
	var (
		hashes  *acceptance.HashStore
		tempDir string
		ctx     context.Context
		log     *logger.Logger
		cfg     *config.Config
	)

	BeforeAll(func() {
		hashes = acceptance.NewHashStore(getTestDataPath())
		Expect(hashes.Load()).To(Succeed())
	})

	AfterAll(func() {
		Expect(hashes.Save()).To(Succeed())
	})

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		tempDir, err = os.MkdirTemp("", "docstamp-acceptance-*")
		Expect(err).NotTo(HaveOccurred())

		log = logger.New(
			logger.WithOutput(GinkgoWriter),
			logger.WithPrefix("[test] "),
			logger.WithLevel(logger.LevelDebug),
		)
		cfg = config.Default()
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	convert := func(in string) (converter.Stats, string) {
		out := filepath.Join(tempDir, config.DefaultOutput)
		conv, err := converter.New(cfg, log)
		Expect(err).NotTo(HaveOccurred())
		stats, err := conv.Convert(ctx, in, out)
		Expect(err).NotTo(HaveOccurred())
		return stats, out
	}

	open := func(path string) *fitz.Document {
		doc, err := fitz.New(path)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(doc.Close)
		return doc
	}

	Context("Spreadsheet conversion", Label("happy-path"), func() {
		It("should paginate a ledger into watermarked A4 pages", func() {
			in := filepath.Join(tempDir, "ledger.xlsx")
			Expect(acceptance.WriteWorkbook(in, []string{"ID", "Customer", "Balance"}, acceptance.NumberedRows(95))).To(Succeed())

			By("Converting 95 rows with 40 rows per page")
			stats, out := convert(in)
			Expect(stats.Rows).To(Equal(95))
			Expect(stats.Pages).To(Equal(3))

			doc := open(out)
			Expect(doc.NumPage()).To(Equal(3))
			Expect(doc.Metadata()).To(HaveKeyWithValue("title", "ledger"))

			pageHashes := make(map[string]acceptance.PageHash)
			expected, haveExpected := hashes.GetFileHashes("ledger.xlsx")

			for n := 0; n < doc.NumPage(); n++ {
				By(fmt.Sprintf("Checking page %d", n+1))
				bounds, err := doc.Bound(n)
				Expect(err).NotTo(HaveOccurred())
				Expect(float64(bounds.Dx())).To(BeNumerically("~", models.A4.Width, 1))
				Expect(float64(bounds.Dy())).To(BeNumerically("~", models.A4.Height, 1))

				text, err := doc.Text(n)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("M&N Digital"))

				img, err := doc.ImageDPI(n, previewDPI)
				Expect(err).NotTo(HaveOccurred())

				By("Leaving the strip under the table image blank")
				Expect(darkest(img, models.A4.Height-95, models.A4.Height)).To(Equal(uint8(255)))

				By("Drawing the table image just above the bottom offset")
				Expect(darkest(img, models.A4.Height-140, models.A4.Height-100)).To(BeNumerically("<", 200))

				hash, err := utils.GenerateImageHash(img)
				Expect(err).NotTo(HaveOccurred())
				key := strconv.Itoa(n + 1)
				pageHashes[key] = acceptance.PageHash{Hash: hash}

				if haveExpected && !hashes.IsUpdateMode() {
					Expect(expected.Pages).To(HaveKey(key))
					Expect(hash).To(Equal(expected.Pages[key].Hash), "page %s differs from the stored rendering", key)
				}
			}

			hashes.UpdateFileHashes("ledger.xlsx", pageHashes)
		})

		It("should produce a single page for a header-only sheet", func() {
			in := filepath.Join(tempDir, "empty.xlsx")
			Expect(acceptance.WriteWorkbook(in, []string{"ID", "Customer"}, nil)).To(Succeed())

			stats, out := convert(in)
			Expect(stats.Pages).To(Equal(1))

			doc := open(out)
			Expect(doc.NumPage()).To(Equal(1))
			text, err := doc.Text(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(ContainSubstring("M&N Digital"))
		})
	})

	Context("Document conversion", Label("happy-path"), func() {
		It("should stack the tables and paragraphs of a document", func() {
			in := filepath.Join(tempDir, "input.docx")
			Expect(acceptance.WriteDocx(in,
				acceptance.DocxParagraph("Quarterly summary"),
				acceptance.DocxTable(
					[]string{"Region", "Sales"},
					[]string{"North", "120"},
					[]string{"South", "95"},
				),
				acceptance.DocxTable(
					[]string{"Region", "Returns"},
					[]string{"North", "4"},
				),
			)).To(Succeed())

			stats, out := convert(in)
			Expect(stats.Rows).To(Equal(4))
			Expect(stats.Columns).To(Equal(4))
			Expect(stats.Pages).To(Equal(1))

			report, err := pdf.Verify(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Pages).To(Equal(1))
		})
	})

	Context("Watermark transparency", func() {
		darkestWatermark := func(in string) uint8 {
			_, out := convert(in)
			doc := open(out)
			img, err := doc.ImageDPI(0, previewDPI)
			Expect(err).NotTo(HaveOccurred())
			// The table image of five rows ends well below this band.
			return darkest(img, 150, 600)
		}

		var in string

		BeforeEach(func() {
			in = filepath.Join(tempDir, "small.xlsx")
			Expect(acceptance.WriteWorkbook(in, []string{"ID", "Customer", "Balance"}, acceptance.NumberedRows(5))).To(Succeed())
		})

		It("should blend the watermark at reduced opacity", func() {
			v := darkestWatermark(in)
			Expect(v).To(BeNumerically(">", 240))
			Expect(v).To(BeNumerically("<", 255))
		})

		It("should fall back to an opaque light gray for PDF 1.3", func() {
			cfg.PDF.Compat = config.CompatPDF13
			v := darkestWatermark(in)
			Expect(v).To(BeNumerically("~", 230, 4))
		})
	})

	Context("Stamp backend", func() {
		It("should watermark every page after composition", func() {
			cfg.Watermark.Backend = config.BackendStamp
			in := filepath.Join(tempDir, "ledger.xlsx")
			Expect(acceptance.WriteWorkbook(in, []string{"ID", "Customer", "Balance"}, acceptance.NumberedRows(41))).To(Succeed())

			stats, out := convert(in)
			Expect(stats.Pages).To(Equal(2))

			doc := open(out)
			Expect(doc.NumPage()).To(Equal(2))
			for n := 0; n < doc.NumPage(); n++ {
				text, err := doc.Text(n)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("M&N Digital"))
			}
		})
	})

	Context("Rejected inputs", Label("errors"), func() {
		It("should not write a PDF for a plain text file", func() {
			in := filepath.Join(tempDir, "notes.txt")
			Expect(os.WriteFile(in, []byte("hello"), 0o644)).To(Succeed())

			conv, err := converter.New(cfg, log)
			Expect(err).NotTo(HaveOccurred())
			out := filepath.Join(tempDir, config.DefaultOutput)
			_, err = conv.Convert(ctx, in, out)
			Expect(err).To(HaveOccurred())
			Expect(out).NotTo(BeAnExistingFile())
		})
	})
})
