package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	flag "github.com/spf13/pflag"

	"github.com/kpauljoseph/docstamp/internal/config"
	"github.com/kpauljoseph/docstamp/pkg/utils"
)

type pageInfo struct {
	width, height float64
	text          string
	hash          string
	preview       string
}

func main() {
	watermark := flag.String("watermark", config.Default().Watermark.Text, "watermark text to look for")
	keep := flag.Bool("keep", false, "keep the page previews instead of removing them")
	flag.Usage = func() {
		fmt.Println("Usage: debug_pdf [--watermark text] [--keep] file.pdf [reference.pdf]")
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	previewDir := utils.GetDefaultPreviewDir()
	if !*keep {
		defer os.RemoveAll(previewDir)
	}

	pages, err := inspect(flag.Arg(0), previewDir)
	if err != nil {
		fmt.Printf("Error inspecting %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	fmt.Printf("\nBasic Properties:\n")
	fmt.Printf("Pages: %d\n", len(pages))

	for i, p := range pages {
		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Dimensions: %.2f x %.2f\n", p.width, p.height)
		fmt.Printf("Watermark present: %v\n", strings.Contains(p.text, *watermark))
		fmt.Printf("Image hash: %s\n", p.hash)
		if *keep {
			fmt.Printf("Preview: %s\n", p.preview)
		}
	}

	if flag.NArg() == 1 {
		return
	}

	reference, err := inspect(flag.Arg(1), previewDir)
	if err != nil {
		fmt.Printf("Error inspecting %s: %v\n", flag.Arg(1), err)
		os.Exit(1)
	}

	fmt.Printf("\nComparison with %s:\n", flag.Arg(1))
	fmt.Printf("Reference pages: %d\n", len(reference))

	maxPages := len(pages)
	if len(reference) < maxPages {
		maxPages = len(reference)
	}
	for i := 0; i < maxPages; i++ {
		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Text content identical: %v\n", pages[i].text == reference[i].text)
		fmt.Printf("Hashes match: %v\n", pages[i].hash == reference[i].hash)
	}
}

// inspect reads every page of a PDF and writes a PNG preview of each into dir.
func inspect(path, dir string) ([]pageInfo, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages := make([]pageInfo, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		var p pageInfo

		bounds, err := doc.Bound(n)
		if err != nil {
			return nil, fmt.Errorf("page %d bounds: %w", n+1, err)
		}
		p.width, p.height = float64(bounds.Dx()), float64(bounds.Dy())

		if p.text, err = doc.Text(n); err != nil {
			return nil, fmt.Errorf("page %d text: %w", n+1, err)
		}

		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("page %d image: %w", n+1, err)
		}
		if p.hash, err = utils.GenerateImageHash(img); err != nil {
			return nil, err
		}

		p.preview = utils.PreviewPath(dir, path, n)
		f, err := os.Create(p.preview)
		if err != nil {
			return nil, err
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("page %d preview: %w", n+1, err)
		}

		pages = append(pages, p)
	}
	return pages, nil
}
