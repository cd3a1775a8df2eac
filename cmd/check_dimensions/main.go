package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kpauljoseph/docstamp/internal/pdf"
	"github.com/kpauljoseph/docstamp/pkg/models"
)

func main() {
	pdfPath := flag.StringP("file", "f", "", "Path to PDF file")
	expect := flag.Int("expect-pages", 0, "fail unless the file has this many pages")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using --file flag")
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)

	report, err := pdf.Verify(*pdfPath)
	if err != nil {
		fmt.Printf("Error reading PDF: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pages: %d\n", report.Pages)

	for i, dim := range report.Dimensions {
		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dim.Width, dim.Height)
		if name := pageSizeName(dim.Width, dim.Height); name != "" {
			fmt.Printf("Format: %s\n", name)
		}
	}

	if *expect > 0 {
		if err := report.ExpectPages(*expect); err != nil {
			fmt.Printf("\n%v\n", err)
			os.Exit(1)
		}
	}
}

func pageSizeName(w, h float64) string {
	const tolerance = 0.5
	for name, dim := range models.PageSizes {
		if abs(dim.Width-w) < tolerance && abs(dim.Height-h) < tolerance {
			return name
		}
	}
	return ""
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
