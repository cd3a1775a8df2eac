package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

const documentPart = "word/document.xml"

// maxGridColumns bounds a row when the table declares no w:tblGrid.
const maxGridColumns = 1024

// documentXML mirrors the parts of word/document.xml that carry content.
// Only direct children of <w:body> are collected, so tables nested in cells
// and paragraphs inside tables are not listed twice.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

type tableXML struct {
	GridCols []struct{}    `xml:"tblGrid>gridCol"`
	Rows     []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

type tableCellXML struct {
	Props      tableCellPropsXML `xml:"tcPr"`
	Paragraphs []paragraphXML    `xml:"p"`
}

type tableCellPropsXML struct {
	GridSpan *valXML `xml:"gridSpan"`
	VMerge   *valXML `xml:"vMerge"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

// paragraphXML keeps the visible text of a <w:p> in document order,
// including runs nested in hyperlinks, insertions and smart tags.
type paragraphXML struct {
	Text string
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	inText := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			case "del", "instrText", "delText":
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name == start.Name {
				p.Text = sb.String()
				return nil
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
}

// ReadDocument loads every top-level table of a .docx file followed by a
// single "Text" table of its non-empty body paragraphs.
func ReadDocument(path string) (*models.Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer zr.Close()

	doc, err := parseDocumentPart(&zr.Reader)
	if err != nil {
		return nil, err
	}

	return doc.table()
}

func parseDocumentPart(zr *zip.Reader) (*documentXML, error) {
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("failed to read document: missing required file %s", documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", documentPart, err)
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", documentPart, err)
	}
	return &doc, nil
}

func (doc *documentXML) table() (*models.Table, error) {
	var parts []*models.Table

	for _, tbl := range doc.Body.Tables {
		grid := tbl.grid()
		switch {
		case len(grid) == 0:
			continue
		case len(grid) == 1:
			parts = append(parts, models.NewTable(models.PositionalColumns(len(grid[0])), grid))
		default:
			parts = append(parts, models.NewTable(headerNames(grid[0], maxWidth(grid)), grid[1:]))
		}
	}

	var text [][]string
	for _, p := range doc.Body.Paragraphs {
		if s := strings.TrimSpace(p.Text); s != "" {
			text = append(text, []string{s})
		}
	}
	if len(text) > 0 {
		parts = append(parts, models.NewTable([]string{models.TextColumn}, text))
	}

	if len(parts) == 0 {
		return nil, ErrEmptyDocument
	}
	return models.Concat(parts...), nil
}

// grid expands the table to one string per grid column. A cell spanning
// several columns repeats its text in each, and a vertically merged
// continuation cell repeats the text of the cell above it. Spans never extend
// a row past the declared grid width.
func (tbl tableXML) grid() [][]string {
	limit := len(tbl.GridCols)
	if limit == 0 || limit > maxGridColumns {
		limit = maxGridColumns
	}

	grid := make([][]string, 0, len(tbl.Rows))
	for r, row := range tbl.Rows {
		var cells []string
		for _, cell := range row.Cells {
			text := cell.text()
			if cell.Props.VMerge != nil && cell.Props.VMerge.Val != "restart" && r > 0 {
				if above := grid[r-1]; len(cells) < len(above) {
					text = above[len(cells)]
				}
			}
			n := cell.span()
			if room := limit - len(cells); n > room {
				n = max(room, 1)
			}
			for i := 0; i < n; i++ {
				cells = append(cells, text)
			}
		}
		grid = append(grid, cells)
	}
	return grid
}

func (cell tableCellXML) text() string {
	lines := make([]string, len(cell.Paragraphs))
	for i, p := range cell.Paragraphs {
		lines[i] = p.Text
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (cell tableCellXML) span() int {
	if cell.Props.GridSpan == nil {
		return 1
	}
	n, err := strconv.Atoi(cell.Props.GridSpan.Val)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
