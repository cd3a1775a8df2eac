package acceptance

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

type TestFileHashes struct {
	Filename string              `json:"filename"`
	Pages    map[string]PageHash `json:"pages"` // key is page number as string
}

type PageHash struct {
	Hash string `json:"hash"`
}

// HashStore keeps golden page-image hashes of generated PDFs. Set
// UPDATE_TEST_DATA=true to rewrite them.
type HashStore struct {
	path         string
	updateHashes bool
	hashes       map[string]TestFileHashes // filename -> hashes
}

func NewHashStore(testDataPath string) *HashStore {
	return &HashStore{
		path:         filepath.Join(testDataPath, "expected_hashes.json"),
		updateHashes: os.Getenv("UPDATE_TEST_DATA") == "true",
		hashes:       make(map[string]TestFileHashes),
	}
}

func (s *HashStore) Load() error {
	if s.updateHashes {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hash file: %w", err)
	}

	var hashList []TestFileHashes
	if err := json.Unmarshal(data, &hashList); err != nil {
		return fmt.Errorf("failed to parse hash file: %w", err)
	}

	for _, h := range hashList {
		s.hashes[h.Filename] = h
	}

	return nil
}

func (s *HashStore) Save() error {
	if !s.updateHashes {
		return nil
	}

	hashList := make([]TestFileHashes, 0, len(s.hashes))
	for _, h := range s.hashes {
		hashList = append(hashList, h)
	}

	sort.Slice(hashList, func(i, j int) bool {
		return hashList[i].Filename < hashList[j].Filename
	})

	data, err := json.MarshalIndent(hashList, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hashes: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create test data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write hash file: %w", err)
	}

	return nil
}

func (s *HashStore) UpdateFileHashes(filename string, pageHashes map[string]PageHash) {
	if !s.updateHashes {
		return
	}

	s.hashes[filename] = TestFileHashes{
		Filename: filename,
		Pages:    pageHashes,
	}
}

func (s *HashStore) GetFileHashes(filename string) (TestFileHashes, bool) {
	hashes, exists := s.hashes[filename]
	return hashes, exists
}

func (s *HashStore) IsUpdateMode() bool {
	return s.updateHashes
}

func GetPageNumbers(pages map[string]PageHash) []string {
	numbers := make([]string, 0, len(pages))
	for num := range pages {
		numbers = append(numbers, num)
	}
	sort.Strings(numbers)
	return numbers
}

// WriteWorkbook saves an .xlsx whose first sheet holds header followed by
// rows.
func WriteWorkbook(path string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// NumberedRows returns n rows of sample ledger data.
func NumberedRows(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{i + 1, fmt.Sprintf("Customer %03d", i+1), float64(i+1) * 12.5}
	}
	return rows
}

// WriteDocx saves a minimal .docx with the given body XML.
func WriteDocx(path string, body ...string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		strings.Join(body, "") + `</w:body></w:document>`))
	if err != nil {
		return err
	}
	return zw.Close()
}

func DocxParagraph(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func DocxTable(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl>")
	for _, r := range rows {
		sb.WriteString("<w:tr>")
		for _, c := range r {
			sb.WriteString("<w:tc>" + DocxParagraph(c) + "</w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}
