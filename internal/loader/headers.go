package loader

import (
	"fmt"
	"strings"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

// headerNames turns a raw header row into unique column names for a table
// whose widest row has width cells. Blank names become "Unnamed: <i>" and
// repeated names get ".1", ".2", ... suffixes. Other names are kept verbatim.
func headerNames(raw []string, width int) []string {
	if len(raw) > width {
		width = len(raw)
	}
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(raw) {
			name = raw[i]
		}
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for {
				seen[base]++
				name = fmt.Sprintf("%s.%d", base, seen[base])
				if _, taken := seen[name]; !taken {
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// tableFromGrid builds a table using the first non-blank row as the header and
// the rest as data. Trailing blank rows are dropped; blank rows between data
// rows stay as records of empty cells.
func tableFromGrid(grid [][]string) *models.Table {
	start, end := 0, len(grid)
	for start < end && isBlank(grid[start]) {
		start++
	}
	for end > start && isBlank(grid[end-1]) {
		end--
	}
	if start == end {
		return models.NewTable(nil, nil)
	}
	rows := grid[start:end]
	return models.NewTable(headerNames(rows[0], maxWidth(rows)), rows[1:])
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
