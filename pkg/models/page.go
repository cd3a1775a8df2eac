package models

// PageDimensions holds a page size in PDF points.
type PageDimensions struct {
	Width  float64
	Height float64
}

var (
	A4     = PageDimensions{Width: 595.2756, Height: 841.8898}
	A3     = PageDimensions{Width: 841.8898, Height: 1190.5512}
	Letter = PageDimensions{Width: 612, Height: 792}
	Legal  = PageDimensions{Width: 612, Height: 1008}
)

// PageSizes maps the names accepted in configuration to dimensions.
var PageSizes = map[string]PageDimensions{
	"A4":     A4,
	"A3":     A3,
	"Letter": Letter,
	"Legal":  Legal,
}

// PageSpan is the half-open row range [Start, End) drawn on one page.
type PageSpan struct {
	Index int
	Start int
	End   int
}

func (s PageSpan) Len() int {
	return s.End - s.Start
}

// Chunk is one page worth of rows.
type Chunk struct {
	PageSpan
	Table *Table
}

// Paginate splits total rows into consecutive spans of at most capacity rows.
// An empty table still yields a single empty span so that the output always
// has one page carrying the header row and the watermark.
func Paginate(total, capacity int) []PageSpan {
	if capacity < 1 {
		capacity = 1
	}
	if total <= 0 {
		return []PageSpan{{Index: 0, Start: 0, End: 0}}
	}

	spans := make([]PageSpan, 0, (total+capacity-1)/capacity)
	for start := 0; start < total; start += capacity {
		end := start + capacity
		if end > total {
			end = total
		}
		spans = append(spans, PageSpan{Index: len(spans), Start: start, End: end})
	}
	return spans
}

// Chunks partitions the table's rows into page-sized pieces, in order.
func (t *Table) Chunks(capacity int) []Chunk {
	spans := Paginate(t.Len(), capacity)
	chunks := make([]Chunk, len(spans))
	for i, s := range spans {
		chunks[i] = Chunk{PageSpan: s, Table: t.Slice(s.Start, s.End)}
	}
	return chunks
}
