package models_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

func tableWithRows(n int) *models.Table {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row-%d", i)}
	}
	return models.NewTable([]string{"id"}, rows)
}

var _ = Describe("Pagination", func() {
	DescribeTable("page count",
		func(total, capacity, pages int) {
			Expect(models.Paginate(total, capacity)).To(HaveLen(pages))
		},
		Entry("empty table yields one page", 0, 40, 1),
		Entry("single row", 1, 40, 1),
		Entry("exactly one page", 40, 40, 1),
		Entry("one row over", 41, 40, 2),
		Entry("exact multiple", 120, 40, 3),
		Entry("non-positive capacity is treated as one", 3, 0, 3),
	)

	It("should cover every row exactly once and in order", func() {
		spans := models.Paginate(95, 40)

		Expect(spans).To(Equal([]models.PageSpan{
			{Index: 0, Start: 0, End: 40},
			{Index: 1, Start: 40, End: 80},
			{Index: 2, Start: 80, End: 95},
		}))

		total := 0
		for _, s := range spans {
			total += s.Len()
		}
		Expect(total).To(Equal(95))
	})

	It("should slice table rows into chunks", func() {
		chunks := tableWithRows(41).Chunks(40)

		Expect(chunks).To(HaveLen(2))
		Expect(chunks[0].Table.Len()).To(Equal(40))
		Expect(chunks[1].Table.Len()).To(Equal(1))
		Expect(chunks[1].Table.Rows[0][0]).To(Equal("row-40"))
		Expect(chunks[1].Table.Columns).To(Equal([]string{"id"}))
	})

	It("should produce a single empty chunk for an empty table", func() {
		chunks := tableWithRows(0).Chunks(40)

		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Table.Len()).To(Equal(0))
		Expect(chunks[0].Table.Columns).To(Equal([]string{"id"}))
	})

	It("should know the standard page sizes", func() {
		Expect(models.PageSizes).To(HaveKeyWithValue("A4", models.A4))
		Expect(models.A4.Width).To(BeNumerically("~", 595.28, 0.01))
	})
})
