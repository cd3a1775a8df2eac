package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/docstamp/pkg/models"
)

var _ = Describe("Table", func() {
	Context("NewTable", func() {
		It("should pad short rows and truncate long ones", func() {
			t := models.NewTable([]string{"a", "b"}, [][]string{{"1"}, {"1", "2", "3"}})

			Expect(t.Len()).To(Equal(2))
			Expect(t.Width()).To(Equal(2))
			Expect(t.Rows[0]).To(Equal([]string{"1", ""}))
			Expect(t.Rows[1]).To(Equal([]string{"1", "2"}))
		})

		It("should normalize decomposed text to NFC", func() {
			t := models.NewTable([]string{"Cafe\u0301"}, [][]string{{"e\u0301"}})

			Expect(t.Columns[0]).To(Equal("Caf\u00e9"))
			Expect(t.Rows[0][0]).To(Equal("\u00e9"))
		})
	})

	Context("Column lookup", func() {
		It("should return a copy of the named column", func() {
			t := models.NewTable([]string{"x", "y"}, [][]string{{"1", "2"}, {"3", "4"}})

			col, ok := t.Column("y")
			Expect(ok).To(BeTrue())
			Expect(col).To(Equal([]string{"2", "4"}))

			_, ok = t.Column("z")
			Expect(ok).To(BeFalse())
		})
	})

	Context("Concat", func() {
		It("should take the union of columns in order of first appearance", func() {
			people := models.NewTable([]string{"Name", "Age"}, [][]string{{"Ann", "30"}, {"Bob", "41"}})
			cities := models.NewTable([]string{"City", "Name"}, [][]string{{"Oslo", "Cid"}})
			text := models.NewTable([]string{models.TextColumn}, [][]string{{"hello"}})

			out := models.Concat(people, cities, text)

			Expect(out.Columns).To(Equal([]string{"Name", "Age", "City", "Text"}))
			Expect(out.Rows).To(Equal([][]string{
				{"Ann", "30", "", ""},
				{"Bob", "41", "", ""},
				{"Cid", "", "Oslo", ""},
				{"", "", "", "hello"},
			}))
		})

		It("should skip nil tables and return an empty table for no input", func() {
			out := models.Concat(nil)
			Expect(out.Len()).To(Equal(0))
			Expect(out.Width()).To(Equal(0))
		})
	})

	Context("PositionalColumns", func() {
		It("should number columns from zero", func() {
			Expect(models.PositionalColumns(3)).To(Equal([]string{"0", "1", "2"}))
		})
	})
})
