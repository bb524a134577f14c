package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"quotation-desk/internal/core"
)

const sheetName = "Quotation"

var itemColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// QuotationExcel renders doc as a single-sheet workbook. Money cells hold
// numbers so the sheet can be recalculated.
func QuotationExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	widths := []float64{5, 36, 16, 16, 12, 7, 16, 16}
	for i, c := range itemColumns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}
	last := itemColumns[len(itemColumns)-1]

	// Header block.
	header := []struct {
		value string
		style int
	}{
		{doc.Title, styles.title},
		{"Ref: " + doc.Reference + "    Date: " + doc.Date, styles.subtitle},
		{"Client: " + doc.ClientName + "  " + doc.ClientPhone, styles.subtitle},
	}
	for i, h := range header {
		r := strconv.Itoa(i + 1)
		if err := f.MergeCell(sheetName, "A"+r, last+r); err != nil {
			return nil, fmt.Errorf("merge header: %w", err)
		}
		f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(h.value))
		f.SetCellStyle(sheetName, "A"+r, last+r, h.style)
	}

	// Line items from row 5.
	headers := []string{"#", "Item", "Category", "Brand", "Warranty", "Qty", "Rate (incl. GST)", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheetName, itemColumns[i]+"5", h)
	}
	f.SetCellStyle(sheetName, "A5", last+"5", styles.header)

	r := 6
	for i, li := range doc.Items {
		rs := strconv.Itoa(r)
		f.SetCellValue(sheetName, "A"+rs, i+1)
		f.SetCellValue(sheetName, "B"+rs, sanitizeExcelCell(li.Component.Name))
		f.SetCellValue(sheetName, "C"+rs, sanitizeExcelCell(li.Category.String()))
		f.SetCellValue(sheetName, "D"+rs, sanitizeExcelCell(li.Brand.String()))
		f.SetCellValue(sheetName, "E"+rs, sanitizeExcelCell(li.Warranty))
		f.SetCellValue(sheetName, "F"+rs, li.Quantity)
		f.SetCellValue(sheetName, "G"+rs, li.SaleInclTax.InexactFloat64())
		f.SetCellFormula(sheetName, "H"+rs, "F"+rs+"*G"+rs)
		f.SetCellStyle(sheetName, "A"+rs, "F"+rs, styles.item)
		f.SetCellStyle(sheetName, "G"+rs, "H"+rs, styles.money)
		r++
	}
	r++

	// Totals.
	t := doc.Totals
	totals := []totalLine{
		{"Total (incl. GST)", t.TotalSaleAmount},
		{"of which GST", t.TotalTax},
	}
	if doc.Internal {
		totals = append(totals,
			totalLine{"Purchase cost", t.TotalPurchaseCost},
			totalLine{"Gross profit (" + t.ProfitMarginPercent.StringFixed(2) + "%)", t.GrossProfit},
		)
	}
	for _, tl := range totals {
		rs := strconv.Itoa(r)
		f.SetCellValue(sheetName, "G"+rs, tl.label)
		f.SetCellStyle(sheetName, "G"+rs, "G"+rs, styles.label)
		f.SetCellValue(sheetName, "H"+rs, tl.value.InexactFloat64())
		f.SetCellStyle(sheetName, "H"+rs, "H"+rs, styles.total)
		r++
	}

	r++
	words := "Amount in words: " + core.AmountToWords(t.TotalSaleAmount)
	rs := strconv.Itoa(r)
	f.MergeCell(sheetName, "A"+rs, last+rs)
	f.SetCellValue(sheetName, "A"+rs, words)
	r += 2

	for _, block := range []struct{ title, body string }{{"Notes", doc.Notes}, {"Terms & Conditions", doc.Terms}} {
		if block.body == "" {
			continue
		}
		rs := strconv.Itoa(r)
		f.SetCellValue(sheetName, "A"+rs, block.title)
		f.SetCellStyle(sheetName, "A"+rs, "A"+rs, styles.label)
		rs = strconv.Itoa(r + 1)
		f.MergeCell(sheetName, "A"+rs, last+rs)
		f.SetCellValue(sheetName, "A"+rs, sanitizeExcelCell(block.body))
		f.SetCellStyle(sheetName, "A"+rs, last+rs, styles.wrap)
		r += 3
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type totalLine struct {
	label string
	value decimal.Decimal
}

type sheetStyles struct {
	title, subtitle, header, item, money, label, total, wrap int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	moneyFmt := "#,##0.00"
	defs := []struct {
		name  string
		style *excelize.Style
	}{
		{"title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{"subtitle", &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{"header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{"item", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{"money", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{"label", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Alignment: &excelize.Alignment{Horizontal: "right"}}},
		{"total", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &moneyFmt}},
		{"wrap", &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
	}

	var s sheetStyles
	targets := []*int{&s.title, &s.subtitle, &s.header, &s.item, &s.money, &s.label, &s.total, &s.wrap}
	for i, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return sheetStyles{}, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*targets[i] = id
	}
	return s, nil
}

// sanitizeExcelCell prefixes characters that would make Excel treat text as
// a formula.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
