package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	mcore "github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"quotation-desk/internal/core"
)

var (
	grey       = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerFill = &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	totalsFill = &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
)

// QuotationPDF renders doc as an A4 PDF.
func QuotationPDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)
	addPDFHeader(m, doc)
	addPDFTable(m, doc)
	addPDFTotals(m, doc)
	addPDFFooter(m, doc)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quotation PDF: %w", err)
	}
	return out.GetBytes(), nil
}

func addPDFHeader(m mcore.Maroto, doc Document) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(pdfText(doc.Title), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(7).Add(
			col.New(6).Add(text.New("Ref: "+pdfText(doc.Reference), props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Date: "+doc.Date, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(7).Add(
			col.New(8).Add(text.New("Client: "+pdfText(doc.ClientName), props.Text{Size: 10, Style: fontstyle.Bold})),
			col.New(4).Add(text.New(pdfText(doc.ClientPhone), props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(4),
	)
}

func addPDFTable(m mcore.Maroto, doc Document) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headLeft := head
	headLeft.Align = align.Left

	m.AddRows(row.New(8).Add(
		col.New(1).Add(text.New("#", head)).WithStyle(headerFill),
		col.New(4).Add(text.New("Item", headLeft)).WithStyle(headerFill),
		col.New(2).Add(text.New("Warranty", head)).WithStyle(headerFill),
		col.New(1).Add(text.New("Qty", head)).WithStyle(headerFill),
		col.New(2).Add(text.New("Rate (incl. GST)", head)).WithStyle(headerFill),
		col.New(2).Add(text.New("Amount", head)).WithStyle(headerFill),
	))

	cell := props.Text{Size: 8, Align: align.Center}
	left := cell
	left.Align = align.Left
	right := cell
	right.Align = align.Right
	sub := props.Text{Size: 7, Align: align.Left, Color: grey, Top: 4}

	for i, li := range doc.Items {
		m.AddRows(row.New(10).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), cell)),
			col.New(4).Add(
				text.New(pdfText(li.Component.Name), left),
				text.New(pdfText(li.Category.String()+" / "+li.Brand.String()), sub),
			),
			col.New(2).Add(text.New(pdfText(li.Warranty), cell)),
			col.New(1).Add(text.New(strconv.Itoa(li.Quantity), right)),
			col.New(2).Add(text.New(pdfAmount(doc, li.SaleInclTax), right)),
			col.New(2).Add(text.New(pdfAmount(doc, li.LineTotal()), right)),
		))
	}
	m.AddRows(row.New(4))
}

func addPDFTotals(m mcore.Maroto, doc Document) {
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	line := func(name string, v decimal.Decimal) mcore.Row {
		return row.New(7).Add(
			col.New(8).Add(text.New(name, label)).WithStyle(totalsFill),
			col.New(4).Add(text.New(pdfAmount(doc, v), value)).WithStyle(totalsFill),
		)
	}

	t := doc.Totals
	m.AddRows(
		line("Total (incl. GST)", t.TotalSaleAmount),
		line("of which GST", t.TotalTax),
	)
	if doc.Internal {
		m.AddRows(
			line("Purchase cost", t.TotalPurchaseCost),
			line(fmt.Sprintf("Gross profit (%s%%)", t.ProfitMarginPercent.StringFixed(2)), t.GrossProfit),
		)
	}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New("Amount in words: "+core.AmountToWords(t.TotalSaleAmount), props.Text{Size: 8, Style: fontstyle.Italic, Top: 2})),
		),
	)
}

func addPDFFooter(m mcore.Maroto, doc Document) {
	if doc.Notes != "" {
		m.AddRows(
			row.New(6).Add(col.New(12).Add(text.New("Notes", props.Text{Size: 9, Style: fontstyle.Bold, Top: 1}))),
			row.New(10).Add(col.New(12).Add(text.New(pdfText(doc.Notes), props.Text{Size: 8}))),
		)
	}
	if doc.Terms != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("Terms & Conditions", props.Text{Size: 9, Style: fontstyle.Bold, Top: 1}))))
		for _, l := range strings.Split(doc.Terms, "\n") {
			m.AddRows(row.New(5).Add(col.New(12).Add(text.New(pdfText(l), props.Text{Size: 8}))))
		}
	}
}

// The built-in PDF fonts have no rupee glyph.
func pdfAmount(doc Document, v decimal.Decimal) string {
	return strings.Replace(doc.amount(v), "₹", "Rs. ", 1)
}

func pdfText(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs. ")
}
