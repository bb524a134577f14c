package repl

import (
	"fmt"
	"io"
	"strings"

	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
	"quotation-desk/internal/settings"
)

func printDraft(out io.Writer, res *app.DraftResult, st settings.Settings) {
	d := res.Draft
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 100))
	title := "NEW QUOTATION"
	switch d.Mode {
	case core.ModeEdit:
		title = "EDITING QUOTATION " + d.SourceID
	case core.ModeRevise:
		title = "REVISING QUOTATION " + d.SourceID
	}
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintf(out, "  Client : %s   Status : %s   State : %s\n", d.PartyID, d.Status, d.State)
	fmt.Fprintln(out, strings.Repeat("=", 100))
	if len(d.Items) == 0 {
		fmt.Fprintln(out, "  No line items. Add one with /add <component-id | search term>.")
		fmt.Fprintln(out, strings.Repeat("=", 100))
		return
	}
	fmt.Fprintf(out, "  %-3s %-26s %4s %5s %12s %12s %12s %12s %10s\n",
		"#", "COMPONENT", "QTY", "GST%", "PURCH EXCL", "PURCH INCL", "SALE EXCL", "SALE INCL", "MARGIN")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, li := range d.Items {
		fmt.Fprintf(out, "  %-3d %-26s %4d %5s %12s %12s %12s %12s %10s\n",
			li.ID, truncate(li.Component.Name, 26), li.Quantity, li.TaxRate.String(),
			li.PurchaseExclTax.StringFixed(2), li.PurchaseInclTax.StringFixed(2),
			li.SaleExclTax.StringFixed(2), li.SaleInclTax.StringFixed(2), li.Margin.StringFixed(2))
		fmt.Fprintf(out, "      %s / %s, warranty %s\n", li.Category, li.Brand, li.Warranty)
	}
	fmt.Fprintln(out, strings.Repeat("-", 100))
	t := d.Totals
	fmt.Fprintf(out, "  Total sale (incl. tax) : %s\n", st.FormatAmount(t.TotalSaleAmount))
	fmt.Fprintf(out, "  Total purchase         : %s\n", st.FormatAmount(t.TotalPurchaseCost))
	fmt.Fprintf(out, "  Total tax              : %s\n", st.FormatAmount(t.TotalTax))
	fmt.Fprintf(out, "  Gross profit           : %s (%s%%)\n", st.FormatAmount(t.GrossProfit), t.ProfitMarginPercent.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 100))
}

func printCatalog(out io.Writer, list []core.Component, st settings.Settings) {
	if len(list) == 0 {
		fmt.Fprintln(out, "  No components found.")
		return
	}
	fmt.Fprintf(out, "  %-24s %-28s %-14s %-12s %14s\n", "ID", "NAME", "CATEGORY", "BRAND", "SALE INCL")
	fmt.Fprintln(out, strings.Repeat("-", 96))
	for _, c := range list {
		fmt.Fprintf(out, "  %-24s %-28s %-14s %-12s %14s\n",
			truncate(c.ID, 24), truncate(c.Name, 28), truncate(c.Category.String(), 14),
			truncate(c.Brand.String(), 12), st.FormatAmount(c.SalesPrice))
	}
}

func printQuotations(out io.Writer, res *app.QuotationListResult, st settings.Settings) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 90))
	fmt.Fprintf(out, "  QUOTATIONS (%d)\n", res.Summary.Count)
	fmt.Fprintln(out, strings.Repeat("=", 90))
	if len(res.Quotations) == 0 {
		fmt.Fprintln(out, "  No quotations found.")
		fmt.Fprintln(out, strings.Repeat("=", 90))
		return
	}
	fmt.Fprintf(out, "  %-26s %-26s %-7s %-12s %14s\n", "ID", "CLIENT", "STATUS", "DATE", "AMOUNT")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, q := range res.Quotations {
		date := ""
		if !q.CreatedAt.IsZero() {
			date = st.FormatDate(q.CreatedAt)
		}
		fmt.Fprintf(out, "  %-26s %-26s %-7s %-12s %14s\n",
			truncate(q.ID, 26), truncate(q.Party.Name, 26), q.Status, date, st.FormatAmount(q.TotalAmount))
	}
	fmt.Fprintln(out, strings.Repeat("-", 90))
	sm := res.Summary
	fmt.Fprintf(out, "  draft %d  sent %d  lost %d  sold %d   value %s   sold %s   conversion %s%%\n",
		sm.ByStatus[core.StatusDraft], sm.ByStatus[core.StatusSent], sm.ByStatus[core.StatusLost], sm.ByStatus[core.StatusSold],
		st.FormatAmount(sm.TotalValue), st.FormatAmount(sm.SoldValue), sm.ConversionRate.StringFixed(1))
	fmt.Fprintln(out, strings.Repeat("=", 90))
}

func printReport(out io.Writer, res *app.DailyReportResult, st settings.Settings) {
	r := res.Report
	fmt.Fprintln(out)
	fmt.Fprintf(out, "DAILY REPORT %s\n", st.FormatDate(res.Date))
	fmt.Fprintf(out, "  New clients : %d\n", r.Today.NewClients)
	fmt.Fprintf(out, "  Quotations  : %d\n", r.Today.Quotations)
	fmt.Fprintf(out, "  Follow-ups  : %d\n", r.Today.FollowUps)
	fmt.Fprintf(out, "  All time    : %d clients, %d quotations worth %s\n",
		r.Totals.Clients, r.Totals.Quotations, st.FormatAmount(r.Totals.TotalQuotationValue))
	if len(r.Summary.PriorityAreas) > 0 {
		fmt.Fprintf(out, "  Priorities  : %s\n", strings.Join(r.Summary.PriorityAreas, ", "))
	}
	for _, a := range r.Today.Activities {
		fmt.Fprintf(out, "  - [%s] %s: %s\n", a.Type, a.Title, a.Description)
	}
}

func printPrice(out io.Writer, res *app.PriceResult, st settings.Settings) {
	fmt.Fprintf(out, "GST %s%%: excl. %s  incl. %s  tax %s\n",
		res.Rate.String(), st.FormatAmount(res.ExclTax), st.FormatAmount(res.InclTax), st.FormatAmount(res.TaxAmount))
}

func printSuggestion(out io.Writer, res *app.SuggestionResult, st settings.Settings) {
	fmt.Fprintln(out, "\nSUGGESTED COMPONENTS:")
	for _, line := range res.Suggestion.Lines {
		c := res.Components[line.ComponentID]
		fmt.Fprintf(out, "  %3d x %-30s %14s  %s\n",
			line.Quantity, truncate(c.Name, 30), st.FormatAmount(c.SalesPrice), line.Reason)
	}
	if res.Suggestion.Clarification != "" {
		fmt.Fprintf(out, "  Note: %s\n", res.Suggestion.Clarification)
	}
}

func printSettings(out io.Writer, st settings.Settings) {
	fmt.Fprintf(out, "  theme      : %s\n", st.Theme)
	fmt.Fprintf(out, "  currency   : %s\n", st.Currency)
	fmt.Fprintf(out, "  dateformat : %s\n", st.DateFormat)
	fmt.Fprintf(out, "  timezone   : %s\n", st.Timezone)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Quotation commands:
  /new <client-id>                 Start a new quotation
  /edit <quotation-id>             Edit a saved quotation
  /revise <quotation-id>           Create a new version of a saved quotation
  /add <component-id | term>       Add a catalog component
  /set <line> <field> <value>      Edit a line (pe, pi, se, si, qty, warranty)
  /rm <line>                       Remove a line
  /show                            Show the open quotation
  /notes <text>, /terms <text>     Set notes or terms and conditions
  /status <status>                 draft, sent, lost or sold
  /submit                          Save the quotation
  /discard                         Close the quotation without saving
  /suggest <requirement>           Ask the assistant for components (free text works too)

Lookups:
  /search <term>                   Search the component catalog
  /quotes [status] [search]        List quotations
  /report [YYYY-MM-DD]             Daily activity report
  /price <excl|incl> <amt> [rate]  Convert a price between tax bases
  /settings [key value | reset]    Show or change preferences
  /exit                            Quit`)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
