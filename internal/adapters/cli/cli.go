package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
)

// ErrUsage is returned for unknown commands and missing arguments.
var ErrUsage = errors.New("usage")

const usage = `Available commands:
  components [term]                     List or search the component catalog
  component <id>                        Print one component as JSON
  component-add <name> <category> <brand> <purchase> <sale> [gst]
                                        Add a catalog entry (prices incl. GST)
  component-delete <id>                 Remove a catalog entry
  parties [search]                      List clients
  party <id>                            Print a client with its quotations as JSON
  party-add <name> [phone] [email]      Add a client
  party-delete <id>                     Remove a client
  quotes [status] [search]              List quotations
  quote <id>                            Print one quotation as JSON
  export <id> pdf|xlsx <file> [internal]  Render a quotation to a file
  dashboard                             Quotation and client totals
  report [YYYY-MM-DD]                   Daily activity report as JSON
  login <email>                         Log in (password read from stdin)
  logout                                End the session
  passwd                                Change password (current and new read from stdin)
  price <excl|incl> <amount> [rate]     Convert a price between tax bases`

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element names the subcommand.
func Run(ctx context.Context, svc app.ApplicationService, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "components", "comp":
		var (
			res *app.CatalogResult
			err error
		)
		if len(args) > 1 {
			res, err = svc.SearchCatalog(ctx, strings.Join(args[1:], " "), 50)
		} else {
			res, err = svc.LoadCatalog(ctx, false)
		}
		if err != nil {
			return userError(err, "load components")
		}
		st := svc.Settings()
		for _, c := range res.Components {
			fmt.Fprintf(out, "%-24s %-32s %-14s %-12s %14s  GST %s%%\n",
				c.ID, c.Name, c.Category, c.Brand, st.FormatAmount(c.SalesPrice), c.TaxRate())
		}

	case "component":
		if len(args) < 2 {
			return fmt.Errorf("%w: component <id>", ErrUsage)
		}
		res, err := svc.GetComponent(ctx, args[1])
		if err != nil {
			return userError(err, "load component")
		}
		return encode(out, res.Component)

	case "component-add":
		if len(args) < 6 {
			return fmt.Errorf("%w: component-add <name> <category> <brand> <purchase> <sale> [gst]", ErrUsage)
		}
		req := app.ComponentRequest{
			Name: args[1], Category: args[2], Brand: args[3],
			PurchasePrice: args[4], SalesPrice: args[5],
		}
		if len(args) > 6 {
			req.GSTRate = args[6]
		}
		res, err := svc.CreateComponent(ctx, req)
		if err != nil {
			return userError(err, "create component")
		}
		fmt.Fprintf(out, "Created component %s (%s).\n", res.Component.ID, res.Component.Name)

	case "component-delete":
		if len(args) < 2 {
			return fmt.Errorf("%w: component-delete <id>", ErrUsage)
		}
		if err := svc.DeleteComponent(ctx, args[1]); err != nil {
			return userError(err, "delete component")
		}
		fmt.Fprintf(out, "Deleted component %s.\n", args[1])

	case "parties":
		res, err := svc.ListParties(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return userError(err, "load clients")
		}
		for _, p := range res.Parties {
			fmt.Fprintf(out, "%-26s %-32s %s\n", p.ID, p.Name, p.Phone)
		}

	case "party":
		if len(args) < 2 {
			return fmt.Errorf("%w: party <id>", ErrUsage)
		}
		res, err := svc.GetParty(ctx, args[1])
		if err != nil {
			return userError(err, "load client")
		}
		return encode(out, res)

	case "party-add":
		if len(args) < 2 {
			return fmt.Errorf("%w: party-add <name> [phone] [email]", ErrUsage)
		}
		req := app.PartyRequest{Name: args[1]}
		if len(args) > 2 {
			req.Phone = args[2]
		}
		if len(args) > 3 {
			req.Email = args[3]
		}
		res, err := svc.CreateParty(ctx, req)
		if err != nil {
			return userError(err, "create client")
		}
		fmt.Fprintf(out, "Created client %s (%s).\n", res.Party.ID, res.Party.Name)

	case "party-delete":
		if len(args) < 2 {
			return fmt.Errorf("%w: party-delete <id>", ErrUsage)
		}
		if err := svc.DeleteParty(ctx, args[1]); err != nil {
			return userError(err, "delete client")
		}
		fmt.Fprintf(out, "Deleted client %s.\n", args[1])

	case "dashboard":
		res, err := svc.Dashboard(ctx)
		if err != nil {
			return userError(err, "load dashboard")
		}
		st := svc.Settings()
		sum := res.Summary
		fmt.Fprintf(out, "Clients:     %d\n", res.TotalParties)
		fmt.Fprintf(out, "Quotations:  %d (%d sold, %d sent, %d draft, %d lost)\n", sum.Count,
			sum.ByStatus[core.StatusSold], sum.ByStatus[core.StatusSent], sum.ByStatus[core.StatusDraft], sum.ByStatus[core.StatusLost])
		fmt.Fprintf(out, "Quoted:      %s\n", st.FormatAmount(sum.TotalValue))
		fmt.Fprintf(out, "Sold:        %s (conversion %s%%)\n", st.FormatAmount(sum.SoldValue), sum.ConversionRate.StringFixed(1))
		fmt.Fprintf(out, "Sold profit: %s (margin %s%%)\n", st.FormatAmount(sum.SoldProfit), sum.SoldMarginPercent.StringFixed(1))

	case "quotes", "q":
		req := app.ListQuotationsRequest{}
		rest := args[1:]
		if len(rest) > 0 {
			if _, err := core.ParseStatus(rest[0]); err == nil || strings.EqualFold(rest[0], "all") {
				req.Status = rest[0]
				rest = rest[1:]
			}
		}
		req.Search = strings.Join(rest, " ")
		res, err := svc.ListQuotations(ctx, req)
		if err != nil {
			return userError(err, "load quotations")
		}
		st := svc.Settings()
		for _, q := range res.Quotations {
			fmt.Fprintf(out, "%-26s %-7s %-28s %14s\n", q.ID, q.Status, q.Party.Name, st.FormatAmount(q.TotalAmount))
		}
		fmt.Fprintf(out, "%d quotations, %s sold, conversion %s%%\n",
			res.Summary.Count, st.FormatAmount(res.Summary.SoldValue), res.Summary.ConversionRate.StringFixed(1))

	case "quote":
		if len(args) < 2 {
			return fmt.Errorf("%w: quote <id>", ErrUsage)
		}
		res, err := svc.GetQuotation(ctx, args[1])
		if err != nil {
			return userError(err, "load quotation")
		}
		return encode(out, res)

	case "export":
		if len(args) < 4 {
			return fmt.Errorf("%w: export <id> pdf|xlsx <file> [internal]", ErrUsage)
		}
		res, err := svc.ExportQuotation(ctx, app.ExportRequest{
			QuotationID: args[1],
			Format:      app.ExportFormat(strings.ToLower(args[2])),
			Internal:    len(args) > 4 && args[4] == "internal",
		})
		if err != nil {
			return userError(err, "export quotation")
		}
		if err := os.WriteFile(args[3], res.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[3], err)
		}
		fmt.Fprintf(out, "Wrote %s (%d bytes).\n", args[3], len(res.Data))

	case "report":
		date := ""
		if len(args) > 1 {
			date = args[1]
		}
		res, err := svc.DailyReport(ctx, date)
		if err != nil {
			return userError(err, "load daily report")
		}
		return encode(out, res.Report)

	case "login":
		if len(args) < 2 {
			return fmt.Errorf("%w: login <email>", ErrUsage)
		}
		fmt.Fprint(out, "Password: ")
		password, err := readLine(bufio.NewReader(in))
		if err != nil {
			return err
		}
		res, err := svc.Login(ctx, args[1], password)
		if err != nil {
			return userError(err, "log in")
		}
		fmt.Fprintf(out, "\nLogged in as %s.\n", res.User.Email)

	case "passwd":
		r := bufio.NewReader(in)
		fmt.Fprint(out, "Current password: ")
		current, err := readLine(r)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "\nNew password: ")
		next, err := readLine(r)
		if err != nil {
			return err
		}
		err = svc.ChangePassword(ctx, app.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
		if err != nil {
			return userError(err, "change password")
		}
		fmt.Fprintln(out, "\nPassword changed.")

	case "logout":
		if err := svc.Logout(ctx); err != nil {
			return userError(err, "log out")
		}
		fmt.Fprintln(out, "Logged out.")

	case "price":
		if len(args) < 3 {
			return fmt.Errorf("%w: price <excl|incl> <amount> [rate]", ErrUsage)
		}
		req := app.PriceRequest{Basis: args[1], Amount: args[2]}
		if len(args) > 3 {
			req.Rate = args[3]
		}
		res, err := svc.ConvertPrice(req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "excl. %s  incl. %s  tax %s  (GST %s%%)\n",
			res.ExclTax.StringFixed(2), res.InclTax.StringFixed(2), res.TaxAmount.StringFixed(2), res.Rate)

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, args[0], usage)
	}
	return nil
}

// userError phrases API failures for the terminal.
func userError(err error, action string) error {
	var (
		apiErr *api.Error
		netErr *api.NetworkError
	)
	if errors.As(err, &apiErr) || errors.As(err, &netErr) {
		return errors.New(api.UserMessage(err, action))
	}
	return err
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
