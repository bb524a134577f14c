package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
)

var errExit = errors.New("exit")

// commandError carries the action used to phrase the error for the user.
type commandError struct {
	action string
	err    error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func fail(action string, err error) error {
	return &commandError{action: action, err: err}
}

// session is the REPL state: at most one draft is open at a time.
type session struct {
	ctx     context.Context
	svc     app.ApplicationService
	reader  *bufio.Reader
	out     io.Writer
	draftID string
}

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes free text to the drafting assistant when a draft is open.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "Quotation Desk")
	fmt.Fprintln(out, "Start a quotation with /new <client-id>, or use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			continue
		}

		var cmdErr error
		if strings.HasPrefix(input, "/") {
			cmdErr = s.dispatch(input)
		} else {
			cmdErr = s.suggest(input)
		}
		if errors.Is(cmdErr, errExit) {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		if cmdErr != nil {
			s.printError(cmdErr)
		}
		if err != nil {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
	}
}

func (s *session) printError(err error) {
	action := "complete the command"
	var ce *commandError
	if errors.As(err, &ce) {
		action = ce.action
		err = ce.err
	}
	fmt.Fprintf(s.out, "Error: %s\n", api.UserMessage(err, action))
}

func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(input, "/"), tokens[0]))

	switch cmd {
	case "new":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /new <client-id>")
			return nil
		}
		return s.start(app.StartDraftRequest{PartyID: args[0]}, "start quotation")

	case "edit":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /edit <quotation-id>")
			return nil
		}
		return s.start(app.StartDraftRequest{EditID: args[0]}, "load quotation")

	case "revise":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /revise <quotation-id>")
			return nil
		}
		return s.start(app.StartDraftRequest{ReviseID: args[0]}, "load quotation")

	case "add", "a":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /add <component-id | search term>")
			return nil
		}
		return s.add(rest)

	case "set":
		// Usage: /set <line> <field> <value>
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: /set <line> <field> <value>")
			fmt.Fprintln(s.out, "  Fields: pe (purchase excl. tax), pi (purchase incl. tax),")
			fmt.Fprintln(s.out, "          se (sale excl. tax), si (sale incl. tax), qty, warranty")
			return nil
		}
		if !s.requireDraft() {
			return nil
		}
		line, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid line number: %s\n", args[0])
			return nil
		}
		res, err := s.svc.UpdateLineItem(app.UpdateLineItemRequest{
			DraftID: s.draftID,
			ItemID:  line,
			Field:   args[1],
			Value:   strings.Join(args[2:], " "),
		})
		if err != nil {
			return fail("update line item", err)
		}
		printDraft(s.out, res, s.svc.Settings())

	case "rm", "remove":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /rm <line>")
			return nil
		}
		if !s.requireDraft() {
			return nil
		}
		line, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid line number: %s\n", args[0])
			return nil
		}
		res, err := s.svc.RemoveLineItem(s.draftID, line)
		if err != nil {
			return fail("remove line item", err)
		}
		printDraft(s.out, res, s.svc.Settings())

	case "show", "s":
		if !s.requireDraft() {
			return nil
		}
		res, err := s.svc.GetDraft(s.draftID)
		if err != nil {
			return fail("show draft", err)
		}
		printDraft(s.out, res, s.svc.Settings())

	case "notes":
		if !s.requireDraft() {
			return nil
		}
		return s.meta(app.DraftMetaRequest{Notes: &rest})

	case "terms":
		if !s.requireDraft() {
			return nil
		}
		return s.meta(app.DraftMetaRequest{Terms: &rest})

	case "status":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /status <draft|sent|lost|sold>")
			return nil
		}
		if !s.requireDraft() {
			return nil
		}
		return s.meta(app.DraftMetaRequest{Status: &args[0]})

	case "submit", "save":
		if !s.requireDraft() {
			return nil
		}
		res, err := s.svc.SubmitDraft(s.ctx, s.draftID)
		if err != nil {
			return fail("save quotation", err)
		}
		fmt.Fprintf(s.out, "Quotation saved. ID: %s  Total: %s\n",
			res.Quotation.ID, s.svc.Settings().FormatAmount(res.Draft.Totals.TotalSaleAmount))

	case "discard":
		if !s.requireDraft() {
			return nil
		}
		if err := s.svc.DiscardDraft(s.draftID); err != nil {
			return fail("discard draft", err)
		}
		s.draftID = ""
		fmt.Fprintln(s.out, "Draft discarded.")

	case "suggest":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /suggest <what the customer needs>")
			return nil
		}
		return s.suggest(rest)

	case "search":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /search <term>")
			return nil
		}
		res, err := s.svc.SearchCatalog(s.ctx, rest, 0)
		if err != nil {
			return fail("search components", err)
		}
		printCatalog(s.out, res.Components, s.svc.Settings())

	case "quotes":
		req := app.ListQuotationsRequest{}
		if len(args) > 0 {
			if _, err := core.ParseStatus(args[0]); err == nil || strings.EqualFold(args[0], "all") {
				req.Status = args[0]
				args = args[1:]
			}
		}
		req.Search = strings.Join(args, " ")
		res, err := s.svc.ListQuotations(s.ctx, req)
		if err != nil {
			return fail("load quotations", err)
		}
		printQuotations(s.out, res, s.svc.Settings())

	case "report":
		date := ""
		if len(args) > 0 {
			date = args[0]
		}
		res, err := s.svc.DailyReport(s.ctx, date)
		if err != nil {
			return fail("load daily report", err)
		}
		printReport(s.out, res, s.svc.Settings())

	case "price":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /price <excl|incl> <amount> [gst-rate]")
			return nil
		}
		req := app.PriceRequest{Basis: args[0], Amount: args[1]}
		if len(args) > 2 {
			req.Rate = args[2]
		}
		res, err := s.svc.ConvertPrice(req)
		if err != nil {
			return fail("convert price", err)
		}
		printPrice(s.out, res, s.svc.Settings())

	case "settings":
		if len(args) >= 1 {
			if err := s.updateSetting(strings.ToLower(args[0]), strings.Join(args[1:], " ")); err != nil {
				return fail("save settings", err)
			}
		}
		printSettings(s.out, s.svc.Settings())

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func (s *session) requireDraft() bool {
	if s.draftID == "" {
		fmt.Fprintln(s.out, "No quotation open. Use /new, /edit or /revise first.")
		return false
	}
	return true
}

func (s *session) start(req app.StartDraftRequest, action string) error {
	res, err := s.svc.StartDraft(s.ctx, req)
	if err != nil {
		return fail(action, err)
	}
	if s.draftID != "" {
		_ = s.svc.DiscardDraft(s.draftID)
	}
	s.draftID = res.ID
	printDraft(s.out, res, s.svc.Settings())
	return nil
}

// add treats the argument as a component id first, then as a search term
// that must match exactly one component.
func (s *session) add(term string) error {
	if !s.requireDraft() {
		return nil
	}
	res, err := s.svc.AddLineItem(s.ctx, s.draftID, term)
	if err == nil {
		printDraft(s.out, res, s.svc.Settings())
		return nil
	}
	if !errors.Is(err, app.ErrComponentNotFound) {
		return fail("add component", err)
	}

	found, err := s.svc.SearchCatalog(s.ctx, term, 0)
	if err != nil {
		return fail("search components", err)
	}
	switch len(found.Components) {
	case 0:
		fmt.Fprintf(s.out, "No component matches %q.\n", term)
		return nil
	case 1:
		res, err := s.svc.AddLineItem(s.ctx, s.draftID, found.Components[0].ID)
		if err != nil {
			return fail("add component", err)
		}
		printDraft(s.out, res, s.svc.Settings())
		return nil
	default:
		fmt.Fprintf(s.out, "%d components match %q; add one by id:\n", len(found.Components), term)
		printCatalog(s.out, found.Components, s.svc.Settings())
		return nil
	}
}

func (s *session) meta(req app.DraftMetaRequest) error {
	req.DraftID = s.draftID
	res, err := s.svc.UpdateDraftMeta(req)
	if err != nil {
		return fail("update quotation", err)
	}
	printDraft(s.out, res, s.svc.Settings())
	return nil
}

// suggest asks the assistant for lines and applies them only after the user
// confirms.
func (s *session) suggest(requirement string) error {
	if !s.requireDraft() {
		return nil
	}
	fmt.Fprintln(s.out, "[AI] Looking through the catalog...")
	res, err := s.svc.SuggestLineItems(s.ctx, requirement)
	if err != nil {
		return fail("suggest components", err)
	}
	if len(res.Suggestion.Lines) == 0 {
		msg := res.Suggestion.Clarification
		if msg == "" {
			msg = "No matching components found."
		}
		fmt.Fprintf(s.out, "\n[AI]: %s\n", msg)
		return nil
	}

	printSuggestion(s.out, res, s.svc.Settings())
	fmt.Fprint(s.out, "\nAdd these components? (y/n): ")
	choice, _ := s.reader.ReadString('\n')
	choice = strings.TrimSpace(strings.ToLower(choice))
	if choice != "y" && choice != "yes" {
		fmt.Fprintln(s.out, "Suggestion discarded.")
		return nil
	}
	draft, err := s.svc.ApplySuggestion(s.ctx, s.draftID, res.Suggestion)
	if err != nil {
		return fail("apply suggestion", err)
	}
	printDraft(s.out, draft, s.svc.Settings())
	return nil
}

func (s *session) updateSetting(key, value string) error {
	next := s.svc.Settings()
	switch key {
	case "theme":
		next.Theme = value
	case "currency":
		next.Currency = strings.ToUpper(value)
	case "dateformat", "date":
		next.DateFormat = strings.ToUpper(value)
	case "timezone", "tz":
		next.Timezone = value
	case "reset":
		_, err := s.svc.ResetSettings(s.ctx)
		return err
	default:
		return fmt.Errorf("unknown setting %q (theme, currency, dateformat, timezone)", key)
	}
	_, err := s.svc.UpdateSettings(s.ctx, next)
	return err
}
