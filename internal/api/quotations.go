package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"quotation-desk/internal/core"
)

func (c *Client) ListQuotations(ctx context.Context) ([]core.Quotation, error) {
	var list []core.Quotation
	if err := c.getList(ctx, "/quotations", nil, "quotations", &list); err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	return list, nil
}

// ListPartyQuotations returns the quotations of one client.
func (c *Client) ListPartyQuotations(ctx context.Context, partyID string) ([]core.Quotation, error) {
	var list []core.Quotation
	path := "/quotations/party/" + url.PathEscape(partyID)
	if err := c.getList(ctx, path, nil, "quotations", &list); err != nil {
		return nil, fmt.Errorf("list quotations of party %s: %w", partyID, err)
	}
	return list, nil
}

func (c *Client) GetQuotation(ctx context.Context, id string) (core.Quotation, error) {
	var q core.Quotation
	if err := c.getObject(ctx, "/quotations/"+url.PathEscape(id), &q, "_id", "id"); err != nil {
		return core.Quotation{}, fmt.Errorf("get quotation %s: %w", id, err)
	}
	return q, nil
}

// SubmitQuotation persists a draft snapshot: create for new drafts, update
// for edits, revise for new versions. The returned quotation always has an
// id; a success answer without one is ErrMalformedResponse.
func (c *Client) SubmitQuotation(ctx context.Context, p core.SubmitPayload) (core.Quotation, error) {
	method, path := http.MethodPost, "/quotations"
	switch p.Mode {
	case core.ModeEdit:
		method, path = http.MethodPut, "/quotations/"+url.PathEscape(p.SourceID)
	case core.ModeRevise:
		path = "/quotations/" + url.PathEscape(p.SourceID) + "/revise"
	}
	if p.Mode != core.ModeNew && p.SourceID == "" {
		return core.Quotation{}, fmt.Errorf("submit quotation: %s requires a source quotation", p.Mode)
	}

	body, err := c.do(ctx, method, path, nil, newQuotationBody(p))
	if err != nil {
		return core.Quotation{}, fmt.Errorf("submit quotation: %w", err)
	}
	var q core.Quotation
	if err := c.decodeObject(body, &q, "_id", "id"); err != nil {
		return core.Quotation{}, fmt.Errorf("submit quotation: %w", err)
	}
	return q, nil
}

// UpdateQuotationStatus moves a quotation to status, recording note.
func (c *Client) UpdateQuotationStatus(ctx context.Context, id string, status core.QuotationStatus, note string) (core.Quotation, error) {
	if !status.Valid() {
		return core.Quotation{}, fmt.Errorf("update quotation status: unknown status %q", status)
	}
	path := "/quotations/" + url.PathEscape(id) + "/status"
	body, err := c.do(ctx, http.MethodPut, path, nil, statusBody{Status: string(status), Note: note})
	if err != nil {
		return core.Quotation{}, fmt.Errorf("update quotation status: %w", err)
	}
	var q core.Quotation
	if err := c.decodeObject(body, &q, "_id", "id"); err != nil {
		return core.Quotation{}, fmt.Errorf("update quotation status: %w", err)
	}
	return q, nil
}

func (c *Client) DeleteQuotation(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/quotations/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete quotation %s: %w", id, err)
	}
	return nil
}
