package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"quotation-desk/internal/core"
)

// PartyInput is the writable part of a client record.
type PartyInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Source   string `json:"source,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ListParties returns clients, optionally narrowed by a server-side search.
func (c *Client) ListParties(ctx context.Context, search string) ([]core.Party, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	var list []core.Party
	if err := c.getList(ctx, "/parties", q, "parties", &list); err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return list, nil
}

func (c *Client) GetParty(ctx context.Context, id string) (core.Party, error) {
	var p core.Party
	if err := c.getObject(ctx, "/parties/"+url.PathEscape(id), &p, "_id", "id"); err != nil {
		return core.Party{}, fmt.Errorf("get party %s: %w", id, err)
	}
	return p, nil
}

func (c *Client) CreateParty(ctx context.Context, in PartyInput) (core.Party, error) {
	if in.Name == "" {
		return core.Party{}, fmt.Errorf("create party: name is required")
	}
	return c.writeParty(ctx, http.MethodPost, "/parties", in)
}

func (c *Client) UpdateParty(ctx context.Context, id string, in PartyInput) (core.Party, error) {
	return c.writeParty(ctx, http.MethodPut, "/parties/"+url.PathEscape(id), in)
}

func (c *Client) DeleteParty(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/parties/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete party %s: %w", id, err)
	}
	return nil
}

func (c *Client) writeParty(ctx context.Context, method, path string, in PartyInput) (core.Party, error) {
	body, err := c.do(ctx, method, path, nil, in)
	if err != nil {
		return core.Party{}, fmt.Errorf("save party: %w", err)
	}
	var p core.Party
	if err := c.decodeObject(body, &p, "_id", "id"); err != nil {
		return core.Party{}, fmt.Errorf("save party: %w", err)
	}
	return p, nil
}
