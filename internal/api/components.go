package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/core"
)

// ListComponents returns the catalog. Entries without an id or a name
// cannot be quoted and are dropped.
func (c *Client) ListComponents(ctx context.Context) ([]core.Component, error) {
	var list []core.Component
	if err := c.getList(ctx, "/components", nil, "components", &list); err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return usableComponents(list), nil
}

func (c *Client) GetComponent(ctx context.Context, id string) (core.Component, error) {
	var comp core.Component
	if err := c.getObject(ctx, "/components/"+url.PathEscape(id), &comp, "_id", "id"); err != nil {
		return core.Component{}, fmt.Errorf("get component %s: %w", id, err)
	}
	return comp, nil
}

// ComponentInput is the writable part of a catalog entry. Category and
// brand travel as names; the server resolves them.
type ComponentInput struct {
	Name           string
	Category       string
	Brand          string
	HSN            string
	Warranty       string
	Description    string
	Specifications string
	PurchasePrice  decimal.Decimal
	SalesPrice     decimal.Decimal
	GSTRate        decimal.Decimal
}

type componentInputBody struct {
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	Brand          string      `json:"brand"`
	HSN            string      `json:"hsn"`
	Warranty       string      `json:"warranty"`
	Description    string      `json:"description"`
	Specifications string      `json:"specifications"`
	PurchasePrice  json.Number `json:"purchasePrice"`
	SalesPrice     json.Number `json:"salesPrice"`
	GSTRate        json.Number `json:"gstRate"`
}

func (in ComponentInput) body() componentInputBody {
	return componentInputBody{
		Name:           in.Name,
		Category:       in.Category,
		Brand:          in.Brand,
		HSN:            in.HSN,
		Warranty:       in.Warranty,
		Description:    in.Description,
		Specifications: in.Specifications,
		PurchasePrice:  money(in.PurchasePrice),
		SalesPrice:     money(in.SalesPrice),
		GSTRate:        number(in.GSTRate),
	}
}

func (c *Client) CreateComponent(ctx context.Context, in ComponentInput) (core.Component, error) {
	return c.writeComponent(ctx, http.MethodPost, "/components", in)
}

func (c *Client) UpdateComponent(ctx context.Context, id string, in ComponentInput) (core.Component, error) {
	return c.writeComponent(ctx, http.MethodPut, "/components/"+url.PathEscape(id), in)
}

func (c *Client) DeleteComponent(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/components/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete component %s: %w", id, err)
	}
	return nil
}

func (c *Client) writeComponent(ctx context.Context, method, path string, in ComponentInput) (core.Component, error) {
	body, err := c.do(ctx, method, path, nil, in.body())
	if err != nil {
		return core.Component{}, fmt.Errorf("save component: %w", err)
	}
	var comp core.Component
	if err := c.decodeObject(body, &comp, "_id", "id"); err != nil {
		return core.Component{}, fmt.Errorf("save component: %w", err)
	}
	return comp, nil
}

func usableComponents(list []core.Component) []core.Component {
	out := list[:0]
	for _, comp := range list {
		if comp.ID == "" || comp.Name == "" {
			continue
		}
		out = append(out, comp)
	}
	return out
}
