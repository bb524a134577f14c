package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"quotation-desk/internal/core"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// maxCatalogLines caps how much of the catalog goes into one prompt.
const maxCatalogLines = 400

type DraftingService interface {
	SuggestLineItems(ctx context.Context, requirement string, catalog []core.Component) (*Suggestion, error)
}

// SuggestedLine is one catalog component the model proposes for the quotation.
type SuggestedLine struct {
	ComponentID string `json:"componentId" jsonschema_description:"id of a component from the catalog list"`
	Quantity    int    `json:"quantity" jsonschema_description:"number of units, at least 1"`
	Reason      string `json:"reason" jsonschema_description:"one short sentence on why this component fits"`
}

// Suggestion is the structured answer of the drafting assistant. When the
// requirement is too vague, Lines is empty and Clarification asks a question.
type Suggestion struct {
	Lines         []SuggestedLine `json:"lines"`
	Clarification string          `json:"clarification" jsonschema_description:"question to ask the user when the requirement is unclear, otherwise empty"`
}

type Assistant struct {
	client *openai.Client
	model  string
}

func NewAssistant(apiKey, model string) *Assistant {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultModel
	}
	return &Assistant{client: &client, model: model}
}

func (a *Assistant) SuggestLineItems(ctx context.Context, requirement string, catalog []core.Component) (*Suggestion, error) {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return nil, fmt.Errorf("requirement is empty")
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("component catalog is empty")
	}

	prompt := fmt.Sprintf(`You help a computer hardware reseller draft a sales quotation.
Pick components for the customer requirement below.
Rules:
1. Use ONLY component ids from the catalog list.
2. Quantities are whole numbers of at least 1.
3. Prefer one component per role unless the requirement asks for more.
4. If the requirement is too vague to pick anything, return no lines and ask a clarification question.

Catalog (id | name | category | brand | sale price incl. tax):
%s

Requirement: %s`, catalogListing(catalog), requirement)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "quotation_line_suggestion",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Catalog components proposed for a sales quotation"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	clean := SanitizeSuggestion(s, catalog)
	return &clean, nil
}

// SanitizeSuggestion drops lines that reference components missing from the
// catalog, merges repeated components and lifts quantities below 1 to 1.
func SanitizeSuggestion(s Suggestion, catalog []core.Component) Suggestion {
	out := Suggestion{Clarification: strings.TrimSpace(s.Clarification)}
	seen := make(map[string]int)
	for _, line := range s.Lines {
		id := strings.TrimSpace(line.ComponentID)
		if _, ok := core.FindComponent(catalog, id); !ok {
			continue
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		if i, dup := seen[id]; dup {
			out.Lines[i].Quantity += qty
			continue
		}
		seen[id] = len(out.Lines)
		out.Lines = append(out.Lines, SuggestedLine{
			ComponentID: id,
			Quantity:    qty,
			Reason:      strings.TrimSpace(line.Reason),
		})
	}
	return out
}

func catalogListing(catalog []core.Component) string {
	var b strings.Builder
	for i, c := range catalog {
		if i == maxCatalogLines {
			break
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s\n",
			c.ID, c.Name, c.Category, c.Brand, c.SalesPrice.StringFixed(2))
	}
	return b.String()
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Suggestion
	return reflector.Reflect(v)
}
