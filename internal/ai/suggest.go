package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bakehouse-backend/internal/inventory"
	"bakehouse-backend/internal/models"

	"github.com/shopspring/decimal"
)

// SuggestedItem references an inventory item by id with a decimal quantity
// string.
type SuggestedItem struct {
	InventoryID string `json:"inventory_id"`
	Quantity    string `json:"quantity"`
}

// RecipeSuggestion is a recipe draft for pre-filling the create-recipe form.
type RecipeSuggestion struct {
	Name         string          `json:"name"`
	Instructions string          `json:"instructions"`
	Ingredients  []SuggestedItem `json:"ingredients"`
	Others       []SuggestedItem `json:"others"`
}

// MarginSuggestion is a recommended target margin with a short rationale.
type MarginSuggestion struct {
	Margin    string `json:"margin"`
	Rationale string `json:"rationale"`
}

type Suggester struct {
	client    *Client
	inventory *inventory.Service
}

func NewSuggester(client *Client, inv *inventory.Service) *Suggester {
	return &Suggester{client: client, inventory: inv}
}

type generatedRecipe struct {
	Name        string          `json:"name"`
	Steps       []string        `json:"steps"`
	Ingredients []SuggestedItem `json:"ingredients"`
	Others      []SuggestedItem `json:"others"`
}

// GenerateRecipe asks the model for a recipe draft built only from the
// tenant's inventory. Unknown ids and malformed quantities are dropped: model
// output is never trusted.
func (s *Suggester) GenerateRecipe(ctx context.Context, userID string) (*RecipeSuggestion, error) {
	items, err := s.inventory.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load inventory: %w", err)
	}

	known := make(map[string]bool, len(items))
	var ingredientLines, otherLines []string
	for _, item := range items {
		known[item.ID] = true
		line := fmt.Sprintf("- ID: %q, Name: %q, Unit: %q", item.ID, item.Name, item.Unit)
		if item.Category == models.CategoryIngredient {
			ingredientLines = append(ingredientLines, line)
		} else {
			otherLines = append(otherLines, line)
		}
	}

	ingredients := strings.Join(ingredientLines, "\n")
	if ingredients == "" {
		ingredients = "None available"
	}
	others := strings.Join(otherLines, "\n")
	if others == "" {
		others = "None available"
	}

	prompt := fmt.Sprintf(`Generate a creative food recipe using ONLY items from these lists.

INGREDIENTS (food items):
%s

OTHERS (packaging, labels, etc.):
%s

Rules:
1. Use ONLY the exact IDs provided above
2. Quantities can be decimals (e.g. "0.5", "1.5", "100", "2")
3. Be creative with the recipe name
4. Write clear cooking instructions as separate steps

Respond with ONLY a JSON object of this shape, no markdown:
{"name": "...", "steps": ["..."], "ingredients": [{"inventory_id": "...", "quantity": "..."}], "others": [{"inventory_id": "...", "quantity": "..."}]}`, ingredients, others)

	content, err := s.client.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var generated generatedRecipe
	if err := json.Unmarshal([]byte(stripFences(content)), &generated); err != nil {
		return nil, fmt.Errorf("could not parse suggestion: %w", err)
	}

	var instructions strings.Builder
	for i, step := range generated.Steps {
		fmt.Fprintf(&instructions, "%d. %s\n", i+1, step)
	}

	return &RecipeSuggestion{
		Name:         generated.Name,
		Instructions: strings.TrimRight(instructions.String(), "\n"),
		Ingredients:  filterKnown(generated.Ingredients, known),
		Others:       filterKnown(generated.Others, known),
	}, nil
}

// SuggestMargin asks the model for a target margin given the recipe name and
// its total cost.
func (s *Suggester) SuggestMargin(ctx context.Context, recipeName, totalCost, currency string) (*MarginSuggestion, error) {
	if currency == "" {
		currency = "units"
	}
	prompt := fmt.Sprintf(`A small food-production business sells %q. Producing one unit costs %s %s.
Suggest a realistic target profit margin percentage for a small artisan producer.

Respond with ONLY a JSON object, no markdown:
{"margin": "<number between 0 and 99>", "rationale": "<one short sentence>"}`, recipeName, totalCost, currency)

	content, err := s.client.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	var suggestion MarginSuggestion
	if err := json.Unmarshal([]byte(stripFences(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("could not parse suggestion: %w", err)
	}

	margin, err := decimal.NewFromString(strings.TrimSpace(suggestion.Margin))
	if err != nil || margin.IsNegative() || margin.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("model suggested an invalid margin: %q", suggestion.Margin)
	}
	suggestion.Margin = margin.String()

	return &suggestion, nil
}

func filterKnown(items []SuggestedItem, known map[string]bool) []SuggestedItem {
	result := make([]SuggestedItem, 0, len(items))
	for _, item := range items {
		if !known[item.InventoryID] {
			continue
		}
		if qty, err := decimal.NewFromString(strings.TrimSpace(item.Quantity)); err != nil || !qty.IsPositive() {
			continue
		}
		result = append(result, item)
	}
	return result
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
