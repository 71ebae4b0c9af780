package llm

import (
	"testing"

	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    domain.Intent
		wantErr bool
	}{
		{
			name:   "clean list",
			output: `{"action": "LIST_PRODUCTS"}`,
			want:   domain.Intent{Action: domain.ActionListProducts},
		},
		{
			name:   "order with arguments",
			output: `{"action": "PLACE_ORDER", "product": "sunglasses", "quantity": 2}`,
			want:   domain.Intent{Action: domain.ActionPlaceOrder, Product: "sunglasses", Quantity: 2},
		},
		{
			name:   "order defaults quantity to one",
			output: `{"action": "PLACE_ORDER", "product": "candle"}`,
			want:   domain.Intent{Action: domain.ActionPlaceOrder, Product: "candle", Quantity: 1},
		},
		{
			name:   "explicit zero quantity is preserved",
			output: `{"action": "PLACE_ORDER", "product": "sunglasses", "quantity": 0}`,
			want:   domain.Intent{Action: domain.ActionPlaceOrder, Product: "sunglasses", Quantity: 0},
		},
		{
			name:   "negative quantity is preserved",
			output: `{"action": "PLACE_ORDER", "product": "sunglasses", "quantity": -2}`,
			want:   domain.Intent{Action: domain.ActionPlaceOrder, Product: "sunglasses", Quantity: -2},
		},
		{
			name:   "markdown fenced",
			output: "```json\n{\"action\": \"CHECK_ORDER\"}\n```",
			want:   domain.Intent{Action: domain.ActionCheckOrder},
		},
		{
			name:   "chatter around the object",
			output: `Sure! Here is the intent: {"action": "DESCRIBE_PRODUCT", "product": "mug"} Hope that helps.`,
			want:   domain.Intent{Action: domain.ActionDescribeProduct, Product: "mug"},
		},
		{
			name:   "truncated by stop sequence",
			output: `{"action": "LIST_PRODUCTS"`,
			want:   domain.Intent{Action: domain.ActionListProducts},
		},
		{
			name:   "lowercase action normalized",
			output: `{"action": "check_order"}`,
			want:   domain.Intent{Action: domain.ActionCheckOrder},
		},
		{
			name:    "action outside the closed set",
			output:  `{"action": "DELETE_EVERYTHING"}`,
			want:    domain.Unknown(),
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			output:  "I'm sorry, I can't help with that.",
			want:    domain.Unknown(),
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			want:    domain.Unknown(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntent(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildIntentPrompt(t *testing.T) {
	req := Request{
		Utterance: "I want 2 sunglasses",
		Products: []domain.Product{
			{ID: "OLJCESPC7Z", Name: "Sunglasses", PriceUSD: 19.99},
			{ID: "66VCHSJNUP", Name: "Tank Top", PriceUSD: 18.99},
		},
		History: []domain.Turn{
			{Utterance: "show products", Reply: "Here is what we have..."},
		},
	}

	prompt := BuildIntentPrompt(req)

	assert.Contains(t, prompt, "Sunglasses: $19.99")
	assert.Contains(t, prompt, "id OLJCESPC7Z")
	assert.Contains(t, prompt, "User: show products")
	assert.Contains(t, prompt, `"I want 2 sunglasses"`)
	assert.Contains(t, prompt, "PLACE_ORDER")
	assert.Contains(t, prompt, "UNKNOWN")
}

func TestBuildIntentPromptWithoutCatalog(t *testing.T) {
	prompt := BuildIntentPrompt(Request{Utterance: "hello"})
	assert.NotContains(t, prompt, "AVAILABLE PRODUCTS")
	assert.NotContains(t, prompt, "CONVERSATION SO FAR")
}
