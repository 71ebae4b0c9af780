package llm

import (
	"fmt"
	"strings"
)

// BuildIntentPrompt creates the extraction prompt for one utterance. The
// catalog is embedded so the model grounds product arguments in names that
// actually exist, and the recent history lets it resolve follow-up references.
func BuildIntentPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You are a JSON-focused intent extractor for an online boutique. Your responses must be PURE JSON - no markdown, no explanations, no extra text.

STRICT RESPONSE FORMAT, one of:
{"action": "LIST_PRODUCTS"}
{"action": "DESCRIBE_PRODUCT", "product": "<NAME>"}
{"action": "PLACE_ORDER", "product": "<NAME>", "quantity": <NUMBER>}
{"action": "CHECK_ORDER"}
{"action": "UNKNOWN"}

RULES:
1. Response MUST be a single JSON object
2. No text before or after the JSON
3. Quantity must be a positive integer; default to 1 when the user orders without a count
4. Use product names from the catalog below; never invent products
5. If the user refers to "it" or "that one", resolve against the conversation so far
6. Use UNKNOWN if the request does not fit any action or you are not sure
`)

	if len(req.Products) > 0 {
		b.WriteString("\nAVAILABLE PRODUCTS:\n")
		for _, p := range req.Products {
			fmt.Fprintf(&b, "- %s: $%.2f (id %s)\n", p.Name, p.PriceUSD, p.ID)
		}
	}

	if len(req.History) > 0 {
		b.WriteString("\nCONVERSATION SO FAR:\n")
		for _, turn := range req.History {
			fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.Utterance, turn.Reply)
		}
	}

	b.WriteString(`
EXAMPLE INPUTS AND OUTPUTS:

Input: "show me what you have"
Output: {"action": "LIST_PRODUCTS"}

Input: "I want to buy 2 sunglasses"
Output: {"action": "PLACE_ORDER", "product": "sunglasses", "quantity": 2}

Input: "tell me about the candle holder"
Output: {"action": "DESCRIBE_PRODUCT", "product": "candle holder"}

Input: "where is my order?"
Output: {"action": "CHECK_ORDER"}

`)
	fmt.Fprintf(&b, "USER INPUT: %q\n\nRESPOND WITH JSON ONLY:\n", req.Utterance)

	return b.String()
}
