package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mfiorim/boutique-concierge/internal/domain"
)

// rawIntent is the wire shape the model is asked to produce. Quantity is a
// pointer so an explicit zero survives parsing and gets rejected downstream
// instead of reading like an omitted field.
type rawIntent struct {
	Action   string `json:"action"`
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// ParseIntent turns model output into an Intent. Hosted models are sloppy
// about "JSON only" instructions, so parsing runs a repair ladder before
// giving up: direct parse, largest brace-delimited block, then appending
// missing closing braces. Callers map the error to an UNKNOWN intent.
func ParseIntent(output string) (domain.Intent, error) {
	cleaned := stripFences(output)

	candidates := []string{cleaned}

	// Largest {...} block
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start != -1 && end > start {
		candidates = append(candidates, cleaned[start:end+1])
	}

	// Balance unclosed braces (models truncated by stop sequences)
	if open, closed := strings.Count(cleaned, "{"), strings.Count(cleaned, "}"); open > closed {
		candidates = append(candidates, cleaned+strings.Repeat("}", open-closed))
	}

	var lastErr error
	for _, candidate := range candidates {
		var raw rawIntent
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			lastErr = err
			continue
		}
		return toIntent(raw)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON object in output")
	}
	return domain.Unknown(), fmt.Errorf("failed to parse model output: %w", lastErr)
}

func toIntent(raw rawIntent) (domain.Intent, error) {
	action := domain.Action(strings.ToUpper(strings.TrimSpace(raw.Action)))
	if !action.Valid() {
		return domain.Unknown(), fmt.Errorf("unknown action %q", raw.Action)
	}

	intent := domain.Intent{
		Action:  action,
		Product: strings.TrimSpace(raw.Product),
	}

	// Ordering without a count means one item. An explicit zero is kept.
	switch {
	case raw.Quantity != nil:
		intent.Quantity = *raw.Quantity
	case action == domain.ActionPlaceOrder:
		intent.Quantity = 1
	}

	return intent, nil
}

// stripFences removes markdown code fences the model wraps around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
