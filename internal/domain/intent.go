package domain

// Action is the closed set of things the extractor may ask the orchestrator to do.
type Action string

const (
	ActionListProducts    Action = "LIST_PRODUCTS"
	ActionDescribeProduct Action = "DESCRIBE_PRODUCT"
	ActionPlaceOrder      Action = "PLACE_ORDER"
	ActionCheckOrder      Action = "CHECK_ORDER"
	ActionUnknown         Action = "UNKNOWN"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionListProducts, ActionDescribeProduct, ActionPlaceOrder, ActionCheckOrder, ActionUnknown:
		return true
	}
	return false
}

// Intent is the structured result of natural-language understanding for one turn.
// Product and Quantity are only meaningful for the actions that require them;
// anything the extractor could not map onto the closed action set becomes Unknown.
type Intent struct {
	Action   Action `json:"action"`
	Product  string `json:"product,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// Unknown is the fallback intent for unparseable or out-of-scope utterances.
func Unknown() Intent {
	return Intent{Action: ActionUnknown}
}

// NeedsProduct reports whether the intent's action requires a product argument.
func (i Intent) NeedsProduct() bool {
	return i.Action == ActionDescribeProduct || i.Action == ActionPlaceOrder
}
