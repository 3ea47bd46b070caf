package ws

import (
	"encoding/json"

	"commercego/internal/services/listing"
)

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "listings/bid"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// BidRequest is the body for "listings/bid".
type BidRequest struct {
	Price *float64 `json:"price"`
}

// BidAck answers "listings/bid" with the same tri-state as the HTTP API.
type BidAck struct {
	BidSuccess listing.BidOutcome `json:"bidSuccess"`
}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
