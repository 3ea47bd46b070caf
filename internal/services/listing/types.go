package listing

import "time"

// NoBidSentinel is stored as current_bid when a listing is created. It sorts
// below any acceptable price, like a NULL current_bid on legacy rows.
const NoBidSentinel = -1.0

// BidOutcome is the tri-state reported to clients as "bidSuccess".
type BidOutcome int

const (
	BidNotAttempted BidOutcome = 0
	BidAccepted     BidOutcome = 1
	BidRejected     BidOutcome = 2
)

type Category struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type Listing struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CategoryID  int64     `json:"category_id"`
	Category    string    `json:"category"`
	StartBid    float64   `json:"start_bid"`
	CurrentBid  *float64  `json:"current_bid"`
	SellerID    *int64    `json:"seller_id"`
	BuyerID     *int64    `json:"buyer_id"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	Watched     bool      `json:"watched"`
}

type Bid struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ListingID int64     `json:"listing_id"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ListingID int64     `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewListing is the input of CreateListing.
type NewListing struct {
	Title       string  `json:"title"        validate:"required,max=64"`
	Description string  `json:"description"  validate:"max=500"`
	CategoryID  int64   `json:"category_id"  validate:"required,gt=0"`
	StartBid    float64 `json:"start_bid"    validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"    validate:"omitempty,url,max=500"`
}

// ListingView is everything the listing page shows.
type ListingView struct {
	Listing  Listing   `json:"listing"`
	Comments []Comment `json:"comments"`
	Watched  bool      `json:"watched"`
}

// Event is published on the listing's channel after a state change.
type Event struct {
	Event     string    `json:"event"`
	ListingID int64     `json:"listing_id"`
	UserID    int64     `json:"user_id,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	BuyerID   *int64    `json:"buyer_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	At        time.Time `json:"at"`
}

const (
	EventBid     = "bid"
	EventClosed  = "closed"
	EventComment = "comment"
)
