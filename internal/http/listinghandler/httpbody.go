package listinghandler

import (
	"commercego/internal/services/listing"
)

type ListingURI struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

type CategoryURI struct {
	Label string `uri:"label" binding:"required"`
}

type CreateListingBody struct {
	Title       string  `json:"title"       binding:"required,max=64"        example:"Desk lamp"`
	Description string  `json:"description" binding:"max=500"                example:"Brass, works fine"`
	CategoryID  int64   `json:"category_id" binding:"required,gt=0"          example:"1"`
	StartBid    float64 `json:"start_bid"   binding:"required,gt=0"          example:"10"`
	ImageURL    string  `json:"image_url"   binding:"omitempty,url,max=500"  example:"https://example.com/lamp.jpg"`
} // @name CreateListingRequest

type PlaceBidBody struct {
	Price *float64 `json:"price" binding:"required" example:"12.5"`
} // @name PlaceBidRequest

type CommentBody struct {
	Text string `json:"text" binding:"required,max=500" example:"Is it still available?"`
} // @name CommentRequest

type CategoryBody struct {
	Label string `json:"label" binding:"required,max=300" example:"Home"`
} // @name CreateCategoryRequest

type ListingsResponse struct {
	Listings []listing.Listing `json:"listings"`
} // @name ListingsResponse

type ListingResponse struct {
	Listing *listing.Listing `json:"listing"`
} // @name ListingResponse

// ListingPageResponse is the listing page. BidSuccess is 0 when no bid was
// attempted, 1 when the bid was accepted and 2 when it was rejected.
type ListingPageResponse struct {
	Listing    listing.Listing    `json:"listing"`
	Comments   []listing.Comment  `json:"comments"`
	Watched    bool               `json:"watched"`
	BidSuccess listing.BidOutcome `json:"bidSuccess" enums:"0,1,2"`
} // @name ListingPageResponse

type WatchResponse struct {
	Watched bool `json:"watched"`
} // @name WatchResponse

type CommentsResponse struct {
	Comments []listing.Comment `json:"comments"`
} // @name CommentsResponse

type CategoriesResponse struct {
	Categories []listing.Category `json:"categories"`
} // @name CategoriesResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

// InvalidListingResponse echoes the submitted values so the form can be
// redrawn with them.
type InvalidListingResponse struct {
	Error  string            `json:"error"`
	Values CreateListingBody `json:"values"`
} // @name InvalidListingResponse
