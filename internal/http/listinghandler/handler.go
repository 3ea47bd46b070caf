package listinghandler

import (
	"errors"
	"net/http"

	"commercego/internal/http/middleware"
	"commercego/internal/services/listing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc listing.IListingService
}

func New(svc listing.IListingService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/listings", h.index)
	r.POST("/listings", middleware.RequireUser, h.create)
	r.GET("/listings/:id", h.page)
	r.POST("/listings/:id/bids", middleware.RequireUser, h.bid)
	r.POST("/listings/:id/close", middleware.RequireUser, h.close)
	r.POST("/listings/:id/watch", middleware.RequireUser, h.watch)
	r.POST("/listings/:id/comments", middleware.RequireUser, h.comment)
	r.GET("/watchlist", h.watchlist)
	r.GET("/categories", h.categories)
	r.POST("/categories", middleware.RequireUser, h.createCategory)
	r.GET("/categories/:label/listings", h.byCategory)
	r.GET("/forms/:name", h.form)
}

// fail answers err with the matching status; unknown errors are logged and hidden.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, listing.ErrListingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, listing.ErrInvalidListing),
		errors.Is(err, listing.ErrInvalidComment),
		errors.Is(err, listing.ErrInvalidCategory),
		errors.Is(err, listing.ErrCategoryNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, listing.ErrCategoryExists):
		status = http.StatusConflict
	case errors.Is(err, listing.ErrNotSeller):
		status = http.StatusForbidden
	case errors.Is(err, listing.ErrUnauthenticated):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("http_listing_failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func bindID(c *gin.Context) (int64, bool) {
	var uri ListingURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid listing id"})
		return 0, false
	}
	return uri.ID, true
}

// @Summary		Active listings
// @Description	All open listings, newest first, with the caller's watch flag.
// @Tags			Listings
// @Success		200	{object}	ListingsResponse
// @Router			/listings [get]
func (h *Handler) index(c *gin.Context) {
	list, err := h.svc.ActiveListings(c.Request.Context(), middleware.User(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Listings: list})
}

// @Summary		Create a listing
// @Description	Opens a listing sold by the caller. On invalid input the submitted values are echoed back.
// @Tags			Listings
// @Param			body	body		CreateListingBody	true	"Listing"
// @Success		201		{object}	ListingResponse
// @Failure		400		{object}	InvalidListingResponse
// @Failure		401		{object}	ErrorResponse
// @Router			/listings [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateListingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, InvalidListingResponse{Error: err.Error(), Values: body})
		return
	}

	l, err := h.svc.CreateListing(c.Request.Context(), middleware.User(c), listing.NewListing{
		Title:       body.Title,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		StartBid:    body.StartBid,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		if errors.Is(err, listing.ErrInvalidListing) || errors.Is(err, listing.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, InvalidListingResponse{Error: err.Error(), Values: body})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ListingResponse{Listing: l})
}

// @Summary		Listing page
// @Tags			Listings
// @Param			id	path		int	true	"Listing ID"
// @Success		200	{object}	ListingPageResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/listings/{id} [get]
func (h *Handler) page(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.renderPage(c, id, listing.BidNotAttempted)
}

func (h *Handler) renderPage(c *gin.Context, id int64, outcome listing.BidOutcome) {
	view, err := h.svc.GetListing(c.Request.Context(), middleware.User(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListingPageResponse{
		Listing:    view.Listing,
		Comments:   view.Comments,
		Watched:    view.Watched,
		BidSuccess: outcome,
	})
}

// @Summary		Place a bid
// @Description	The bid must reach the starting bid and beat the current one. bidSuccess is 1 when accepted and 2 when rejected.
// @Tags			Listings
// @Param			id		path		int				true	"Listing ID"
// @Param			body	body		PlaceBidBody	true	"Bid"
// @Success		200		{object}	ListingPageResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/listings/{id}/bids [post]
func (h *Handler) bid(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := h.svc.PlaceBid(c.Request.Context(), middleware.User(c), id, *body.Price)
	if err != nil {
		fail(c, err)
		return
	}
	h.renderPage(c, id, outcome)
}

// @Summary		Close a listing
// @Description	Seller closes the listing; the author of the latest bid becomes the buyer.
// @Tags			Listings
// @Param			id	path		int	true	"Listing ID"
// @Success		200	{object}	ListingResponse
// @Failure		403	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/listings/{id}/close [post]
func (h *Handler) close(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	l, err := h.svc.CloseListing(c.Request.Context(), middleware.User(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListingResponse{Listing: l})
}

// @Summary		Toggle watch
// @Tags			Listings
// @Param			id	path		int	true	"Listing ID"
// @Success		200	{object}	WatchResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/listings/{id}/watch [post]
func (h *Handler) watch(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	watched, err := h.svc.ToggleWatch(c.Request.Context(), middleware.User(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, WatchResponse{Watched: watched})
}

// @Summary		Comment on a listing
// @Tags			Listings
// @Param			id		path		int			true	"Listing ID"
// @Param			body	body		CommentBody	true	"Comment"
// @Success		201		{object}	CommentsResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/listings/{id}/comments [post]
func (h *Handler) comment(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var body CommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.AddComment(ctx, middleware.User(c), id, body.Text); err != nil {
		fail(c, err)
		return
	}
	comments, err := h.svc.Comments(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, CommentsResponse{Comments: comments})
}

// @Summary		Watchlist
// @Description	Listings the caller watches; empty for anonymous callers.
// @Tags			Listings
// @Success		200	{object}	ListingsResponse
// @Router			/watchlist [get]
func (h *Handler) watchlist(c *gin.Context) {
	list, err := h.svc.Watchlist(c.Request.Context(), middleware.User(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Listings: list})
}

// @Summary		Categories
// @Tags			Categories
// @Success		200	{object}	CategoriesResponse
// @Router			/categories [get]
func (h *Handler) categories(c *gin.Context) {
	list, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CategoriesResponse{Categories: list})
}

// @Summary		Create a category
// @Tags			Categories
// @Param			body	body		CategoryBody	true	"Category"
// @Success		201		{object}	listing.Category
// @Failure		409		{object}	ErrorResponse
// @Router			/categories [post]
func (h *Handler) createCategory(c *gin.Context) {
	var body CategoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), body.Label)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary		Listings of a category
// @Description	Active listings whose category label matches exactly.
// @Tags			Categories
// @Param			label	path		string	true	"Category label"	default(Home)
// @Success		200		{object}	ListingsResponse
// @Router			/categories/{label}/listings [get]
func (h *Handler) byCategory(c *gin.Context) {
	var uri CategoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	list, err := h.svc.ListByCategory(c.Request.Context(), middleware.User(c), uri.Label)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Listings: list})
}

// @Summary		Form description
// @Description	Field table of the listing, bid or comment form.
// @Tags			Forms
// @Param			name	path		string	true	"Form name"	Enums(listing,bid,comment)
// @Success		200		{object}	listing.Form
// @Failure		404		{object}	ErrorResponse
// @Router			/forms/{name} [get]
func (h *Handler) form(c *gin.Context) {
	f, ok := listing.Forms[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown form"})
		return
	}
	c.JSON(http.StatusOK, f)
}
