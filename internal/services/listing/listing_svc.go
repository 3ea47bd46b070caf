package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"commercego/internal/database/pgerr"
	"commercego/internal/identity"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxCommentLen = 500

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidListing   = errors.New("invalid listing")
	ErrInvalidComment   = errors.New("comment must be 1-500 characters")
	ErrInvalidCategory  = errors.New("category label must be 1-300 characters")
	ErrNotSeller        = errors.New("only the seller can close this listing")
	ErrUnauthenticated  = errors.New("login required")
)

// EventPublisher fans listing events out to live subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

//go:generate mockgen -destination=mock_listing_svc.go -package=listing -self_package=commercego/internal/services/listing commercego/internal/services/listing IListingService
type IListingService interface {
	CreateListing(ctx context.Context, seller identity.User, in NewListing) (*Listing, error)
	PlaceBid(ctx context.Context, bidder identity.User, listingID int64, price float64) (BidOutcome, error)
	CloseListing(ctx context.Context, user identity.User, listingID int64) (*Listing, error)
	ToggleWatch(ctx context.Context, user identity.User, listingID int64) (bool, error)
	AddComment(ctx context.Context, user identity.User, listingID int64, text string) (*Comment, error)

	GetListing(ctx context.Context, viewer identity.User, listingID int64) (*ListingView, error)
	ActiveListings(ctx context.Context, viewer identity.User) ([]Listing, error)
	ListByCategory(ctx context.Context, viewer identity.User, label string) ([]Listing, error)
	Watchlist(ctx context.Context, user identity.User) ([]Listing, error)
	Comments(ctx context.Context, listingID int64) ([]Comment, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, label string) (*Category, error)
}

type listingService struct {
	db       *sql.DB
	events   EventPublisher
	validate *validator.Validate
	now      func() time.Time
}

var _ IListingService = (*listingService)(nil)

func NewListingService(db *sql.DB, events EventPublisher) IListingService {
	return &listingService{
		db:       db,
		events:   events,
		validate: validator.New(),
		now:      time.Now,
	}
}

// listingColumns expects $1 to be the viewer id (0 for anonymous).
const listingColumns = `
	SELECT l.id, l.title, l.description, l.active, l.category_id, c.label,
	       l.start_bid, l.current_bid, l.seller_id, l.buyer_id, l.image_url, l.created_at,
	       EXISTS (SELECT 1 FROM listing_watchers w
	                WHERE w.listing_id = l.id AND w.user_id = $1) AS watched
	  FROM listings l
	  JOIN categories c ON c.id = l.category_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (Listing, error) {
	var (
		l        Listing
		current  sql.NullFloat64
		sellerID sql.NullInt64
		buyerID  sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Active, &l.CategoryID, &l.Category,
		&l.StartBid, &current, &sellerID, &buyerID, &l.ImageURL, &l.CreatedAt, &l.Watched)
	if err != nil {
		return Listing{}, err
	}
	if current.Valid {
		l.CurrentBid = &current.Float64
	}
	if sellerID.Valid {
		l.SellerID = &sellerID.Int64
	}
	if buyerID.Valid {
		l.BuyerID = &buyerID.Int64
	}
	return l, nil
}

func (svc *listingService) queryListings(ctx context.Context, query string, args ...any) ([]Listing, error) {
	rows, err := svc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (svc *listingService) getListing(ctx context.Context, viewer identity.User, id int64) (*Listing, error) {
	l, err := scanListing(svc.db.QueryRowContext(ctx, listingColumns+` WHERE l.id = $2`, viewer.ID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

// CreateListing stores an active listing whose current bid is the sentinel.
func (svc *listingService) CreateListing(ctx context.Context, seller identity.User, in NewListing) (*Listing, error) {
	if seller.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := svc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}

	const ins = `
	  INSERT INTO listings (title, description, active, category_id,
	                        start_bid, current_bid, seller_id, image_url)
	       SELECT $1, $2, TRUE, c.id, $4, $5, $6, $7
	         FROM categories c
	        WHERE c.id = $3
	    RETURNING id`

	var id int64
	err := svc.db.QueryRowContext(ctx, ins,
		in.Title, in.Description, in.CategoryID, in.StartBid, NoBidSentinel, seller.ID, in.ImageURL,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("insert listing: %w", err)
	}

	zap.L().Info("listing.created",
		zap.Int64("listing_id", id),
		zap.Int64("seller_id", seller.ID),
		zap.Float64("start_bid", in.StartBid),
	)
	return svc.getListing(ctx, seller, id)
}

// PlaceBid accepts price when the listing is open and price beats both its
// start and current bid. The bidder's user row and the listing row stay
// locked until commit, so two bidders never both win against the same current
// bid and one bidder never ends up holding two bids.
func (svc *listingService) PlaceBid(ctx context.Context, bidder identity.User, listingID int64, price float64) (BidOutcome, error) {
	if bidder.IsAnonymous() {
		return BidNotAttempted, ErrUnauthenticated
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return BidNotAttempted, err
	}
	defer tx.Rollback()

	// Bidder first, listing second: concurrent bids of one user on two
	// listings queue here, so the pruning below sees every earlier bid.
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, bidder.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BidNotAttempted, ErrUnauthenticated
		}
		return BidNotAttempted, fmt.Errorf("lock bidder %d: %w", bidder.ID, err)
	}

	var (
		l       = Listing{ID: listingID}
		current sql.NullFloat64
	)
	const lockQ = `SELECT active, start_bid, current_bid FROM listings WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQ, listingID).Scan(&l.Active, &l.StartBid, &current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BidNotAttempted, ErrListingNotFound
		}
		return BidNotAttempted, fmt.Errorf("lock listing %d: %w", listingID, err)
	}
	if current.Valid {
		l.CurrentBid = &current.Float64
	}

	if !CanAccept(price, l) {
		zap.L().Info("listing.bid_rejected",
			zap.Int64("listing_id", listingID),
			zap.Int64("user_id", bidder.ID),
			zap.Float64("price", price),
			zap.Bool("active", l.Active),
		)
		return BidRejected, nil
	}

	// A user keeps a single bid system-wide: the newest one.
	if _, err := tx.ExecContext(ctx, `DELETE FROM bids WHERE user_id = $1`, bidder.ID); err != nil {
		return BidNotAttempted, fmt.Errorf("prune bids of user %d: %w", bidder.ID, err)
	}

	var bid Bid
	const insBid = `
	  INSERT INTO bids (user_id, listing_id, price)
	       VALUES ($1, $2, $3)
	    RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, insBid, bidder.ID, listingID, price).Scan(&bid.ID, &bid.CreatedAt); err != nil {
		return BidNotAttempted, fmt.Errorf("insert bid: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE listings SET current_bid = $1 WHERE id = $2`, price, listingID); err != nil {
		return BidNotAttempted, fmt.Errorf("update current bid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return BidNotAttempted, err
	}

	zap.L().Info("listing.bid_accepted",
		zap.Int64("listing_id", listingID),
		zap.Int64("user_id", bidder.ID),
		zap.Int64("bid_id", bid.ID),
		zap.Float64("price", price),
	)
	svc.publish(ctx, Event{Event: EventBid, ListingID: listingID, UserID: bidder.ID, Price: &price})
	return BidAccepted, nil
}

// CloseListing deactivates the listing and makes the author of its most
// recently inserted bid the buyer. Closing twice repeats the same lookup.
func (svc *listingService) CloseListing(ctx context.Context, user identity.User, listingID int64) (*Listing, error) {
	if user.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var sellerID sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT seller_id FROM listings WHERE id = $1 FOR UPDATE`, listingID).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("lock listing %d: %w", listingID, err)
	}
	if !sellerID.Valid || sellerID.Int64 != user.ID {
		zap.L().Warn("listing.close_denied",
			zap.Int64("listing_id", listingID),
			zap.Int64("user_id", user.ID),
		)
		return nil, ErrNotSeller
	}

	var buyer sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM bids WHERE listing_id = $1 ORDER BY id DESC LIMIT 1`, listingID,
	).Scan(&buyer)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("last bid of listing %d: %w", listingID, err)
	}

	// Without a bid the buyer column is left as it is.
	const closeQ = `UPDATE listings SET active = FALSE, buyer_id = COALESCE($2, buyer_id) WHERE id = $1`
	if _, err := tx.ExecContext(ctx, closeQ, listingID, buyer); err != nil {
		return nil, fmt.Errorf("close listing %d: %w", listingID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	evt := Event{Event: EventClosed, ListingID: listingID, UserID: user.ID}
	if buyer.Valid {
		evt.BuyerID = &buyer.Int64
	}
	zap.L().Info("listing.closed",
		zap.Int64("listing_id", listingID),
		zap.Bool("has_buyer", buyer.Valid),
		zap.Int64("buyer_id", buyer.Int64),
	)
	svc.publish(ctx, evt)

	return svc.getListing(ctx, user, listingID)
}

// ToggleWatch flips the caller's membership in the listing's watchers and
// returns the new state.
func (svc *listingService) ToggleWatch(ctx context.Context, user identity.User, listingID int64) (bool, error) {
	if user.IsAnonymous() {
		return false, ErrUnauthenticated
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM listings WHERE id = $1 FOR UPDATE`, listingID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrListingNotFound
		}
		return false, fmt.Errorf("lock listing %d: %w", listingID, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM listing_watchers WHERE listing_id = $1 AND user_id = $2`, listingID, user.ID)
	if err != nil {
		return false, fmt.Errorf("unwatch: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	watched := false
	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO listing_watchers (listing_id, user_id) VALUES ($1, $2)`, listingID, user.ID); err != nil {
			return false, fmt.Errorf("watch: %w", err)
		}
		watched = true
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	zap.L().Debug("listing.watch_toggled",
		zap.Int64("listing_id", listingID),
		zap.Int64("user_id", user.ID),
		zap.Bool("watched", watched),
	)
	return watched, nil
}

func (svc *listingService) AddComment(ctx context.Context, user identity.User, listingID int64, text string) (*Comment, error) {
	if user.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxCommentLen {
		return nil, ErrInvalidComment
	}

	c := Comment{Text: text, UserID: user.ID, Username: user.Username, ListingID: listingID}
	const ins = `
	  INSERT INTO comments (text, user_id, listing_id)
	       SELECT $1, $2, l.id FROM listings l WHERE l.id = $3
	    RETURNING id, created_at`
	if err := svc.db.QueryRowContext(ctx, ins, text, user.ID, listingID).Scan(&c.ID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	svc.publish(ctx, Event{Event: EventComment, ListingID: listingID, UserID: user.ID, Text: text})
	return &c, nil
}

func (svc *listingService) GetListing(ctx context.Context, viewer identity.User, listingID int64) (*ListingView, error) {
	l, err := svc.getListing(ctx, viewer, listingID)
	if err != nil {
		return nil, err
	}
	comments, err := svc.Comments(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &ListingView{Listing: *l, Comments: comments, Watched: l.Watched}, nil
}

func (svc *listingService) ActiveListings(ctx context.Context, viewer identity.User) ([]Listing, error) {
	return svc.queryListings(ctx, listingColumns+` WHERE l.active ORDER BY l.id DESC`, viewer.ID)
}

// ListByCategory matches the label exactly; an unknown label yields an empty slice.
func (svc *listingService) ListByCategory(ctx context.Context, viewer identity.User, label string) ([]Listing, error) {
	return svc.queryListings(ctx,
		listingColumns+` WHERE l.active AND c.label = $2 ORDER BY l.id DESC`, viewer.ID, label)
}

// Watchlist is empty for anonymous callers.
func (svc *listingService) Watchlist(ctx context.Context, user identity.User) ([]Listing, error) {
	if user.IsAnonymous() {
		return []Listing{}, nil
	}
	return svc.queryListings(ctx, listingColumns+`
	  WHERE EXISTS (SELECT 1 FROM listing_watchers w
	                 WHERE w.listing_id = l.id AND w.user_id = $1)
	  ORDER BY l.id DESC`, user.ID)
}

func (svc *listingService) Comments(ctx context.Context, listingID int64) ([]Comment, error) {
	const q = `
	  SELECT c.id, c.text, c.user_id, u.username, c.listing_id, c.created_at
	    FROM comments c
	    JOIN users u ON u.id = c.user_id
	   WHERE c.listing_id = $1
	   ORDER BY c.id`
	rows, err := svc.db.QueryContext(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.Username, &c.ListingID, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (svc *listingService) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := svc.db.QueryContext(ctx, `SELECT id, label FROM categories ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Label); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (svc *listingService) CreateCategory(ctx context.Context, label string) (*Category, error) {
	label = strings.TrimSpace(label)
	if label == "" || utf8.RuneCountInString(label) > 300 {
		return nil, ErrInvalidCategory
	}

	c := Category{Label: label}
	err := svc.db.QueryRowContext(ctx, `INSERT INTO categories (label) VALUES ($1) RETURNING id`, label).Scan(&c.ID)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

// publish never fails the caller: the state change is already committed.
func (svc *listingService) publish(ctx context.Context, evt Event) {
	if svc.events == nil {
		return
	}
	evt.At = svc.now().UTC()
	if err := svc.events.Publish(ctx, evt); err != nil {
		zap.L().Warn("listing.publish_failed",
			zap.String("event", evt.Event),
			zap.Int64("listing_id", evt.ListingID),
			zap.Error(err),
		)
	}
}
