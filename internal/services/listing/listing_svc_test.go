package listing

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"commercego/internal/identity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.events = append(p.events, evt)
	return p.err
}

var (
	alice = identity.User{ID: 1, Username: "alice"}
	bob   = identity.User{ID: 2, Username: "bob"}
)

var listingCols = []string{
	"id", "title", "description", "active", "category_id", "label",
	"start_bid", "current_bid", "seller_id", "buyer_id", "image_url", "created_at", "watched",
}

func newService(t *testing.T) (*listingService, sqlmock.Sqlmock, *recordingPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	svc := NewListingService(db, pub).(*listingService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mock, pub
}

func q(s string) string { return regexp.QuoteMeta(s) }

func expectBidderLock(mock sqlmock.Sqlmock, user int64) {
	mock.ExpectQuery(q(`SELECT 1 FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs(user).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
}

// expectLock expects the bidder lock followed by the listing lock; sqlmock
// enforces the order.
func expectLock(mock sqlmock.Sqlmock, user, id int64, active bool, start float64, current any) {
	expectBidderLock(mock, user)
	mock.ExpectQuery(q(`SELECT active, start_bid, current_bid FROM listings WHERE id = $1 FOR UPDATE`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"active", "start_bid", "current_bid"}).
			AddRow(active, start, current))
}

func expectAcceptedBid(mock sqlmock.Sqlmock, user, listingID, bidID int64, price float64, pruned int64) {
	mock.ExpectExec(q(`DELETE FROM bids WHERE user_id = $1`)).
		WithArgs(user).
		WillReturnResult(sqlmock.NewResult(0, pruned))
	mock.ExpectQuery(q(`INSERT INTO bids (user_id, listing_id, price)`)).
		WithArgs(user, listingID, price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(bidID, time.Now()))
	mock.ExpectExec(q(`UPDATE listings SET current_bid = $1 WHERE id = $2`)).
		WithArgs(price, listingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestPlaceBid(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		active    bool
		start     float64
		current   any
		want      BidOutcome
		accepting bool
	}{
		{name: "first_bid_over_sentinel", price: 10, active: true, start: 10, current: NoBidSentinel, want: BidAccepted, accepting: true},
		{name: "first_bid_null_current", price: 12, active: true, start: 10, current: nil, want: BidAccepted, accepting: true},
		{name: "below_start", price: 9.99, active: true, start: 10, current: NoBidSentinel, want: BidRejected},
		{name: "equal_to_current", price: 10, active: true, start: 10, current: 10.0, want: BidRejected},
		{name: "beats_current", price: 15, active: true, start: 10, current: 10.0, want: BidAccepted, accepting: true},
		{name: "closed_listing", price: 1000, active: false, start: 10, current: 10.0, want: BidRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, pub := newService(t)

			mock.ExpectBegin()
			expectLock(mock, bob.ID, 5, tt.active, tt.start, tt.current)
			if tt.accepting {
				expectAcceptedBid(mock, bob.ID, 5, 77, tt.price, 0)
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			got, err := svc.PlaceBid(context.Background(), bob, 5, tt.price)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())

			if tt.accepting {
				require.Len(t, pub.events, 1)
				require.Equal(t, EventBid, pub.events[0].Event)
				require.Equal(t, tt.price, *pub.events[0].Price)
			} else {
				require.Empty(t, pub.events)
			}
		})
	}
}

// The bidder's row is locked before the listing's, so two bids of one user
// on different listings run one after the other and the second prune sees the
// first bid.
func TestPlaceBid_LocksBidderBeforeListing(t *testing.T) {
	svc, mock, _ := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT 1 FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs(alice.ID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(q(`FROM listings WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"active", "start_bid", "current_bid"}).AddRow(true, 5.0, NoBidSentinel))
	expectAcceptedBid(mock, alice.ID, 10, 1, 20, 0)
	mock.ExpectCommit()

	got, err := svc.PlaceBid(context.Background(), alice, 10, 20)
	require.NoError(t, err)
	require.Equal(t, BidAccepted, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A user's bid on one listing is dropped when they bid on another.
func TestPlaceBid_PrunesEarlierBidsOfSameUser(t *testing.T) {
	svc, mock, _ := newService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	expectLock(mock, alice.ID, 10, true, 5, NoBidSentinel)
	expectAcceptedBid(mock, alice.ID, 10, 1, 20, 0)
	mock.ExpectCommit()

	mock.ExpectBegin()
	expectLock(mock, alice.ID, 11, true, 5, NoBidSentinel)
	expectAcceptedBid(mock, alice.ID, 11, 2, 30, 1)
	mock.ExpectCommit()

	got, err := svc.PlaceBid(ctx, alice, 10, 20)
	require.NoError(t, err)
	require.Equal(t, BidAccepted, got)

	got, err = svc.PlaceBid(ctx, alice, 11, 30)
	require.NoError(t, err)
	require.Equal(t, BidAccepted, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_Errors(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		svc, mock, _ := newService(t)
		got, err := svc.PlaceBid(context.Background(), identity.Anonymous(), 5, 10)
		require.ErrorIs(t, err, ErrUnauthenticated)
		require.Equal(t, BidNotAttempted, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_listing", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectBegin()
		expectBidderLock(mock, bob.ID)
		mock.ExpectQuery(q(`FROM listings WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		got, err := svc.PlaceBid(context.Background(), bob, 404, 10)
		require.ErrorIs(t, err, ErrListingNotFound)
		require.Equal(t, BidNotAttempted, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted_bidder", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT 1 FROM users WHERE id = $1 FOR UPDATE`)).
			WithArgs(bob.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		got, err := svc.PlaceBid(context.Background(), bob, 5, 10)
		require.ErrorIs(t, err, ErrUnauthenticated)
		require.Equal(t, BidNotAttempted, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("publish_failure_is_not_fatal", func(t *testing.T) {
		svc, mock, pub := newService(t)
		pub.err = errors.New("redis down")
		mock.ExpectBegin()
		expectLock(mock, bob.ID, 5, true, 1, NoBidSentinel)
		expectAcceptedBid(mock, bob.ID, 5, 3, 2, 0)
		mock.ExpectCommit()

		got, err := svc.PlaceBid(context.Background(), bob, 5, 2)
		require.NoError(t, err)
		require.Equal(t, BidAccepted, got)
	})
}

func expectGetListing(mock sqlmock.Sqlmock, viewer, id int64, active bool, buyer any) {
	mock.ExpectQuery(q(`WHERE l.id = $2`)).
		WithArgs(viewer, id).
		WillReturnRows(sqlmock.NewRows(listingCols).AddRow(
			id, "Lamp", "", active, int64(1), "Home", 10.0, 15.0, alice.ID, buyer, "", time.Now(), false,
		))
}

func TestCloseListing(t *testing.T) {
	t.Run("last_bid_wins", func(t *testing.T) {
		svc, mock, pub := newService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT seller_id FROM listings WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(alice.ID))
		mock.ExpectQuery(q(`SELECT user_id FROM bids WHERE listing_id = $1 ORDER BY id DESC LIMIT 1`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(bob.ID))
		mock.ExpectExec(q(`UPDATE listings SET active = FALSE, buyer_id = COALESCE($2, buyer_id) WHERE id = $1`)).
			WithArgs(int64(5), bob.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		expectGetListing(mock, alice.ID, 5, false, bob.ID)

		l, err := svc.CloseListing(context.Background(), alice, 5)
		require.NoError(t, err)
		require.False(t, l.Active)
		require.Equal(t, bob.ID, *l.BuyerID)
		require.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, pub.events, 1)
		require.Equal(t, EventClosed, pub.events[0].Event)
		require.Equal(t, bob.ID, *pub.events[0].BuyerID)
	})

	t.Run("no_bids_keeps_buyer", func(t *testing.T) {
		svc, mock, pub := newService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT seller_id FROM listings`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(alice.ID))
		mock.ExpectQuery(q(`SELECT user_id FROM bids`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		mock.ExpectExec(q(`UPDATE listings SET active = FALSE`)).
			WithArgs(int64(5), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		expectGetListing(mock, alice.ID, 5, false, nil)

		l, err := svc.CloseListing(context.Background(), alice, 5)
		require.NoError(t, err)
		require.Nil(t, l.BuyerID)
		require.NoError(t, mock.ExpectationsWereMet())
		require.Nil(t, pub.events[0].BuyerID)
	})

	t.Run("not_seller", func(t *testing.T) {
		svc, mock, pub := newService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT seller_id FROM listings`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"seller_id"}).AddRow(alice.ID))
		mock.ExpectRollback()

		_, err := svc.CloseListing(context.Background(), bob, 5)
		require.ErrorIs(t, err, ErrNotSeller)
		require.NoError(t, mock.ExpectationsWereMet())
		require.Empty(t, pub.events)
	})

	t.Run("missing", func(t *testing.T) {
		svc, mock, _ := newService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT seller_id FROM listings`)).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := svc.CloseListing(context.Background(), alice, 9)
		require.ErrorIs(t, err, ErrListingNotFound)
	})
}

func TestToggleWatch(t *testing.T) {
	expect := func(mock sqlmock.Sqlmock, removed int64) {
		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT 1 FROM listings WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectExec(q(`DELETE FROM listing_watchers WHERE listing_id = $1 AND user_id = $2`)).
			WithArgs(int64(5), bob.ID).
			WillReturnResult(sqlmock.NewResult(0, removed))
	}

	t.Run("watch", func(t *testing.T) {
		svc, mock, _ := newService(t)
		expect(mock, 0)
		mock.ExpectExec(q(`INSERT INTO listing_watchers (listing_id, user_id) VALUES ($1, $2)`)).
			WithArgs(int64(5), bob.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		watched, err := svc.ToggleWatch(context.Background(), bob, 5)
		require.NoError(t, err)
		require.True(t, watched)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unwatch", func(t *testing.T) {
		svc, mock, _ := newService(t)
		expect(mock, 1)
		mock.ExpectCommit()

		watched, err := svc.ToggleWatch(context.Background(), bob, 5)
		require.NoError(t, err)
		require.False(t, watched)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.ToggleWatch(context.Background(), identity.Anonymous(), 5)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestToggleWatch_TwiceRestoresState(t *testing.T) {
	svc, mock, _ := newService(t)
	ctx := context.Background()

	for _, removed := range []int64{0, 1} {
		mock.ExpectBegin()
		mock.ExpectQuery(q(`SELECT 1 FROM listings WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectExec(q(`DELETE FROM listing_watchers WHERE listing_id = $1 AND user_id = $2`)).
			WithArgs(int64(5), bob.ID).
			WillReturnResult(sqlmock.NewResult(0, removed))
		if removed == 0 {
			mock.ExpectExec(q(`INSERT INTO listing_watchers (listing_id, user_id) VALUES ($1, $2)`)).
				WithArgs(int64(5), bob.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()
	}

	watched, err := svc.ToggleWatch(ctx, bob, 5)
	require.NoError(t, err)
	require.True(t, watched)

	watched, err = svc.ToggleWatch(ctx, bob, 5)
	require.NoError(t, err)
	require.False(t, watched)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchlist_AnonymousIsEmpty(t *testing.T) {
	svc, mock, _ := newService(t)
	list, err := svc.Watchlist(context.Background(), identity.Anonymous())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateListing(t *testing.T) {
	valid := NewListing{Title: "  Lamp ", CategoryID: 1, StartBid: 10}

	t.Run("stores_sentinel_current_bid", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectQuery(q(`INSERT INTO listings`)).
			WithArgs("Lamp", "", int64(1), 10.0, NoBidSentinel, alice.ID, "").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		mock.ExpectQuery(q(`WHERE l.id = $2`)).
			WithArgs(alice.ID, int64(5)).
			WillReturnRows(sqlmock.NewRows(listingCols).AddRow(
				int64(5), "Lamp", "", true, int64(1), "Home", 10.0, NoBidSentinel, alice.ID, nil, "", time.Now(), false,
			))

		l, err := svc.CreateListing(context.Background(), alice, valid)
		require.NoError(t, err)
		require.True(t, l.Active)
		require.Equal(t, NoBidSentinel, *l.CurrentBid)
		require.Equal(t, alice.ID, *l.SellerID)
		require.Nil(t, l.BuyerID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown_category", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectQuery(q(`INSERT INTO listings`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.CreateListing(context.Background(), alice, valid)
		require.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("invalid_input", func(t *testing.T) {
		svc, mock, _ := newService(t)
		cases := []NewListing{
			{Title: "", CategoryID: 1, StartBid: 10},
			{Title: "x", CategoryID: 1, StartBid: 0},
			{Title: "x", CategoryID: 0, StartBid: 1},
			{Title: "x", CategoryID: 1, StartBid: 1, ImageURL: "not a url"},
		}
		for _, in := range cases {
			_, err := svc.CreateListing(context.Background(), alice, in)
			require.ErrorIs(t, err, ErrInvalidListing)
		}
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.CreateListing(context.Background(), identity.Anonymous(), valid)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc, mock, pub := newService(t)
		mock.ExpectQuery(q(`INSERT INTO comments (text, user_id, listing_id)`)).
			WithArgs("nice", bob.ID, int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))

		c, err := svc.AddComment(context.Background(), bob, 5, " nice ")
		require.NoError(t, err)
		require.Equal(t, int64(3), c.ID)
		require.Equal(t, "bob", c.Username)
		require.Equal(t, EventComment, pub.events[0].Event)
	})

	t.Run("missing_listing", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectQuery(q(`INSERT INTO comments`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

		_, err := svc.AddComment(context.Background(), bob, 5, "hi")
		require.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.AddComment(context.Background(), bob, 5, "   ")
		require.ErrorIs(t, err, ErrInvalidComment)

		long := make([]rune, maxCommentLen+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err = svc.AddComment(context.Background(), bob, 5, string(long))
		require.ErrorIs(t, err, ErrInvalidComment)
	})
}

func TestListByCategory(t *testing.T) {
	svc, mock, _ := newService(t)
	mock.ExpectQuery(q(`WHERE l.active AND c.label = $2`)).
		WithArgs(bob.ID, "Home").
		WillReturnRows(sqlmock.NewRows(listingCols).
			AddRow(int64(6), "Chair", "", true, int64(1), "Home", 5.0, nil, alice.ID, nil, "", time.Now(), true).
			AddRow(int64(5), "Lamp", "", true, int64(1), "Home", 10.0, 12.0, alice.ID, nil, "", time.Now(), false))

	list, err := svc.ListByCategory(context.Background(), bob, "Home")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Nil(t, list[0].CurrentBid)
	require.True(t, list[0].Watched)
	require.Equal(t, 12.0, *list[1].CurrentBid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetListing(t *testing.T) {
	svc, mock, _ := newService(t)
	expectGetListing(mock, bob.ID, 5, true, nil)
	mock.ExpectQuery(q(`FROM comments c`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "user_id", "username", "listing_id", "created_at"}).
			AddRow(int64(1), "first", bob.ID, "bob", int64(5), time.Now()))

	view, err := svc.GetListing(context.Background(), bob, 5)
	require.NoError(t, err)
	require.Equal(t, "Lamp", view.Listing.Title)
	require.Len(t, view.Comments, 1)
	require.False(t, view.Watched)

	_, err = svc.GetListing(context.Background(), bob, 6)
	require.Error(t, err)
}

func TestCreateCategory(t *testing.T) {
	svc, mock, _ := newService(t)
	mock.ExpectQuery(q(`INSERT INTO categories (label) VALUES ($1) RETURNING id`)).
		WithArgs("Home").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(q(`INSERT INTO categories`)).
		WithArgs("Home").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	c, err := svc.CreateCategory(context.Background(), "Home")
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)

	_, err = svc.CreateCategory(context.Background(), "Home")
	require.ErrorIs(t, err, ErrCategoryExists)

	_, err = svc.CreateCategory(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidCategory)
}
