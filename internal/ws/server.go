package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"commercego/internal/identity"
	"commercego/internal/services/listing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
}

// feed attaches a process to the event stream of a listing.
type feed interface {
	Subscribe(listingID int64)
	Unsubscribe(listingID int64)
}

type WsServer struct {
	hub        *Hub
	feed       feed
	router     *Router
	listingSvc listing.IListingService
}

func NewWsServer(h *Hub, rdc *redis.Client, listingSvc listing.IListingService) *WsServer {
	return newWsServer(h, newSubscriptionManager(rdc, h), listingSvc)
}

func newWsServer(h *Hub, f feed, listingSvc listing.IListingService) *WsServer {
	srv := &WsServer{
		hub:        h,
		feed:       f,
		router:     NewRouter(),
		listingSvc: listingSvc,
	}
	srv.registerHandlers()
	return srv
}

type joinQuery struct {
	ListingID int64 `form:"listing_id" binding:"required,gt=0"`
}

// Handle upgrades GET /ws?listing_id=N and joins the listing's room.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	var q joinQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "listing_id is required"})
		return
	}
	user := identity.FromContext(ginCtx.Request.Context())

	ctx, cancel := context.WithTimeout(ginCtx.Request.Context(), 4*time.Second)
	snapshot, err := s.listingSvc.GetListing(ctx, user, q.ListingID)
	cancel()
	if err != nil {
		if errors.Is(err, listing.ErrListingNotFound) {
			ginCtx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("ws.snapshot", zap.Int64("listing_id", q.ListingID), zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)

	wsConn := &clientConn{rawConn: rawConn}
	s.hub.Join(q.ListingID, wsConn)
	s.feed.Subscribe(q.ListingID)

	if err := wsConn.writeJSON(gin.H{"event": "listings/snapshot", "body": snapshot}); err != nil {
		zap.L().Warn("ws.snapshot_write", zap.Error(err))
	}

	go s.reader(&ConnContext{ListingID: q.ListingID, User: user}, wsConn)
	go s.pinger(wsConn)
}

func (s *WsServer) registerHandlers() {
	Register(
		s.router,
		"listings/bid",
		func(ctx context.Context, cc *ConnContext, req BidRequest) (BidAck, error) {
			if cc.User.IsAnonymous() {
				return BidAck{}, listing.ErrUnauthenticated
			}
			if req.Price == nil {
				return BidAck{}, errors.New("price is required")
			}
			outcome, err := s.listingSvc.PlaceBid(ctx, cc.User, cc.ListingID, *req.Price)
			return BidAck{BidSuccess: outcome}, err
		},
	)
}

func (s *WsServer) reader(cc *ConnContext, conn *clientConn) {
	defer func() {
		s.hub.Leave(cc.ListingID, conn)
		s.feed.Unsubscribe(cc.ListingID)
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1900*time.Millisecond)
		res, err := s.router.dispatch(ctx, cc, env)
		cancel()

		if err != nil {
			_ = conn.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: err.Error()},
			})
			continue
		}

		reply := map[string]any{"event": env.Event + "-ack"}
		if res != nil {
			reply["body"] = res
		}
		_ = conn.writeJSON(reply)
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
