package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"commercego/internal/http/accounthandler"
	"commercego/internal/http/listinghandler"
	"commercego/internal/http/middleware"
	"commercego/internal/services/account"
	"commercego/internal/services/listing"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

// wsHandler serves the live listing feed.
type wsHandler interface {
	Handle(c *gin.Context)
}

type httpServer struct {
	listenPort uint16
	srv        *http.Server
	ln         net.Listener
	listingSvc listing.IListingService
	accountSvc account.IAccountService
	sessionTTL time.Duration
	wsSrv      wsHandler
	ctx        context.Context
}

func NewHttpServer(
	ctx context.Context,
	listenPort uint16,
	wsSrv wsHandler,
	listingSvc listing.IListingService,
	accountSvc account.IAccountService,
	sessionTTL time.Duration,
) *httpServer {
	h := &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		listingSvc: listingSvc,
		accountSvc: accountSvc,
		sessionTTL: sessionTTL,
		ctx:        ctx,
	}
	// Built up front so Dispose never races Start.
	h.srv = &http.Server{
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h
}

func (h *httpServer) routes() *gin.Engine {
	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(middleware.WithSession(h.accountSvc))

	routerEngine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	accounthandler.New(h.accountSvc, h.sessionTTL).Register(routerEngine)
	listinghandler.New(h.listingSvc).Register(routerEngine)

	return routerEngine
}

// Start blocks until the server stops. A shutdown through Dispose is not an
// error, even when it happened before Start.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	zap.L().Info("http_listening", zap.String("addr", listenAddr))

	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	// The parent context is usually already cancelled by the signal.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		} else {
			zap.L().Error("http_dispose", zap.Error(err))
		}
		return err
	}
	return nil
}
