package http_server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"commercego/internal/http/middleware"
	"commercego/internal/identity"
	"commercego/internal/services/account"
	"commercego/internal/services/listing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type stubWs struct{ hits int }

func (s *stubWs) Handle(c *gin.Context) {
	s.hits++
	c.Status(http.StatusTeapot)
}

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	listings := listing.NewMockIListingService(ctrl)
	accounts := account.NewMockIAccountService(ctrl)
	ws := &stubWs{}

	srv := NewHttpServer(t.Context(), 0, ws, listings, accounts, time.Hour)
	engine := srv.routes()

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/ws?listing_id=1", nil))
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, 1, ws.hits)

	// the session cookie reaches the listing handlers as the caller
	bob := identity.User{ID: 2, Username: "bob"}
	accounts.EXPECT().Resolve(gomock.Any(), "tok").Return(bob, nil)
	listings.EXPECT().Watchlist(gomock.Any(), bob).Return([]listing.Listing{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/watchlist", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "tok"})
	w = serve(req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"listings":[]}`, w.Body.String())
}

func TestDisposeBeforeStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	srv := NewHttpServer(t.Context(), 0, &stubWs{},
		listing.NewMockIListingService(ctrl), account.NewMockIAccountService(ctrl), time.Hour)

	require.NoError(t, srv.Dispose())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start kept serving after Dispose")
	}
}

func TestDisposeStopsRunningServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	srv := NewHttpServer(t.Context(), 0, &stubWs{},
		listing.NewMockIListingService(ctrl), account.NewMockIAccountService(ctrl), time.Hour)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// give Start a moment to reach Serve; Dispose is safe either way
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Dispose())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Dispose")
	}
}
