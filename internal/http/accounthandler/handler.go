package accounthandler

import (
	"errors"
	"net/http"
	"time"

	"commercego/internal/http/middleware"
	"commercego/internal/services/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc        account.IAccountService
	sessionTTL time.Duration
}

func New(svc account.IAccountService, sessionTTL time.Duration) *Handler {
	return &Handler{svc: svc, sessionTTL: sessionTTL}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
	r.DELETE("/users/:id", middleware.RequireUser, h.deleteUser)
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, account.ErrInvalidInput), errors.Is(err, account.ErrPasswordMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrUsernameTaken), errors.Is(err, account.ErrUserProtected):
		status = http.StatusConflict
	case errors.Is(err, account.ErrInvalidLogin):
		status = http.StatusUnauthorized
	case errors.Is(err, account.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, account.ErrUserNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("http_account_failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) setSession(c *gin.Context, s *account.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, s.Token, int(h.sessionTTL.Seconds()), "/", "", false, true)
}

// @Summary		Register
// @Description	Creates the account and logs it in.
// @Tags			Accounts
// @Param			body	body		RegisterBody	true	"Account"
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	accounthandler.ErrorResponse
// @Failure		409		{object}	accounthandler.ErrorResponse
// @Router			/register [post]
func (h *Handler) register(c *gin.Context) {
	var body RegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s, err := h.svc.Register(c.Request.Context(), account.RegisterInput{
		Username:     body.Username,
		Email:        body.Email,
		Password:     body.Password,
		Confirmation: body.Confirmation,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.setSession(c, s)
	c.JSON(http.StatusCreated, SessionResponse{Token: s.Token, User: s.User})
}

// @Summary		Log in
// @Tags			Accounts
// @Param			body	body		LoginBody	true	"Credentials"
// @Success		200		{object}	SessionResponse
// @Failure		401		{object}	accounthandler.ErrorResponse
// @Router			/login [post]
func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	s, err := h.svc.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSession(c, s)
	c.JSON(http.StatusOK, SessionResponse{Token: s.Token, User: s.User})
}

// @Summary		Log out
// @Tags			Accounts
// @Success		204
// @Router			/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		fail(c, err)
		return
	}
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// @Summary		Delete own account
// @Tags			Accounts
// @Param			id	path	int	true	"User ID"
// @Success		204
// @Failure		403	{object}	accounthandler.ErrorResponse
// @Failure		409	{object}	accounthandler.ErrorResponse
// @Router			/users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	var uri UserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.DeleteUser(ctx, middleware.User(c), uri.ID); err != nil {
		fail(c, err)
		return
	}
	_ = h.svc.Logout(ctx, middleware.Token(c))
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
