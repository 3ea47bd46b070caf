package accounthandler

import "commercego/internal/identity"

type RegisterBody struct {
	Username     string `json:"username"     binding:"required" example:"alice"`
	Email        string `json:"email"                           example:"alice@example.com"`
	Password     string `json:"password"     binding:"required" example:"s3cret"`
	Confirmation string `json:"confirmation" binding:"required" example:"s3cret"`
} // @name RegisterRequest

type LoginBody struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cret"`
} // @name LoginRequest

type UserURI struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

// SessionResponse carries the token for clients that cannot keep cookies.
type SessionResponse struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
} // @name SessionResponse

type ErrorResponse struct {
	Error string `json:"error"`
}
