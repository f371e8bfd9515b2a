// Package rpc defines the AuthService wire contract shared by the gRPC server
// and client: message types, the JSON codec they travel in, the service
// descriptor and a client stub.
package rpc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request shape before it reaches the auth service.
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// TokenResponse answers SignUp, SignIn and Refresh. RefreshToken is empty
// when a refresh only reissued the access token.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type MeRequest struct{}

// MeResponse echoes the claims of the access token the call carried.
type MeResponse struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
