// Package client is the gRPC client side of GophAuth.
//
// GRPCClient manages one connection to the AuthService, keeps the token pair
// returned by SignUp, SignIn and Refresh, attaches the access token to every
// call and refreshes it once when the server rejects it. gRPC status codes
// are mapped back to the sentinel errors in internal/common, plus
// ErrUnavailable and ErrUnauthorized defined here.
package client
