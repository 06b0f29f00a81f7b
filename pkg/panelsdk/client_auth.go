package panelsdk

import (
	"context"
	"encoding/json"
	"net/http"
)

// Vendor authentication endpoints.
const (
	pathLogin          = "/api/v1/vendor-auth/login"
	pathRegister       = "/api/v1/vendor-auth/register"
	pathLogout         = "/api/v1/vendor-auth/logout"
	pathRefresh        = "/api/v1/vendor-auth/refresh"
	pathChangePassword = "/api/v1/vendor-auth/change-password"
)

// Login exchanges credentials for a vendor record and token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Envelope[LoginResponse], error) {
	return Do[LoginResponse](ctx, c, "auth.login", pathLogin, &RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

// Register creates a vendor account. It does not log the vendor in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Envelope[RegisterResponse], error) {
	return Do[RegisterResponse](ctx, c, "auth.register", pathRegister, &RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) (*Envelope[json.RawMessage], error) {
	return Do[json.RawMessage](ctx, c, "auth.logout", pathLogout, &RequestOptions{
		Method: http.MethodPost,
	})
}

// Refresh trades a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Envelope[RefreshResponse], error) {
	return Do[RefreshResponse](ctx, c, "auth.refresh", pathRefresh, &RequestOptions{
		Method: http.MethodPost,
		Body:   RefreshRequest{RefreshToken: refreshToken},
	})
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*Envelope[json.RawMessage], error) {
	return Do[json.RawMessage](ctx, c, "auth.change_password", pathChangePassword, &RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}
