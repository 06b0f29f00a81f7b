package panelsdk

import (
	"context"
	"net/http"
)

const (
	pathProfile   = "/api/v1/vendor/profile"
	pathDashboard = "/api/v1/vendor/dashboard"
)

// GetProfile returns the store belonging to the authenticated vendor.
func (c *Client) GetProfile(ctx context.Context) (*Envelope[ProfileResponse], error) {
	return Do[ProfileResponse](ctx, c, "profile.get", pathProfile, nil)
}

// UpdateProfile applies a partial store update.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Envelope[ProfileUpdateResponse], error) {
	return Do[ProfileUpdateResponse](ctx, c, "profile.update", pathProfile, &RequestOptions{
		Method: http.MethodPut,
		Body:   update,
	})
}

// GetDashboard returns aggregate product and favourite statistics.
func (c *Client) GetDashboard(ctx context.Context) (*Envelope[Dashboard], error) {
	return Do[Dashboard](ctx, c, "dashboard.get", pathDashboard, nil)
}
