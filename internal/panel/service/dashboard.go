package service

import (
	"context"

	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
)

type DashboardService struct {
	API   *panelsdk.Client
	Guard *Guard
}

// Get returns the vendor's statistics and top products.
func (s *DashboardService) Get(ctx context.Context) (*panelsdk.Dashboard, error) {
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	env, err := call(ctx, s.Guard, s.API.GetDashboard)
	if err != nil {
		return nil, wrap("dashboard", err)
	}
	return data(env), nil
}
