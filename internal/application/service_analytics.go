package application

import (
	"context"
	"fmt"
)

const recentPanelSize = 5

// Dashboard assembles the summary panel: collection counts plus the most
// recently created records.
func (s *Service) Dashboard(ctx context.Context) (DashboardResponse, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	stats, err := s.patients.Stats(sctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("collection stats: %w", err)
	}
	recent, err := s.patients.Recent(sctx, recentPanelSize)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("recent patients: %w", err)
	}

	return DashboardResponse{Stats: stats, Recent: recent}, nil
}

// Analytics returns the aggregation feeds for the charts page. All four
// distributions come from one store round trip group.
func (s *Service) Analytics(ctx context.Context) (AnalyticsResponse, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	report, err := s.patients.Analytics(sctx)
	if err != nil {
		return AnalyticsResponse{}, fmt.Errorf("patient analytics: %w", err)
	}
	return AnalyticsResponse{Report: report}, nil
}
