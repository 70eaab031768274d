package service

import (
	"context"
	"time"

	"innoventory-ws/internal/repository"
)

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	txRepo   repository.TransactionRepository
	settings SettingsService
}

func NewDashboardService(txRepo repository.TransactionRepository, settings SettingsService) DashboardService {
	return &dashboardService{txRepo: txRepo, settings: settings}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(ctx, startDate, endDate)
}

// GetDashboardStats counts low-stock products with the same rule as the
// low-stock listing.
func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.txRepo.GetDashboardStats(ctx, settings)
}
