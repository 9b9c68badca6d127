package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
)

const (
	dashboardCacheKey = "circulation:dashboard"
	dashboardCacheTTL = time.Minute
	topListLimit      = 10
)

// StatsService aggregates circulation figures for dashboards.
type StatsService struct {
	store repository.Store
	cache *redis.Client
}

func NewStatsService(store repository.Store, cache *redis.Client) *StatsService {
	return &StatsService{store: store, cache: cache}
}

// Dashboard returns totals plus top-member and top-work rankings. Results
// are cached briefly; cache failures fall through to the database.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var stats domain.DashboardStats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	loans := s.store.Loans()

	total, err := loans.CountAll(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	overdue, err := loans.CountByStatus(ctx, domain.LoanStatusOverdue)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	unpaid, err := s.store.Penalties().CountUnpaid(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	members, err := loans.MostActiveMembers(ctx, topListLimit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	works, err := loans.MostBorrowedWorks(ctx, topListLimit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	stats := &domain.DashboardStats{
		TotalLoans:        total,
		OverdueLoans:      overdue,
		UnpaidPenalties:   unpaid,
		MostActiveMembers: members,
		MostBorrowedWorks: works,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Printf("dashboard cache write failed: %v", err)
			}
		}
	}

	return stats, nil
}

// ListActivities returns journal entries, newest first.
func (s *StatsService) ListActivities(ctx context.Context, activityType string, limit, offset int) ([]*domain.Activity, error) {
	activities, err := s.store.Activities().List(ctx, activityType, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return activities, nil
}
