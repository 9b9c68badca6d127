package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Keira224/gestion-bibliotheque/internal/config"
	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
)

const parameterCacheKey = "circulation:parameters"

// ParameterService reads and writes the singleton parameter set. Reads never
// fail: a missing or unreadable row falls back to the configured defaults,
// field by field, so circulation keeps working without it.
type ParameterService struct {
	store    repository.Store
	cache    *redis.Client
	cfg      *config.Config
	cacheTTL time.Duration
}

func NewParameterService(store repository.Store, cache *redis.Client, cfg *config.Config) *ParameterService {
	return &ParameterService{
		store:    store,
		cache:    cache,
		cfg:      cfg,
		cacheTTL: cfg.GetParameterCacheTTL(),
	}
}

// Get returns the current parameter set. Never returns an error.
func (s *ParameterService) Get(ctx context.Context) domain.ParameterSet {
	if cached, ok := s.fromCache(ctx); ok {
		return cached
	}

	params, err := s.store.Parameters().Get(ctx)
	if err != nil {
		log.Printf("parameters unreadable, using defaults: %v", err)
		return s.defaults()
	}

	normalized := s.normalize(*params)
	s.toCache(ctx, normalized)

	return normalized
}

// Update replaces the parameter set and drops the cache entry.
func (s *ParameterService) Update(ctx context.Context, req *domain.UpdateParametersRequest) (*domain.ParameterSet, error) {
	params := &domain.ParameterSet{
		LateFeePerDay:        req.LateFeePerDay,
		ReservationFeePerDay: req.ReservationFeePerDay,
		LoanDurationDays:     req.LoanDurationDays,
		ActiveLoanQuota:      req.ActiveLoanQuota,
	}

	if err := s.store.Parameters().Upsert(ctx, params); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, parameterCacheKey).Err(); err != nil {
			log.Printf("parameter cache invalidation failed: %v", err)
		}
	}

	updated, err := s.store.Parameters().Get(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return updated, nil
}

// normalize replaces unusable field values with defaults, mirroring the
// per-field fallback contract.
func (s *ParameterService) normalize(params domain.ParameterSet) domain.ParameterSet {
	defaults := s.defaults()

	if params.LateFeePerDay.IsZero() || params.LateFeePerDay.IsNegative() {
		params.LateFeePerDay = defaults.LateFeePerDay
	}
	if params.ReservationFeePerDay.IsZero() || params.ReservationFeePerDay.IsNegative() {
		params.ReservationFeePerDay = defaults.ReservationFeePerDay
	}
	if params.LoanDurationDays <= 0 {
		params.LoanDurationDays = defaults.LoanDurationDays
	}
	if params.ActiveLoanQuota <= 0 {
		params.ActiveLoanQuota = defaults.ActiveLoanQuota
	}

	return params
}

func (s *ParameterService) defaults() domain.ParameterSet {
	defaults := domain.ParameterSet{
		LateFeePerDay:        domain.DefaultLateFeePerDay,
		ReservationFeePerDay: domain.DefaultReservationFeePerDay,
		LoanDurationDays:     domain.DefaultLoanDurationDays,
		ActiveLoanQuota:      domain.DefaultActiveLoanQuota,
	}

	if s.cfg == nil {
		return defaults
	}

	if fee := s.cfg.GetLateFeePerDay(); fee.IsPositive() {
		defaults.LateFeePerDay = fee
	}
	if fee := s.cfg.GetReservationFeePerDay(); fee.IsPositive() {
		defaults.ReservationFeePerDay = fee
	}
	if s.cfg.Circulation.LoanDurationDays > 0 {
		defaults.LoanDurationDays = s.cfg.Circulation.LoanDurationDays
	}
	if s.cfg.Circulation.ActiveLoanQuota > 0 {
		defaults.ActiveLoanQuota = s.cfg.Circulation.ActiveLoanQuota
	}

	return defaults
}

func (s *ParameterService) fromCache(ctx context.Context) (domain.ParameterSet, bool) {
	if s.cache == nil {
		return domain.ParameterSet{}, false
	}

	raw, err := s.cache.Get(ctx, parameterCacheKey).Bytes()
	if err != nil {
		return domain.ParameterSet{}, false
	}

	var params domain.ParameterSet
	if err := json.Unmarshal(raw, &params); err != nil {
		return domain.ParameterSet{}, false
	}

	return params, true
}

func (s *ParameterService) toCache(ctx context.Context, params domain.ParameterSet) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, parameterCacheKey, raw, s.cacheTTL).Err(); err != nil {
		log.Printf("parameter cache write failed: %v", err)
	}
}
