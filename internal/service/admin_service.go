package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"pravacash/internal/models"
)

// AdminStore exposes the cross-owner reporting queries of the ledger store.
type AdminStore interface {
	AggregateByOwner(ctx context.Context) ([]models.OwnerAggregate, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByKind(ctx context.Context) (models.KindCounts, error)
	AverageAmount(ctx context.Context) (float64, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
}

// OwnerLister reads the owner directory.
type OwnerLister interface {
	List(ctx context.Context) ([]models.Owner, error)
}

// PresenceReader reads last-seen instants for all owners.
type PresenceReader interface {
	All(ctx context.Context) (map[string]time.Time, error)
}

// AdminService derives the cross-owner statistics view. It recomputes fully
// on each call; there is no incremental maintenance. Rescanning per-owner
// sums on every mutation is a deliberate simplicity choice and a known
// scaling limit.
type AdminService struct {
	store        AdminStore
	owners       OwnerLister
	presence     PresenceReader
	activeWithin time.Duration
	staleAfter   time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewAdminService builds the aggregator. activeWithinDays bounds "active"
// owners; inactiveAfterDays bounds "inactive" (never-seen owners count as
// inactive).
func NewAdminService(store AdminStore, owners OwnerLister, presence PresenceReader, activeWithinDays, inactiveAfterDays int, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:        store,
		owners:       owners,
		presence:     presence,
		activeWithin: time.Duration(activeWithinDays) * 24 * time.Hour,
		staleAfter:   time.Duration(inactiveAfterDays) * 24 * time.Hour,
		logger:       logger,
		now:          time.Now,
	}
}

// Stats recomputes the full admin view.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	now := s.now().UTC()

	owners, err := s.owners.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	seen, err := s.presence.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read presence: %w", err)
	}

	aggs, err := s.store.AggregateByOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate by owner: %w", err)
	}

	counts, err := s.store.CountByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}

	avg, err := s.store.AverageAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("average amount: %w", err)
	}

	stats := &models.AdminStats{
		TotalOwners:   int64(len(owners)),
		CountByKind:   counts,
		AverageAmount: avg,
	}

	for _, owner := range owners {
		last, ok := seen[owner.ID]
		switch {
		case ok && now.Sub(last) <= s.activeWithin:
			stats.ActiveOwners++
		case !ok || now.Sub(last) > s.staleAfter:
			stats.InactiveOwners++
		}
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats.NewOwners = ownerBuckets(owners, now, startOfDay)
	if stats.NewTransactions, err = s.transactionBuckets(ctx, now, startOfDay); err != nil {
		return nil, err
	}

	for _, agg := range aggs {
		stats.Totals.Income += agg.Income
		stats.Totals.Expense += agg.Expense
	}
	stats.Totals.Balance = stats.Totals.Income - stats.Totals.Expense

	stats.MaxIncome, stats.MinIncome = extremaOf(aggs, func(a models.OwnerAggregate) int64 { return a.Income })
	stats.MaxExpense, stats.MinExpense = extremaOf(aggs, func(a models.OwnerAggregate) int64 { return a.Expense })
	stats.MaxBalance, stats.MinBalance = extremaOf(aggs, func(a models.OwnerAggregate) int64 { return a.Balance() })

	return stats, nil
}

// Owners returns every owner with its last recorded activity. Admin feed.
func (s *AdminService) Owners(ctx context.Context) ([]models.OwnerActivity, error) {
	owners, err := s.owners.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	seen, err := s.presence.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read presence: %w", err)
	}

	activity := make([]models.OwnerActivity, 0, len(owners))
	for _, owner := range owners {
		entry := models.OwnerActivity{Owner: owner}
		if last, ok := seen[owner.ID]; ok {
			t := last
			entry.LastSeen = &t
		}
		activity = append(activity, entry)
	}
	return activity, nil
}

// AllTransactions returns every transaction across owners. Admin feed.
func (s *AdminService) AllTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.store.ListAll(ctx)
}

func (s *AdminService) transactionBuckets(ctx context.Context, now, startOfDay time.Time) (models.PeriodCounts, error) {
	var buckets models.PeriodCounts
	var err error
	if buckets.Today, err = s.store.CountSince(ctx, startOfDay); err != nil {
		return buckets, fmt.Errorf("count transactions today: %w", err)
	}
	if buckets.ThisWeek, err = s.store.CountSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return buckets, fmt.Errorf("count transactions this week: %w", err)
	}
	if buckets.ThisMonth, err = s.store.CountSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return buckets, fmt.Errorf("count transactions this month: %w", err)
	}
	return buckets, nil
}

func ownerBuckets(owners []models.Owner, now, startOfDay time.Time) models.PeriodCounts {
	var buckets models.PeriodCounts
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)
	for _, owner := range owners {
		created := owner.CreatedAt.UTC()
		if !created.Before(startOfDay) {
			buckets.Today++
		}
		if !created.Before(weekAgo) {
			buckets.ThisWeek++
		}
		if !created.Before(monthAgo) {
			buckets.ThisMonth++
		}
	}
	return buckets
}

// extremaOf finds the maximum and minimum of the given dimension across all
// owners. Every owner sharing an extreme value is listed.
func extremaOf(aggs []models.OwnerAggregate, dim func(models.OwnerAggregate) int64) (max, min models.Extreme) {
	max.Owners = []string{}
	min.Owners = []string{}
	for i, agg := range aggs {
		value := dim(agg)
		if i == 0 || value > max.Amount {
			max.Amount = value
			max.Owners = []string{agg.OwnerID}
		} else if value == max.Amount {
			max.Owners = append(max.Owners, agg.OwnerID)
		}
		if i == 0 || value < min.Amount {
			min.Amount = value
			min.Owners = []string{agg.OwnerID}
		} else if value == min.Amount {
			min.Owners = append(min.Owners, agg.OwnerID)
		}
	}
	sort.Strings(max.Owners)
	sort.Strings(min.Owners)
	return max, min
}
