package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"pravacash/internal/models"
	"pravacash/internal/repository"
)

// Realtime event names pushed to subscribed sessions.
const (
	EventLedgerUpdated     = "transactions:updated"
	EventAdminStatsUpdated = "admin:stats:updated"
)

// LedgerStore is the durable, owner-scoped transaction store.
type LedgerStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error)
	GetByID(ctx context.Context, id, ownerID string) (*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	Clear(ctx context.Context, ownerID string) error
}

// OwnerDirectory upserts owner rows on first sight.
type OwnerDirectory interface {
	Ensure(ctx context.Context, id, role string) error
}

// Presence records owner activity.
type Presence interface {
	Touch(ctx context.Context, ownerID string, at time.Time) error
}

// Notifier fans a payload out to live sessions. Delivery is best-effort and
// must never block the caller on a slow or dead session.
type Notifier interface {
	NotifyOwner(ownerID, event string, data interface{})
	NotifyAdmins(event string, data interface{})
}

// StatsSource recomputes the cross-owner admin view.
type StatsSource interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// TransactionInput is a raw mutation request before validation. Amount is
// accepted as a float and normalized to the smallest currency unit.
type TransactionInput struct {
	Description string  `json:"description"`
	Kind        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// LedgerService coordinates mutations: validate, persist, project the fresh
// ledger view and broadcast it to the owner's sessions, then refresh admin
// stats. Mutations for one owner are serialized; different owners proceed in
// parallel.
type LedgerService struct {
	store    LedgerStore
	owners   OwnerDirectory
	presence Presence
	notifier Notifier
	stats    StatsSource
	logger   *zap.Logger
	locks    *ownerLocks
	now      func() time.Time
}

// NewLedgerService builds the coordinator.
func NewLedgerService(store LedgerStore, owners OwnerDirectory, presence Presence, notifier Notifier, stats StatsSource, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		owners:   owners,
		presence: presence,
		notifier: notifier,
		stats:    stats,
		logger:   logger,
		locks:    newOwnerLocks(),
		now:      time.Now,
	}
}

// CreateTransaction validates and persists a new transaction, returning its
// id. The owner's sessions receive the updated view before this returns.
func (s *LedgerService) CreateTransaction(ctx context.Context, ident models.Identity, in TransactionInput) (string, error) {
	tx, err := validateInput(ident.OwnerID, in)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(ident.OwnerID)
	defer unlock()

	if err := s.owners.Ensure(ctx, ident.OwnerID, ident.Role); err != nil {
		return "", fmt.Errorf("ensure owner: %w", err)
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	s.afterMutation(ctx, ident)
	return tx.ID, nil
}

// UpdateTransaction rewrites all mutable fields of an owner's transaction.
// A missing or foreign id is reported as ErrNotFound, including the case
// where a concurrent delete wins the race after validation.
func (s *LedgerService) UpdateTransaction(ctx context.Context, ident models.Identity, id string, in TransactionInput) error {
	tx, err := validateInput(ident.OwnerID, in)
	if err != nil {
		return err
	}
	tx.ID = id

	unlock := s.locks.lock(ident.OwnerID)
	defer unlock()

	if err := s.checkOwnership(ctx, id, ident.OwnerID); err != nil {
		return err
	}

	ok, err := s.store.Update(ctx, tx)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.afterMutation(ctx, ident)
	return nil
}

// DeleteTransaction removes an owner's transaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ident models.Identity, id string) error {
	unlock := s.locks.lock(ident.OwnerID)
	defer unlock()

	if err := s.checkOwnership(ctx, id, ident.OwnerID); err != nil {
		return err
	}

	ok, err := s.store.Delete(ctx, id, ident.OwnerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.afterMutation(ctx, ident)
	return nil
}

// ClearTransactions removes every transaction belonging to the owner.
func (s *LedgerService) ClearTransactions(ctx context.Context, ident models.Identity) error {
	unlock := s.locks.lock(ident.OwnerID)
	defer unlock()

	if err := s.owners.Ensure(ctx, ident.OwnerID, ident.Role); err != nil {
		return fmt.Errorf("ensure owner: %w", err)
	}
	if err := s.store.Clear(ctx, ident.OwnerID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	s.afterMutation(ctx, ident)
	return nil
}

// LedgerView returns a freshly computed projection of the owner's ledger.
func (s *LedgerService) LedgerView(ctx context.Context, ownerID string) (models.LedgerView, error) {
	transactions, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return models.LedgerView{}, fmt.Errorf("list transactions: %w", err)
	}
	return BuildLedgerView(transactions), nil
}

// TrackOwner records an owner sighting outside the mutation path, e.g. on
// realtime connect.
func (s *LedgerService) TrackOwner(ctx context.Context, ident models.Identity) {
	if err := s.owners.Ensure(ctx, ident.OwnerID, ident.Role); err != nil {
		s.logger.Warn("failed to ensure owner", zap.String("owner_id", ident.OwnerID), zap.Error(err))
	}
	s.touchPresence(ctx, ident.OwnerID)
}

func (s *LedgerService) checkOwnership(ctx context.Context, id, ownerID string) error {
	if _, err := s.store.GetByID(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) || errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch transaction: %w", err)
	}
	return nil
}

// afterMutation runs the Projecting and Broadcasting steps while the owner
// lock is still held, so views reach sessions in commit order. Failures past
// the committed persist are logged and swallowed; they never turn the
// mutation into a failure.
func (s *LedgerService) afterMutation(ctx context.Context, ident models.Identity) {
	s.touchPresence(ctx, ident.OwnerID)

	view, err := s.LedgerView(ctx, ident.OwnerID)
	if err != nil {
		s.logger.Error("failed to project ledger view after mutation",
			zap.String("owner_id", ident.OwnerID), zap.Error(err))
	} else {
		s.notifier.NotifyOwner(ident.OwnerID, EventLedgerUpdated, view)
	}

	stats, err := s.stats.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to recompute admin stats", zap.Error(err))
		return
	}
	s.notifier.NotifyAdmins(EventAdminStatsUpdated, stats)
}

func (s *LedgerService) touchPresence(ctx context.Context, ownerID string) {
	if err := s.presence.Touch(ctx, ownerID, s.now()); err != nil {
		s.logger.Warn("failed to touch presence", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func validateInput(ownerID string, in TransactionInput) (*models.Transaction, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid("description", "description must not be empty")
	}

	kind := models.Kind(in.Kind)
	if !kind.Valid() {
		return nil, invalid("type", "type must be income or expense")
	}

	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, invalid("amount", "amount must be a number")
	}
	amount := int64(math.Round(in.Amount))
	if amount <= 0 {
		return nil, invalid("amount", "amount must be greater than zero")
	}

	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, invalid("date", "date must be a valid YYYY-MM-DD date")
	}

	return &models.Transaction{
		OwnerID:     ownerID,
		Description: description,
		Kind:        kind,
		Amount:      amount,
		Date:        date,
	}, nil
}
