package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-push-backend/internal/model"
)

// UpsertResult reports which branch an upsert took and the row it touched.
type UpsertResult struct {
	ID      string
	Created bool
}

// Store defines the interface for all database operations.
type Store interface {
	// ListSubscriptionsByWaiter returns every subscription owned by the
	// waiter. An empty slice is a valid result, not an error.
	ListSubscriptionsByWaiter(ctx context.Context, waiterID string) ([]model.PushSubscription, error)
	// UpsertSubscription inserts a subscription row keyed by endpoint, or
	// updates the keys and owner in place when the endpoint already exists.
	UpsertSubscription(ctx context.Context, endpoint, p256dh, auth, waiterID string) (UpsertResult, error)
	// DeleteSubscriptionByEndpoint removes a subscription. Deleting an
	// endpoint that does not exist is not an error.
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error
	// GetOrder and GetTable read the upstream order-management chain.
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	GetTable(ctx context.Context, id string) (*model.Table, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListSubscriptionsByWaiter(ctx context.Context, waiterID string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	if err := s.db.WithContext(ctx).
		Where("waiter_id = ?", waiterID).
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for waiter %s: %w", waiterID, err)
	}
	return subscriptions, nil
}

func (s *gormStore) UpsertSubscription(ctx context.Context, endpoint, p256dh, auth, waiterID string) (UpsertResult, error) {
	db := s.db.WithContext(ctx)

	// The created/updated branch is advisory: two concurrent intakes for a
	// fresh endpoint may both observe "not found", but the unique index plus
	// ON CONFLICT keeps the row itself single and last-write-wins.
	var existing model.PushSubscription
	err := db.Select("id").Where("endpoint = ?", endpoint).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return UpsertResult{}, fmt.Errorf("failed to look up subscription: %w", err)
	}
	created := errors.Is(err, gorm.ErrRecordNotFound)

	subscription := model.PushSubscription{
		Endpoint: endpoint,
		P256DH:   p256dh,
		Auth:     auth,
		WaiterID: waiterID,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "waiter_id", "updated_at"}),
	}).Create(&subscription).Error; err != nil {
		return UpsertResult{}, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	// On the conflict path the generated id was discarded, so re-read the
	// authoritative one.
	var row model.PushSubscription
	if err := db.Select("id").Where("endpoint = ?", endpoint).First(&row).Error; err != nil {
		return UpsertResult{}, fmt.Errorf("failed to read back subscription: %w", err)
	}

	return UpsertResult{ID: row.ID, Created: created}, nil
}

func (s *gormStore) DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&model.PushSubscription{}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *gormStore) GetTable(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	if err := s.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}
