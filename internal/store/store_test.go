package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-push-backend/internal/model"
)

// newTestDB opens a per-test in-memory SQLite database.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}, &model.Order{}, &model.Table{}, &model.Batch{}))
	return db
}

func TestUpsertSubscription(t *testing.T) {
	db := newTestDB(t, "store_upsert")
	s := NewGormStore(db)
	ctx := context.Background()

	t.Run("insert then update keeps one row", func(t *testing.T) {
		first, err := s.UpsertSubscription(ctx, "https://push.example/e1", "p1", "a1", "waiter-1")
		require.NoError(t, err)
		assert.True(t, first.Created)
		assert.NotEmpty(t, first.ID)

		second, err := s.UpsertSubscription(ctx, "https://push.example/e1", "p1-new", "a1-new", "waiter-1")
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&model.PushSubscription{}).Where("endpoint = ?", "https://push.example/e1").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var row model.PushSubscription
		require.NoError(t, db.First(&row, "endpoint = ?", "https://push.example/e1").Error)
		assert.Equal(t, "p1-new", row.P256DH)
		assert.Equal(t, "a1-new", row.Auth)
	})

	t.Run("re-registering under a new waiter reassigns ownership", func(t *testing.T) {
		_, err := s.UpsertSubscription(ctx, "https://push.example/shared-device", "p", "a", "waiter-old")
		require.NoError(t, err)

		_, err = s.UpsertSubscription(ctx, "https://push.example/shared-device", "p", "a", "waiter-new")
		require.NoError(t, err)

		oldList, err := s.ListSubscriptionsByWaiter(ctx, "waiter-old")
		require.NoError(t, err)
		assert.Empty(t, oldList)

		newList, err := s.ListSubscriptionsByWaiter(ctx, "waiter-new")
		require.NoError(t, err)
		require.Len(t, newList, 1)
		assert.Equal(t, "https://push.example/shared-device", newList[0].Endpoint)
	})
}

func TestListSubscriptionsByWaiter(t *testing.T) {
	db := newTestDB(t, "store_list")
	s := NewGormStore(db)
	ctx := context.Background()

	t.Run("unknown waiter yields empty list", func(t *testing.T) {
		subs, err := s.ListSubscriptionsByWaiter(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("returns only the waiter's subscriptions", func(t *testing.T) {
		_, err := s.UpsertSubscription(ctx, "https://push.example/a", "p", "a", "waiter-a")
		require.NoError(t, err)
		_, err = s.UpsertSubscription(ctx, "https://push.example/b", "p", "a", "waiter-a")
		require.NoError(t, err)
		_, err = s.UpsertSubscription(ctx, "https://push.example/c", "p", "a", "waiter-b")
		require.NoError(t, err)

		subs, err := s.ListSubscriptionsByWaiter(ctx, "waiter-a")
		require.NoError(t, err)
		assert.Len(t, subs, 2)
	})
}

func TestDeleteSubscriptionByEndpoint(t *testing.T) {
	db := newTestDB(t, "store_delete")
	s := NewGormStore(db)
	ctx := context.Background()

	_, err := s.UpsertSubscription(ctx, "https://push.example/doomed", "p", "a", "waiter-1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSubscriptionByEndpoint(ctx, "https://push.example/doomed"))

	subs, err := s.ListSubscriptionsByWaiter(ctx, "waiter-1")
	require.NoError(t, err)
	assert.Empty(t, subs)

	// Deleting again is not an error.
	assert.NoError(t, s.DeleteSubscriptionByEndpoint(ctx, "https://push.example/doomed"))
	assert.NoError(t, s.DeleteSubscriptionByEndpoint(ctx, "https://push.example/never-existed"))
}

func TestGetOrderAndTable(t *testing.T) {
	db := newTestDB(t, "store_domain")
	s := NewGormStore(db)
	ctx := context.Background()

	waiterID := "waiter-1"
	require.NoError(t, db.Create(&model.Table{ID: "t1", TableNumber: 7, WaiterID: &waiterID}).Error)
	require.NoError(t, db.Create(&model.Order{ID: "o1", TableID: "t1"}).Error)

	order, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "t1", order.TableID)

	table, err := s.GetTable(ctx, order.TableID)
	require.NoError(t, err)
	assert.Equal(t, 7, table.TableNumber)
	require.NotNil(t, table.WaiterID)
	assert.Equal(t, waiterID, *table.WaiterID)

	_, err = s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.GetTable(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
