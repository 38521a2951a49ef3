package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))
	return NewRepository(db)
}

func TestMarkPaid_onlyOnce(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Order{
		ID:            "ord_1",
		TransactionID: "TX-1",
		Status:        enums.OrderStatusPending,
		Total:         99.99,
	}))

	paidAt := time.Now()
	first, err := repo.MarkPaid(ctx, "TX-1", paidAt)
	require.NoError(t, err)
	assert.True(t, first, "first transition must win")

	second, err := repo.MarkPaid(ctx, "TX-1", paidAt)
	require.NoError(t, err)
	assert.False(t, second, "replay must be a no-op")

	loaded, err := repo.FindByTransaction(ctx, "TX-1")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, loaded.Status)
	assert.NotNil(t, loaded.PaidAt)
}

func TestMarkShipped_requiresPaid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Order{
		ID:            "ord_1",
		TransactionID: "TX-1",
		Status:        enums.OrderStatusPending,
	}))

	assert.Error(t, repo.MarkShipped(ctx, "ord_1", "BR123456789BR"), "shipping a pending order should fail")

	_, err := repo.MarkPaid(ctx, "TX-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.MarkShipped(ctx, "ord_1", "BR123456789BR"))

	loaded, err := repo.FindByTransaction(ctx, "TX-1")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, loaded.Status)
	require.NotNil(t, loaded.TrackingCode)
	assert.Equal(t, "BR123456789BR", *loaded.TrackingCode)
}

func TestFindByTransaction_missing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByTransaction(context.Background(), "TX-nope")
	assert.Error(t, err)
}
