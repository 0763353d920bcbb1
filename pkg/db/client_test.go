package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

type stockRow struct {
	ID       int
	Size     string
	Quantity int
}

func openTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		DSN:          "file:" + filepath.Join(t.TempDir(), "client.db"),
		Driver:       config.DBDriverSQLite,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&stockRow{}))
	return client
}

func countRows(t *testing.T, client *Client, where ...any) int64 {
	t.Helper()
	var n int64
	q := client.DB().Model(&stockRow{})
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil)
	require.Error(t, err)
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	client := openTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&stockRow{Size: "M", Quantity: 3}).Error
	}))
	assert.EqualValues(t, 1, countRows(t, client))

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&stockRow{Size: "L", Quantity: 1}).Error; err != nil {
			return err
		}
		return errors.New("out of stock")
	})
	require.EqualError(t, err, "out of stock")
	assert.EqualValues(t, 0, countRows(t, client, "size = ?", "L"))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := openTestClient(t)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&stockRow{Size: "S"}).Error; err != nil {
				return err
			}
			panic("reservation bug")
		})
	})
	assert.EqualValues(t, 0, countRows(t, client, "size = ?", "S"))
}

func TestWithTxRetriesSerializationFailures(t *testing.T) {
	client := openTestClient(t)

	calls := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: pgDeadlockDetected}
		}
		return tx.Create(&stockRow{Size: "M"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.EqualValues(t, 1, countRows(t, client))
}

func TestWithTxGivesUpAfterMaxAttempts(t *testing.T) {
	client := openTestClient(t)

	calls := 0
	err := client.WithTx(context.Background(), func(*gorm.DB) error {
		calls++
		return &pgconn.PgError{Code: pgSerializationFailure}
	})
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, pgSerializationFailure, pgErr.Code)
	assert.Equal(t, defaultTxAttempts, calls)
}

func TestWithTxDoesNotRetryOtherErrors(t *testing.T) {
	client := openTestClient(t)

	calls := 0
	err := client.WithTx(context.Background(), func(*gorm.DB) error {
		calls++
		return &pgconn.PgError{Code: "23505"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPing(t *testing.T) {
	require.NoError(t, openTestClient(t).Ping(context.Background()))
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: favorite_items.user_id"), ""))
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`), "users_email_key"))
	assert.False(t, IsUniqueViolation(nil, ""))
	assert.True(t, IsCheckViolation(errors.New("CHECK constraint failed: stock_quantity >= 0")))
}
