package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	require.Same(t, db, base.DB(nil))
}

func TestBaseBindUsesTransaction(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	require.Equal(t, base, base.Bind(nil))

	err := db.Transaction(func(tx *gorm.DB) error {
		bound := base.Bind(tx)
		if err := bound.DB(context.Background()).Create(&widget{Name: "rolled back"}).Error; err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestForUpdateSkipsLockingOnSQLite(t *testing.T) {
	base := NewBase(newTestDB(t))
	stmt := base.ForUpdate(context.Background()).Session(&gorm.Session{DryRun: true}).Find(&[]widget{}).Statement
	require.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestIsNotFound(t *testing.T) {
	db := newTestDB(t)
	var w widget
	err := db.First(&w, 999).Error
	require.True(t, IsNotFound(err))
	require.True(t, IsNotFound(fmt.Errorf("load: %w", err)))
	require.False(t, IsNotFound(nil))
}
