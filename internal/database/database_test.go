package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost:5432/schedule"))
	assert.True(t, IsPostgres("postgresql://localhost/schedule"))
	assert.False(t, IsPostgres("schedule.db"))
	assert.False(t, IsPostgres(":memory:"))
}

func TestFileStorePath(t *testing.T) {
	path, ok := FileStorePath("file:data/bookings.json")
	assert.True(t, ok)
	assert.Equal(t, "data/bookings.json", path)

	path, ok = FileStorePath("bookings.JSON")
	assert.True(t, ok)
	assert.Equal(t, "bookings.JSON", path)

	_, ok = FileStorePath("schedule.db")
	assert.False(t, ok)
}

type widget struct {
	ID   int64
	Name string
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(":memory:", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "net"}).Error)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
