package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopedRecord struct {
	ID       uint  `gorm:"primarykey"`
	TenantID *uint `gorm:"index"`
	IsShared bool
	IsActive bool
}

func uintPtr(v uint) *uint { return &v }

func setupScopeDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&scopedRecord{}))

	records := []scopedRecord{
		{ID: 1, TenantID: uintPtr(1), IsShared: false, IsActive: true},
		{ID: 2, TenantID: uintPtr(1), IsShared: true, IsActive: true},
		{ID: 3, TenantID: uintPtr(2), IsShared: false, IsActive: true},
		{ID: 4, TenantID: uintPtr(2), IsShared: true, IsActive: false},
		{ID: 5, TenantID: nil, IsShared: true, IsActive: true},
		{ID: 6, TenantID: nil, IsShared: false, IsActive: true},
	}
	require.NoError(t, database.Create(&records).Error)

	return database
}

func queryIDs(t *testing.T, database *gorm.DB, scope func(*gorm.DB) *gorm.DB) []uint {
	var ids []uint
	err := database.Model(&scopedRecord{}).Scopes(scope).Order("id").Pluck("id", &ids).Error
	require.NoError(t, err)
	return ids
}

func TestTenantContent(t *testing.T) {
	database := setupScopeDB(t)

	t.Run("tenant sees own records plus shared ones", func(t *testing.T) {
		ids := queryIDs(t, database, TenantContent(uintPtr(1)))
		assert.Equal(t, []uint{1, 2, 4, 5}, ids)
	})

	t.Run("other tenant sees its own plus shared", func(t *testing.T) {
		ids := queryIDs(t, database, TenantContent(uintPtr(2)))
		assert.Equal(t, []uint{2, 3, 4, 5}, ids)
	})

	t.Run("no tenant sees only shared tenant-less records", func(t *testing.T) {
		ids := queryIDs(t, database, TenantContent(nil))
		assert.Equal(t, []uint{5}, ids)
	})
}

func TestTenantOnly(t *testing.T) {
	database := setupScopeDB(t)

	t.Run("strict tenant scoping ignores sharing", func(t *testing.T) {
		ids := queryIDs(t, database, TenantOnly(uintPtr(2)))
		assert.Equal(t, []uint{3, 4}, ids)
	})

	t.Run("nil selects tenant-less records", func(t *testing.T) {
		ids := queryIDs(t, database, TenantOnly(nil))
		assert.Equal(t, []uint{5, 6}, ids)
	})
}

func TestActiveOnly(t *testing.T) {
	database := setupScopeDB(t)

	ids := queryIDs(t, database, ActiveOnly())
	assert.Equal(t, []uint{1, 2, 3, 5, 6}, ids)
}

func TestScopesCompose(t *testing.T) {
	database := setupScopeDB(t)

	var ids []uint
	err := database.Model(&scopedRecord{}).
		Scopes(TenantContent(uintPtr(2)), ActiveOnly()).
		Order("id").
		Pluck("id", &ids).Error
	require.NoError(t, err)

	assert.Equal(t, []uint{2, 3, 5}, ids)
}
