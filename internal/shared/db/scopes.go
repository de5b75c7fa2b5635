package db

import (
	"gorm.io/gorm"
)

// TenantContent scopes a content query to what a tenant is allowed to see:
// its own records plus globally-shared ones. With no tenant, only shared
// records that belong to no tenant are visible.
//
// Example usage:
//
//	db.Model(&CourseModel{}).Scopes(db.TenantContent(tenantID)).Find(&results)
func TenantContent(tenantID *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == nil {
			return db.Where("is_shared = ? AND tenant_id IS NULL", true)
		}
		return db.Where("(tenant_id = ? OR is_shared = ?)", *tenantID, true)
	}
}

// TenantOnly scopes strictly to the given tenant's records, ignoring
// global-sharing. With no tenant it selects tenant-less records.
func TenantOnly(tenantID *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == nil {
			return db.Where("tenant_id IS NULL")
		}
		return db.Where("tenant_id = ?", *tenantID)
	}
}

// ActiveOnly filters for records whose is_active flag is set.
func ActiveOnly() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	}
}
