// Package content holds the course and quiz entities the edit gates and
// tenant-content filters operate on. A record with no tenant is global
// content; it is visible to every tenant when its shared flag is set.
package content

import (
	"fmt"
	"strings"
	"time"
)

type Course struct {
	id          uint
	title       string
	description string
	tenantID    *uint
	isShared    bool
	isActive    bool
	createdBy   uint
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCourse(title, description string, tenantID *uint, createdBy uint) (*Course, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("course title too long (max 200 characters)")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator account ID is required")
	}

	now := time.Now()
	return &Course{
		title:       title,
		description: description,
		tenantID:    tenantID,
		isActive:    true,
		createdBy:   createdBy,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructCourse(id uint, title, description string, tenantID *uint, isShared, isActive bool, createdBy uint, createdAt, updatedAt time.Time) (*Course, error) {
	if id == 0 {
		return nil, fmt.Errorf("course ID cannot be zero")
	}

	return &Course{
		id:          id,
		title:       title,
		description: description,
		tenantID:    tenantID,
		isShared:    isShared,
		isActive:    isActive,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (c *Course) ID() uint {
	return c.id
}

func (c *Course) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("course ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("course ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *Course) Title() string {
	return c.title
}

// Description is the raw markdown source; callers render and sanitize it
// before returning it to a browser.
func (c *Course) Description() string {
	return c.description
}

func (c *Course) TenantID() *uint {
	return c.tenantID
}

// IsGlobal reports whether the course belongs to no tenant.
func (c *Course) IsGlobal() bool {
	return c.tenantID == nil
}

func (c *Course) IsShared() bool {
	return c.isShared
}

func (c *Course) IsActive() bool {
	return c.isActive
}

func (c *Course) CreatedBy() uint {
	return c.createdBy
}

func (c *Course) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Course) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Course) Update(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("course title cannot be empty")
	}
	if len(title) > 200 {
		return fmt.Errorf("course title too long (max 200 characters)")
	}
	c.title = title
	c.description = description
	c.updatedAt = time.Now()
	return nil
}

func (c *Course) Share() {
	if c.isShared {
		return
	}
	c.isShared = true
	c.updatedAt = time.Now()
}

func (c *Course) Deactivate() {
	if !c.isActive {
		return
	}
	c.isActive = false
	c.updatedAt = time.Now()
}
