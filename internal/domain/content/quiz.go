package content

import (
	"fmt"
	"strings"
	"time"
)

type Quiz struct {
	id           uint
	title        string
	description  string
	tenantID     *uint
	isShared     bool
	isActive     bool
	timeLimitSec int
	createdBy    uint
	createdAt    time.Time
	updatedAt    time.Time
}

func NewQuiz(title, description string, tenantID *uint, timeLimitSec int, createdBy uint) (*Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("quiz title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("quiz title too long (max 200 characters)")
	}
	if timeLimitSec < 0 {
		return nil, fmt.Errorf("time limit cannot be negative")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator account ID is required")
	}

	now := time.Now()
	return &Quiz{
		title:        title,
		description:  description,
		tenantID:     tenantID,
		isActive:     true,
		timeLimitSec: timeLimitSec,
		createdBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructQuiz(id uint, title, description string, tenantID *uint, isShared, isActive bool, timeLimitSec int, createdBy uint, createdAt, updatedAt time.Time) (*Quiz, error) {
	if id == 0 {
		return nil, fmt.Errorf("quiz ID cannot be zero")
	}

	return &Quiz{
		id:           id,
		title:        title,
		description:  description,
		tenantID:     tenantID,
		isShared:     isShared,
		isActive:     isActive,
		timeLimitSec: timeLimitSec,
		createdBy:    createdBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (q *Quiz) ID() uint {
	return q.id
}

func (q *Quiz) SetID(id uint) error {
	if q.id != 0 {
		return fmt.Errorf("quiz ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("quiz ID cannot be zero")
	}
	q.id = id
	return nil
}

func (q *Quiz) Title() string {
	return q.title
}

func (q *Quiz) Description() string {
	return q.description
}

func (q *Quiz) TenantID() *uint {
	return q.tenantID
}

func (q *Quiz) IsGlobal() bool {
	return q.tenantID == nil
}

func (q *Quiz) IsShared() bool {
	return q.isShared
}

func (q *Quiz) IsActive() bool {
	return q.isActive
}

func (q *Quiz) TimeLimitSec() int {
	return q.timeLimitSec
}

func (q *Quiz) CreatedBy() uint {
	return q.createdBy
}

func (q *Quiz) CreatedAt() time.Time {
	return q.createdAt
}

func (q *Quiz) UpdatedAt() time.Time {
	return q.updatedAt
}

func (q *Quiz) Update(title, description string, timeLimitSec int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("quiz title cannot be empty")
	}
	if len(title) > 200 {
		return fmt.Errorf("quiz title too long (max 200 characters)")
	}
	if timeLimitSec < 0 {
		return fmt.Errorf("time limit cannot be negative")
	}
	q.title = title
	q.description = description
	q.timeLimitSec = timeLimitSec
	q.updatedAt = time.Now()
	return nil
}

func (q *Quiz) Share() {
	if q.isShared {
		return
	}
	q.isShared = true
	q.updatedAt = time.Now()
}

func (q *Quiz) Deactivate() {
	if !q.isActive {
		return
	}
	q.isActive = false
	q.updatedAt = time.Now()
}
