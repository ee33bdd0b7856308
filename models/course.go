package models

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course in the catalog
type Course struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Code      string     `json:"code" db:"code"` // globally unique, including soft-deleted courses
	Capacity  int        `json:"capacity" db:"capacity"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Course model
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates a new active Course instance
func NewCourse(title, code string, capacity int) *Course {
	now := time.Now().UTC()
	return &Course{
		ID:        uuid.New(),
		Title:     title,
		Code:      code,
		Capacity:  capacity,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDeleted returns true if the course has been soft-deleted
func (c *Course) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CourseUpdate carries the fields of a partial course update. Nil fields are left unchanged.
type CourseUpdate struct {
	Title    *string
	Code     *string
	Capacity *int
}

// CourseFilter narrows course listings
type CourseFilter struct {
	Title      string
	ActiveOnly bool
}
