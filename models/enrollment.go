package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment links a user to a course. The (user, course) pair is unique and
// removal is physical.
type Enrollment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CourseID  uuid.UUID `json:"course_id" db:"course_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Enrollment model
func (Enrollment) TableName() string {
	return "enrollments"
}

// NewEnrollment creates a new Enrollment instance
func NewEnrollment(userID, courseID uuid.UUID) *Enrollment {
	return &Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
}

// EnrollmentView is an enrollment joined with the student name and course title
type EnrollmentView struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	StudentName *string   `json:"student_name"`
	CourseTitle *string   `json:"course_title"`
	CreatedAt   time.Time `json:"created_at"`
}
