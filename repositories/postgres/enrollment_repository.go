package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"go.uber.org/zap"
)

// viewSelect joins the student name and course title. Outer joins keep the
// enrollment visible if either side disappears.
const viewSelect = `
	SELECT e.id, e.user_id, e.course_id, u.name, c.title, e.created_at
	FROM enrollments e
	LEFT JOIN users u ON u.id = e.user_id
	LEFT JOIN courses c ON c.id = e.course_id
`

// EnrollmentRepository implements the repositories.EnrollmentRepository interface
type EnrollmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *DB, logger *zap.Logger) repositories.EnrollmentRepository {
	return &EnrollmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, user_id, course_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.CreatedAt,
	)
	if err != nil {
		return translateError("create enrollment", err)
	}

	r.logger.Debug("enrollment created",
		zap.String("id", enrollment.ID.String()),
		zap.String("user_id", enrollment.UserID.String()),
		zap.String("course_id", enrollment.CourseID.String()))
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	return r.getOne(ctx, `SELECT id, user_id, course_id, created_at FROM enrollments WHERE id = $1`, id)
}

// GetOwned retrieves an enrollment by ID and owner
func (r *EnrollmentRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Enrollment, error) {
	return r.getOne(ctx, `SELECT id, user_id, course_id, created_at FROM enrollments WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *EnrollmentRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Enrollment, error) {
	executor := GetExecutor(ctx, r.db)
	enrollment := &models.Enrollment{}

	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.CreatedAt,
	)
	if err != nil {
		return nil, translateError("get enrollment", err)
	}

	return enrollment, nil
}

// Exists reports whether the user is enrolled in the course
func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`

	var exists bool
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, translateError("check enrollment", err)
	}
	return exists, nil
}

// CountByCourse counts the enrollments of a course
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&count); err != nil {
		return 0, translateError("count enrollments", err)
	}
	return count, nil
}

// Delete physically removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return translateError("delete enrollment", err)
	}
	if err := requireRowsAffected(result, "delete enrollment"); err != nil {
		return err
	}

	r.logger.Debug("enrollment deleted", zap.String("id", id.String()))
	return nil
}

// GetView retrieves an enrollment with its display fields
func (r *EnrollmentRepository) GetView(ctx context.Context, id uuid.UUID) (*models.EnrollmentView, error) {
	executor := GetExecutor(ctx, r.db)
	view := &models.EnrollmentView{}

	err := executor.QueryRowContext(ctx, viewSelect+` WHERE e.id = $1`, id).Scan(
		&view.ID,
		&view.UserID,
		&view.CourseID,
		&view.StudentName,
		&view.CourseTitle,
		&view.CreatedAt,
	)
	if err != nil {
		return nil, translateError("get enrollment view", err)
	}

	return view, nil
}

// ListViews retrieves enrollments with pagination, newest first
func (r *EnrollmentRepository) ListViews(ctx context.Context, courseID *uuid.UUID, page models.PageRequest) ([]*models.EnrollmentView, int, error) {
	executor := GetExecutor(ctx, r.db)

	countQuery := `SELECT COUNT(*) FROM enrollments`
	listQuery := viewSelect + ` ORDER BY e.created_at DESC LIMIT $1 OFFSET $2`
	var filterArgs []interface{}
	if courseID != nil {
		countQuery += ` WHERE course_id = $1`
		listQuery = viewSelect + ` WHERE e.course_id = $1 ORDER BY e.created_at DESC LIMIT $2 OFFSET $3`
		filterArgs = append(filterArgs, *courseID)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, translateError("count enrollments", err)
	}

	args := append(filterArgs, page.Limit(), page.Offset())
	rows, err := executor.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, translateError("query enrollments", err)
	}
	defer rows.Close()

	var views []*models.EnrollmentView
	for rows.Next() {
		view := &models.EnrollmentView{}
		if err := rows.Scan(
			&view.ID,
			&view.UserID,
			&view.CourseID,
			&view.StudentName,
			&view.CourseTitle,
			&view.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return views, total, nil
}
