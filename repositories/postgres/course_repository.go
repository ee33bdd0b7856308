package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"go.uber.org/zap"
)

const courseColumns = `id, title, code, capacity, is_active, deleted_at, created_at, updated_at`

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, title, code, capacity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Code,
		course.Capacity,
		course.IsActive,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return translateError("create course", err)
	}

	r.logger.Debug("course created", zap.String("id", course.ID.String()), zap.String("code", course.Code))
	return nil
}

// GetLiveByID retrieves a non-deleted course by ID
func (r *CourseRepository) GetLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

// LockLiveByID retrieves a non-deleted course and locks its row.
// Concurrent lockers of the same course queue until the holder's transaction ends.
func (r *CourseRepository) LockLiveByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// CodeExists checks every course row, including soft-deleted ones
func (r *CourseRepository) CodeExists(ctx context.Context, code string, exclude *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE code = $1)`
	args := []interface{}{code}
	if exclude != nil {
		query = `SELECT EXISTS (SELECT 1 FROM courses WHERE code = $1 AND id <> $2)`
		args = append(args, *exclude)
	}

	var exists bool
	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, translateError("check course code", err)
	}
	return exists, nil
}

// List retrieves live courses with pagination
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter, page models.PageRequest) ([]*models.Course, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}
	if filter.Title != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	executor := GetExecutor(ctx, r.db)

	var total int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, translateError("count courses", err)
	}

	args = append(args, page.Limit(), page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		courseColumns, where, len(args)-1, len(args))

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translateError("query courses", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Code,
			&course.Capacity,
			&course.IsActive,
			&course.DeletedAt,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, total, nil
}

// Update writes only the provided fields of a live course and returns the stored row.
// Columns the update leaves nil, is_active included, are not part of the statement.
func (r *CourseRepository) Update(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	args := []interface{}{id}
	var sets []string
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Code != nil {
		set("code", *update.Code)
	}
	if update.Capacity != nil {
		set("capacity", *update.Capacity)
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE courses SET %s WHERE id = $1 AND deleted_at IS NULL RETURNING %s`,
		strings.Join(sets, ", "), courseColumns)

	return r.getOne(ctx, query, args...)
}

// SetActive changes only the active flag of a live course
func (r *CourseRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Course, error) {
	query := `
		UPDATE courses
		SET is_active = $2,
		    updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + courseColumns

	return r.getOne(ctx, query, id, active, time.Now().UTC())
}

// SoftDelete marks the course deleted and inactive
func (r *CourseRepository) SoftDelete(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET deleted_at = $2,
		    is_active = false,
		    updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	now := time.Now().UTC()

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, course.ID, now)
	if err != nil {
		return translateError("delete course", err)
	}
	if err := requireRowsAffected(result, "delete course"); err != nil {
		return err
	}

	course.DeletedAt = &now
	course.IsActive = false
	course.UpdatedAt = now

	r.logger.Debug("course soft-deleted", zap.String("id", course.ID.String()))
	return nil
}

func (r *CourseRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Course, error) {
	executor := GetExecutor(ctx, r.db)
	course := &models.Course{}

	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&course.ID,
		&course.Title,
		&course.Code,
		&course.Capacity,
		&course.IsActive,
		&course.DeletedAt,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("get course", err)
	}

	return course, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
