package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/upb/course-platform/backend/models"
	"github.com/upb/course-platform/backend/repositories"
	"go.uber.org/zap"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends an audit log entry. Called with a transaction context, the
// entry commits or rolls back together with the change it describes.
func (r *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, actor_id, details, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var details interface{}
	if len(log.Details) > 0 {
		details = []byte(log.Details)
	}

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		log.ID,
		log.EntityType,
		log.EntityID,
		log.Action,
		log.ActorID,
		details,
		log.Timestamp,
	)
	if err != nil {
		return translateError("insert audit log", err)
	}

	r.logger.Debug("audit log inserted", zap.String("id", log.ID.String()), zap.String("action", string(log.Action)))
	return nil
}

// List retrieves audit logs with pagination, newest first
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter, page models.PageRequest) ([]*models.AuditLog, int, error) {
	var conditions []string
	var args []interface{}

	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	executor := GetExecutor(ctx, r.db)

	var total int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, translateError("count audit logs", err)
	}

	args = append(args, page.Limit(), page.Offset())
	query := fmt.Sprintf(`
		SELECT id, entity_type, entity_id, action, actor_id, details, timestamp
		FROM audit_logs%s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translateError("query audit logs", err)
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log := &models.AuditLog{}
		var details []byte
		if err := rows.Scan(
			&log.ID,
			&log.EntityType,
			&log.EntityID,
			&log.Action,
			&log.ActorID,
			&details,
			&log.Timestamp,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		log.Details = details
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return logs, total, nil
}
