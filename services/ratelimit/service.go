package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Window represents the time window a rule is counted over
type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
	WindowDay    Window = "day"
)

// Rule limits how many requests a client may make to one route per window
type Rule struct {
	Name     string // scope prefix, e.g. "register"
	Requests int
	Window   Window
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed         bool
	Remaining       int
	ResetAt         time.Time
	ViolationReason string
}

// Service handles rate limiting using PostgreSQL
type Service struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new rate limit Service
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Allow checks the rule for client and, when allowed, records the request.
// Rejected requests are not recorded. A rule with no request budget always allows.
func (s *Service) Allow(ctx context.Context, rule Rule, client string) (*Result, error) {
	if rule.Requests <= 0 {
		return &Result{Allowed: true}, nil
	}

	scopeKey := buildScopeKey(rule.Name, client)
	now := s.now().UTC()

	allowed, remaining, resetAt, err := s.checkWindow(ctx, scopeKey, rule.Window, now, rule.Requests)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s window: %w", rule.Window, err)
	}
	if !allowed {
		return &Result{
			Allowed:         false,
			ResetAt:         resetAt,
			ViolationReason: fmt.Sprintf("exceeded %d requests per %s", rule.Requests, rule.Window),
		}, nil
	}

	if err := s.recordEvent(ctx, scopeKey, now); err != nil {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	return &Result{
		Allowed:   true,
		Remaining: remaining - 1,
		ResetAt:   resetAt,
	}, nil
}

// checkWindow checks if the limit is exceeded for a specific time window
func (s *Service) checkWindow(ctx context.Context, scopeKey string, window Window, now time.Time, limit int) (allowed bool, remaining int, resetAt time.Time, err error) {
	windowStart, resetAt := getWindowBounds(now, window)

	query := `
		SELECT COUNT(*)
		FROM rate_limit_events
		WHERE scope_key = $1
		  AND timestamp >= $2
		  AND timestamp <= $3
	`

	var count int
	err = s.db.QueryRowContext(ctx, query, scopeKey, windowStart, now).Scan(&count)
	if err != nil {
		return false, 0, resetAt, fmt.Errorf("failed to query rate limit: %w", err)
	}

	if count >= limit {
		return false, 0, resetAt, nil
	}

	return true, limit - count, resetAt, nil
}

// recordEvent records a rate limit event
func (s *Service) recordEvent(ctx context.Context, scopeKey string, timestamp time.Time) error {
	query := `
		INSERT INTO rate_limit_events (scope_key, timestamp)
		VALUES ($1, $2)
	`

	if _, err := s.db.ExecContext(ctx, query, scopeKey, timestamp); err != nil {
		return fmt.Errorf("failed to insert rate limit event: %w", err)
	}

	return nil
}

// getWindowBounds returns the sliding window start and the next reset boundary
func getWindowBounds(now time.Time, window Window) (start time.Time, reset time.Time) {
	switch window {
	case WindowHour:
		start = now.Add(-1 * time.Hour)
		reset = now.Truncate(time.Hour).Add(time.Hour)
	case WindowDay:
		start = now.Add(-24 * time.Hour)
		reset = now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	default:
		start = now.Add(-1 * time.Minute)
		reset = now.Truncate(time.Minute).Add(time.Minute)
	}
	return start, reset
}

func buildScopeKey(rule, client string) string {
	return fmt.Sprintf("route:%s:client:%s", rule, client)
}

// CleanupOldRequests removes rate limit events older than the retention period
func (s *Service) CleanupOldRequests(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoffTime := s.now().UTC().Add(-olderThan)

	query := `
		DELETE FROM rate_limit_events
		WHERE timestamp < $1
	`

	result, err := s.db.ExecContext(ctx, query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old requests: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	s.logger.Debug("cleaned up old rate limit events",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("cutoff_time", cutoffTime))

	return rowsAffected, nil
}

// StartCleanupWorker periodically deletes old events until ctx is cancelled
func (s *Service) StartCleanupWorker(ctx context.Context, interval time.Duration, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("started rate limit cleanup worker",
		zap.Duration("interval", interval),
		zap.Duration("retention", retention))

	for {
		select {
		case <-ticker.C:
			if _, err := s.CleanupOldRequests(ctx, retention); err != nil {
				s.logger.Error("failed to cleanup old requests", zap.Error(err))
			}
		case <-ctx.Done():
			s.logger.Info("stopping rate limit cleanup worker")
			return
		}
	}
}
