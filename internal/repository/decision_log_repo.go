package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/models"
)

// DecisionLogRepositoryImpl implements decision audit log data access.
type DecisionLogRepositoryImpl struct {
	db     *sql.DB // write operations
	readDB *sql.DB // read operations (may be a separate read-only pool)
	logger *zap.Logger
}

// NewDecisionLogRepositoryImpl creates a new DecisionLogRepositoryImpl.
// If readDB is nil, db is used for both reads and writes.
func NewDecisionLogRepositoryImpl(db *sql.DB, logger *zap.Logger, readDB ...*sql.DB) *DecisionLogRepositoryImpl {
	r := &DecisionLogRepositoryImpl{
		db:     db,
		readDB: db,
		logger: logger,
	}
	if len(readDB) > 0 && readDB[0] != nil {
		r.readDB = readDB[0]
	}
	return r
}

// Insert inserts a new decision log entry.
func (r *DecisionLogRepositoryImpl) Insert(ctx context.Context, entry *models.DecisionLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO decision_logs (
			request_id, category, model_name, execution_mode,
			prompt_preview, latency_ms, success, error_kind,
			hybrid, validation_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, string(entry.Category), entry.ModelName, string(entry.ExecutionMode),
		entry.PromptPreview, entry.LatencyMs, boolToInt(entry.Success), entry.ErrorKind,
		boolToInt(entry.Hybrid), entry.ValidationStatus,
		time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert decision log: %w", err)
	}
	return nil
}

// List retrieves decision logs with filtering and pagination, newest first.
func (r *DecisionLogRepositoryImpl) List(
	ctx context.Context,
	limit, offset int,
	filter DecisionLogFilter,
) ([]*models.DecisionLog, int64, error) {
	whereSQL, params := buildDecisionWhere(filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM decision_logs WHERE %s`, whereSQL)
	if err := r.readDB.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count decision logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, request_id, category, model_name, execution_mode,
			prompt_preview, latency_ms, success, error_kind,
			hybrid, validation_status, created_at
		FROM decision_logs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, whereSQL)

	params = append(params, limit, offset)
	rows, err := r.readDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query decision logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.DecisionLog, 0)
	for rows.Next() {
		entry, err := scanDecisionLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, entry)
	}

	return logs, total, rows.Err()
}

// GetStatistics retrieves aggregated statistics. Queries run sequentially
// to stay compatible with single-connection SQLite (e.g. in-memory test DBs).
func (r *DecisionLogRepositoryImpl) GetStatistics(
	ctx context.Context,
	filter DecisionLogFilter,
) (*models.DecisionStatistics, error) {
	whereSQL, params := buildDecisionWhere(filter)

	stats := &models.DecisionStatistics{
		ByCategory: make(map[models.TaskCategory]int64),
		ByMode:     make(map[models.ExecutionMode]int64),
	}

	overallQuery := fmt.Sprintf(`
		SELECT
			COUNT(*) as total_decisions,
			CASE WHEN COUNT(*) > 0
				THEN SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(*)
				ELSE 0
			END as success_rate,
			COALESCE(AVG(latency_ms), 0) as avg_latency
		FROM decision_logs
		WHERE %s
	`, whereSQL)
	if err := r.readDB.QueryRowContext(ctx, overallQuery, params...).Scan(
		&stats.TotalDecisions, &stats.SuccessRate, &stats.AvgLatencyMs,
	); err != nil {
		return nil, fmt.Errorf("failed to get overall statistics: %w", err)
	}
	stats.SuccessRate = roundToPlaces(stats.SuccessRate, 2)
	stats.AvgLatencyMs = roundToPlaces(stats.AvgLatencyMs, 2)

	// By category + by mode in a single UNION ALL query.
	unionQuery := fmt.Sprintf(`
		SELECT 'category' AS kind, category AS name, COUNT(*) AS decisions
		FROM decision_logs WHERE %s GROUP BY category
		UNION ALL
		SELECT 'mode' AS kind, execution_mode AS name, COUNT(*) AS decisions
		FROM decision_logs WHERE %s AND execution_mode != '' GROUP BY execution_mode
	`, whereSQL, whereSQL)

	unionParams := make([]any, 0, len(params)*2)
	unionParams = append(unionParams, params...)
	unionParams = append(unionParams, params...)

	rows, err := r.readDB.QueryContext(ctx, unionQuery, unionParams...)
	if err != nil {
		return nil, fmt.Errorf("failed to get grouped statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, name string
		var decisions int64
		if err := rows.Scan(&kind, &name, &decisions); err != nil {
			return nil, fmt.Errorf("failed to scan grouped statistics: %w", err)
		}
		switch kind {
		case "category":
			stats.ByCategory[models.TaskCategory(name)] = decisions
		case "mode":
			stats.ByMode[models.ExecutionMode(name)] = decisions
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grouped statistics: %w", err)
	}

	return stats, nil
}

// DeleteBefore removes audit entries older than cutoff.
func (r *DecisionLogRepositoryImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM decision_logs WHERE created_at < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("failed to delete decision logs: %w", err)
	}
	return result.RowsAffected()
}

func buildDecisionWhere(filter DecisionLogFilter) (string, []any) {
	conditions := []string{"1=1"}
	var params []any

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		params = append(params, string(*filter.Category))
	}
	if filter.Mode != nil {
		conditions = append(conditions, "execution_mode = ?")
		params = append(params, string(*filter.Mode))
	}
	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		params = append(params, boolToInt(*filter.Success))
	}
	if filter.Hybrid != nil {
		conditions = append(conditions, "hybrid = ?")
		params = append(params, boolToInt(*filter.Hybrid))
	}
	if filter.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		params = append(params, filter.StartTime.UTC().Format("2006-01-02 15:04:05"))
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		params = append(params, filter.EndTime.UTC().Format("2006-01-02 15:04:05"))
	}

	return strings.Join(conditions, " AND "), params
}

func scanDecisionLog(rows *sql.Rows) (*models.DecisionLog, error) {
	var entry models.DecisionLog
	var category, mode, createdAt string
	var success, hybrid int

	if err := rows.Scan(
		&entry.ID, &entry.RequestID, &category, &entry.ModelName, &mode,
		&entry.PromptPreview, &entry.LatencyMs, &success, &entry.ErrorKind,
		&hybrid, &entry.ValidationStatus, &createdAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan decision log: %w", err)
	}

	entry.Category = models.TaskCategory(category)
	entry.ExecutionMode = models.ExecutionMode(mode)
	entry.Success = success == 1
	entry.Hybrid = hybrid == 1
	if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		entry.CreatedAt = t
	}
	return &entry, nil
}
