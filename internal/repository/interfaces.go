// Package repository defines data access interfaces and implementations.
package repository

import (
	"context"
	"time"

	"github.com/clientforge/ai-router/internal/models"
)

// DecisionLogFilter narrows audit log queries. Nil fields are ignored.
type DecisionLogFilter struct {
	Category  *models.TaskCategory
	Mode      *models.ExecutionMode
	Success   *bool
	Hybrid    *bool
	StartTime *time.Time
	EndTime   *time.Time
}

// DecisionLogRepository provides access to the routing decision audit log.
type DecisionLogRepository interface {
	Insert(ctx context.Context, entry *models.DecisionLogEntry) error
	List(ctx context.Context, limit, offset int, filter DecisionLogFilter) ([]*models.DecisionLog, int64, error)
	GetStatistics(ctx context.Context, filter DecisionLogFilter) (*models.DecisionStatistics, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
