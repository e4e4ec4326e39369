package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// RuntimeStatus reports the reachability of the local runtime.
type RuntimeStatus string

const (
	RuntimeReachable   RuntimeStatus = "reachable"
	RuntimeUnreachable RuntimeStatus = "unreachable"
	RuntimeUnknown     RuntimeStatus = "unknown"
)

// Snapshot is a copy-safe view of the monitor state.
type Snapshot struct {
	Status        RuntimeStatus `json:"status"`
	ModelCount    int           `json:"model_count"`
	Models        []string      `json:"models"`
	LastCheckTime *time.Time    `json:"last_check_time,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
}

// Monitor periodically probes the local runtime's model listing and keeps
// the last observed state. Routing never reads the monitor; every route
// call lists the catalog live. The monitor only feeds the health surface.
type Monitor struct {
	cfg    config.CatalogConfig
	lister Lister
	logger *zap.Logger

	mu            sync.RWMutex
	status        RuntimeStatus
	modelIDs      []string
	lastCheckTime *time.Time
	lastError     string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a catalog Monitor.
func NewMonitor(cfg config.CatalogConfig, lister Lister, logger *zap.Logger) *Monitor {
	return &Monitor{
		cfg:    cfg,
		lister: lister,
		logger: logger,
		status: RuntimeUnknown,
		done:   make(chan struct{}),
	}
}

// Start begins periodic catalog probing.
func (m *Monitor) Start() {
	if !m.cfg.MonitorEnabled {
		close(m.done)
		m.logger.Info("catalog monitor disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.loop(ctx)
	m.logger.Info("catalog monitor started",
		zap.Int("interval_seconds", m.cfg.IntervalSeconds),
	)
}

// Stop halts the monitor.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	// Run an initial probe immediately.
	m.probe(ctx)

	ticker := time.NewTicker(time.Duration(m.cfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	list, err := m.lister.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastCheckTime = &now
	if err != nil {
		if m.status != RuntimeUnreachable {
			m.logger.Warn("local runtime unreachable", zap.Error(err))
		}
		m.status = RuntimeUnreachable
		m.lastError = err.Error()
		m.modelIDs = nil
		return
	}

	m.status = RuntimeReachable
	m.lastError = ""
	m.modelIDs = modelIDs(list)
}

func modelIDs(list []models.CatalogModel) []string {
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	return ids
}

// State returns a copy-safe snapshot of the monitor state.
func (m *Monitor) State() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, len(m.modelIDs))
	copy(ids, m.modelIDs)
	return Snapshot{
		Status:        m.status,
		ModelCount:    len(ids),
		Models:        ids,
		LastCheckTime: m.lastCheckTime,
		LastError:     m.lastError,
	}
}

// CheckNow triggers an immediate probe.
func (m *Monitor) CheckNow() {
	go m.probe(context.Background())
}
