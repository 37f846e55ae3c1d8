package job

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/database"
	"project-task-api/internal/metrics"
)

// Counter reports the number of rows in a table
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// BusinessMetricsJob refreshes the projects_total and tasks_total gauges
type BusinessMetricsJob struct {
	projects Counter
	tasks    Counter
	metrics  *metrics.Metrics
	logger   *zap.Logger
	timeout  time.Duration
}

// NewBusinessMetricsJob creates a new BusinessMetricsJob instance
func NewBusinessMetricsJob(projects, tasks Counter, m *metrics.Metrics, logger *zap.Logger) *BusinessMetricsJob {
	return &BusinessMetricsJob{
		projects: projects,
		tasks:    tasks,
		metrics:  m,
		logger:   logger,
		timeout:  10 * time.Second,
	}
}

// Run counts projects and tasks. A failed count leaves its gauge at the previous value.
func (j *BusinessMetricsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	projects, err := j.projects.Count(ctx)
	if err != nil {
		j.logger.Error("Failed to count projects", zap.Error(err))
	} else {
		j.metrics.SetProjectsTotal(projects)
	}

	tasks, err := j.tasks.Count(ctx)
	if err != nil {
		j.logger.Error("Failed to count tasks", zap.Error(err))
	} else {
		j.metrics.SetTasksTotal(tasks)
	}

	j.logger.Debug("Business metrics refreshed",
		zap.Int64("projects", projects),
		zap.Int64("tasks", tasks),
	)
}

// DBStatsJob publishes connection pool statistics
type DBStatsJob struct {
	db       *gorm.DB
	recorder database.MetricsRecorder
}

// NewDBStatsJob creates a new DBStatsJob instance
func NewDBStatsJob(db *gorm.DB, recorder database.MetricsRecorder) *DBStatsJob {
	return &DBStatsJob{db: db, recorder: recorder}
}

// Run executes the job
func (j *DBStatsJob) Run() {
	database.CollectDBStats(j.db, j.recorder)
}
