package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/metrics"
	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/ndbc/noaa"
)

// CatalogService is the subset of *ndbc.Service a sweep drives.
type CatalogService interface {
	HistoricalFiles(ctx context.Context, dt ndbc.DataType) ([]ndbc.HistoricFile, error)
	CurrentYearFiles(ctx context.Context, dt ndbc.DataType) ([]ndbc.HistoricFile, error)
	RealtimeFiles(ctx context.Context, feed ndbc.Feed) ([]ndbc.RealtimeFile, error)

	RealtimeStdMet(ctx context.Context, station string) ([]ndbc.StdMetObservation, error)
	RealtimeDrift(ctx context.Context, station string) ([]ndbc.StdMetObservation, error)
	RealtimeContinuousWinds(ctx context.Context, station string) ([]ndbc.ContinuousWindsObservation, error)
	RealtimeSpectralSummary(ctx context.Context, station string) ([]ndbc.SpectralSummaryObservation, error)
}

var _ CatalogService = (*ndbc.Service)(nil)

// SweepJob walks the NDBC catalog: it lists archives and realtime feeds and
// decodes the realtime feeds of selected stations.
type SweepJob struct {
	config  SweepConfig
	service CatalogService
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu    sync.RWMutex
	stats SweepStats
}

// SweepStats accumulates over all runs of a job.
type SweepStats struct {
	Runs            int64
	TasksSucceeded  int64
	TasksFailed     int64
	FilesDiscovered int64
	RecordsDecoded  int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// SweepJobConfig holds configuration for creating a SweepJob.
type SweepJobConfig struct {
	Config  SweepConfig
	Service CatalogService
	Logger  zerolog.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// NewSweepJob creates a new sweep job.
func NewSweepJob(cfg SweepJobConfig) *SweepJob {
	return &SweepJob{
		config:  cfg.Config.withDefaults(),
		service: cfg.Service,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// SweepResult contains the result of one sweep.
type SweepResult struct {
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	Tasks           int
	Successful      int
	Failed          int
	FilesDiscovered int
	RecordsDecoded  int
	Errors          []TaskError
}

// Outcome classifies the run for metrics: success, partial or failed.
func (r *SweepResult) Outcome() string {
	switch {
	case r.Failed == 0:
		return "success"
	case r.Successful > 0:
		return "partial"
	default:
		return "failed"
	}
}

// TaskError records a failed task.
type TaskError struct {
	Task  Task
	Error string
}

type taskResult struct {
	task    Task
	files   int
	records int
	err     error
}

// Run executes every task of the configured sweep.
func (j *SweepJob) Run(ctx context.Context) *SweepResult {
	return j.run(ctx, j.config.Tasks())
}

// RunTasks executes an explicit task list with the job's pool settings.
func (j *SweepJob) RunTasks(ctx context.Context, tasks []Task) *SweepResult {
	return j.run(ctx, tasks)
}

func (j *SweepJob) run(ctx context.Context, tasks []Task) *SweepResult {
	startTime := time.Now()
	result := &SweepResult{StartTime: startTime, Tasks: len(tasks)}

	j.logger.Info().
		Int("tasks", len(tasks)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting catalog sweep")

	if j.metrics != nil {
		j.metrics.SweepRunning.Set(1)
		defer j.metrics.SweepRunning.Set(0)
	}

	taskChan := make(chan Task, len(tasks))
	resultsChan := make(chan taskResult, len(tasks))

	var wg sync.WaitGroup
	for range j.config.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.sweepWorker(ctx, taskChan, resultsChan)
		}()
	}

	for _, task := range tasks {
		taskChan <- task
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		if tr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, TaskError{Task: tr.task, Error: tr.err.Error()})
			j.logger.Warn().Err(tr.err).Str("task", tr.task.String()).Msg("sweep task failed")
			if j.metrics != nil {
				j.metrics.TaskFailures.WithLabelValues(string(tr.task.Kind)).Inc()
			}
			continue
		}
		result.Successful++
		result.FilesDiscovered += tr.files
		result.RecordsDecoded += tr.records
	}
	// Tasks never picked up because ctx ended count as failed.
	if skipped := result.Tasks - result.Successful - result.Failed; skipped > 0 {
		result.Failed += skipped
		result.Errors = append(result.Errors, TaskError{
			Task:  Task{Kind: "cancelled"},
			Error: fmt.Sprintf("%d tasks not run: %v", skipped, context.Cause(ctx)),
		})
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateStats(result)
	if j.metrics != nil {
		j.metrics.SweepRuns.WithLabelValues(result.Outcome()).Inc()
		j.metrics.SweepDuration.Observe(result.Duration.Seconds())
	}

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("files", result.FilesDiscovered).
		Int("records", result.RecordsDecoded).
		Msg("catalog sweep completed")

	return result
}

func (j *SweepJob) sweepWorker(ctx context.Context, tasks <-chan Task, results chan<- taskResult) {
	for task := range tasks {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.runTask(ctx, task)
		}
	}
}

func (j *SweepJob) runTask(ctx context.Context, task Task) taskResult {
	taskCtx, cancel := context.WithTimeout(ctx, j.config.TaskTimeout)
	defer cancel()

	tr := taskResult{task: task}
	switch task.Kind {
	case TaskHistorical:
		files, err := j.service.HistoricalFiles(taskCtx, task.DataType)
		tr.files, tr.err = len(files), err
		j.countFiles(task.DataType, "historical", len(files))
	case TaskCurrent:
		files, err := j.service.CurrentYearFiles(taskCtx, task.DataType)
		tr.files, tr.err = len(files), err
		j.countFiles(task.DataType, "current", len(files))
	case TaskRealtime:
		files, err := j.service.RealtimeFiles(taskCtx, task.Feed)
		tr.files, tr.err = len(files), err
		j.countFiles(task.Feed.DataType(), "realtime", len(files))
	case TaskDecode:
		tr.records, tr.err = j.decode(taskCtx, task)
		if isNotPublished(tr.err) {
			// Most stations publish only some feeds.
			j.logger.Debug().Str("task", task.String()).Msg("feed not published")
			tr.err = nil
		}
		if tr.err == nil && j.metrics != nil {
			j.metrics.RecordsDecoded.WithLabelValues(task.Feed.DataType().Code()).Add(float64(tr.records))
		}
	default:
		tr.err = fmt.Errorf("unknown task kind %q", task.Kind)
	}
	return tr
}

func (j *SweepJob) decode(ctx context.Context, task Task) (int, error) {
	switch task.Feed {
	case ndbc.FeedStdMet:
		records, err := j.service.RealtimeStdMet(ctx, task.Station)
		return len(records), err
	case ndbc.FeedDrift:
		records, err := j.service.RealtimeDrift(ctx, task.Station)
		return len(records), err
	case ndbc.FeedContinuousWinds:
		records, err := j.service.RealtimeContinuousWinds(ctx, task.Station)
		return len(records), err
	case ndbc.FeedSpectralSummary:
		records, err := j.service.RealtimeSpectralSummary(ctx, task.Station)
		return len(records), err
	default:
		return 0, fmt.Errorf("%w: feed %q", ndbc.ErrUnsupportedDataType, task.Feed)
	}
}

func (j *SweepJob) countFiles(dt ndbc.DataType, source string, n int) {
	if j.metrics != nil && n > 0 {
		j.metrics.FilesDiscovered.WithLabelValues(dt.Code(), source).Add(float64(n))
	}
}

func isNotPublished(err error) bool {
	var statusErr *noaa.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

func (j *SweepJob) updateStats(result *SweepResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stats.Runs++
	j.stats.TasksSucceeded += int64(result.Successful)
	j.stats.TasksFailed += int64(result.Failed)
	j.stats.FilesDiscovered += int64(result.FilesDiscovered)
	j.stats.RecordsDecoded += int64(result.RecordsDecoded)
	j.stats.LastRunAt = result.EndTime
	j.stats.LastRunDuration = result.Duration
	j.stats.TotalDuration += result.Duration
}

// Stats returns a copy of the accumulated statistics.
func (j *SweepJob) Stats() SweepStats {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stats
}

// StatsSnapshot returns the statistics as a map for health output.
func (j *SweepJob) StatsSnapshot() map[string]any {
	s := j.Stats()
	return map[string]any{
		"runs":              s.Runs,
		"tasks_succeeded":   s.TasksSucceeded,
		"tasks_failed":      s.TasksFailed,
		"files_discovered":  s.FilesDiscovered,
		"records_decoded":   s.RecordsDecoded,
		"last_run_at":       s.LastRunAt,
		"last_run_duration": s.LastRunDuration.String(),
		"total_duration":    s.TotalDuration.String(),
	}
}
