// Package worker runs background catalog sweeps against the NDBC site.
package worker

import (
	"time"

	"github.com/tidewire/tidewire/internal/ndbc"
)

// TaskKind names one kind of sweep task.
type TaskKind string

const (
	TaskHistorical TaskKind = "historical"
	TaskCurrent    TaskKind = "current"
	TaskRealtime   TaskKind = "realtime"
	TaskDecode     TaskKind = "decode"
)

// Task is a single unit of sweep work.
type Task struct {
	Kind     TaskKind
	DataType ndbc.DataType
	Feed     ndbc.Feed
	Station  string
}

// String renders the task for logs, e.g. "decode:cwind:41001".
func (t Task) String() string {
	switch t.Kind {
	case TaskHistorical, TaskCurrent:
		return string(t.Kind) + ":" + t.DataType.Code()
	case TaskRealtime:
		return string(t.Kind) + ":" + string(t.Feed)
	default:
		return string(t.Kind) + ":" + string(t.Feed) + ":" + ndbc.CanonicalStation(t.Station)
	}
}

// SweepConfig holds configuration for the catalog sweep job.
type SweepConfig struct {
	// DataTypes whose historical and current-year archives are listed.
	// If empty, uses DefaultSweepConfig's.
	DataTypes []ndbc.DataType

	// Feeds whose realtime listing is read, and which are decoded for Stations.
	Feeds []ndbc.Feed

	// Stations whose realtime feeds are decoded. Empty skips decoding.
	Stations []string

	// Concurrency is the number of concurrent tasks.
	// Default: 3
	Concurrency int

	// TaskTimeout bounds each task.
	// Default: 2 minutes
	TaskTimeout time.Duration
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		DataTypes:   []ndbc.DataType{ndbc.StandardMeteorological, ndbc.ContinuousWinds},
		Feeds:       []ndbc.Feed{ndbc.FeedStdMet, ndbc.FeedContinuousWinds, ndbc.FeedSpectralSummary},
		Concurrency: 3,
		TaskTimeout: 2 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultSweepConfig.
func (c SweepConfig) withDefaults() SweepConfig {
	def := DefaultSweepConfig()
	if len(c.DataTypes) == 0 {
		c.DataTypes = def.DataTypes
	}
	if len(c.Feeds) == 0 {
		c.Feeds = def.Feeds
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = def.TaskTimeout
	}
	return c
}

// Tasks expands the configuration into sweep tasks: listings first, then
// per-station decodes.
func (c SweepConfig) Tasks() []Task {
	tasks := make([]Task, 0, 2*len(c.DataTypes)+len(c.Feeds)*(1+len(c.Stations)))
	for _, dt := range c.DataTypes {
		tasks = append(tasks,
			Task{Kind: TaskHistorical, DataType: dt},
			Task{Kind: TaskCurrent, DataType: dt},
		)
	}
	for _, feed := range c.Feeds {
		tasks = append(tasks, Task{Kind: TaskRealtime, Feed: feed})
	}
	for _, station := range c.Stations {
		for _, feed := range c.Feeds {
			tasks = append(tasks, Task{Kind: TaskDecode, Feed: feed, Station: station})
		}
	}
	return tasks
}
