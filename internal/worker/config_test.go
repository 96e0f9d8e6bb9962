package worker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tidewire/tidewire/internal/ndbc"
	"github.com/tidewire/tidewire/internal/worker"
)

func TestDefaultSweepConfig(t *testing.T) {
	cfg := worker.DefaultSweepConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, []ndbc.DataType{ndbc.StandardMeteorological, ndbc.ContinuousWinds}, cfg.DataTypes)
	assert.Len(t, cfg.Feeds, 3)
	assert.Empty(t, cfg.Stations)
}

func TestSweepConfig_Tasks(t *testing.T) {
	cfg := worker.SweepConfig{
		DataTypes: []ndbc.DataType{ndbc.StandardMeteorological},
		Feeds:     []ndbc.Feed{ndbc.FeedStdMet, ndbc.FeedContinuousWinds},
		Stations:  []string{"41001", "tplm2"},
	}

	var names []string
	for _, task := range cfg.Tasks() {
		names = append(names, task.String())
	}
	assert.Equal(t, []string{
		"historical:stdmet",
		"current:stdmet",
		"realtime:txt",
		"realtime:cwind",
		"decode:txt:41001",
		"decode:cwind:41001",
		"decode:txt:TPLM2",
		"decode:cwind:TPLM2",
	}, names)
}

func TestSweepConfig_TasksWithoutStations(t *testing.T) {
	tasks := worker.DefaultSweepConfig().Tasks()

	// Two listings per data type plus one per feed.
	assert.Len(t, tasks, 2*2+3)
	for _, task := range tasks {
		assert.NotEqual(t, worker.TaskDecode, task.Kind)
	}
}
