package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/tidewire/tidewire/internal/ndbc"
)

// Job types accepted on the trigger subscription.
const (
	JobCatalogSweep = "catalog_sweep"
	JobHealthCheck  = "health_check"
)

// ErrMalformedMessage is returned for payloads that are not a SweepMessage.
var ErrMalformedMessage = errors.New("malformed sweep message")

// SweepMessage triggers a sweep. Empty DataTypes, Feeds and Stations fall
// back to the job's configuration.
type SweepMessage struct {
	JobType   string   `json:"job_type"`
	DataTypes []string `json:"data_types,omitempty"`
	Feeds     []string `json:"feeds,omitempty"`
	Stations  []string `json:"stations,omitempty"`
}

// Dispatcher turns trigger messages into sweeps.
type Dispatcher struct {
	job    *SweepJob
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher for job.
func NewDispatcher(job *SweepJob, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{job: job, logger: logger}
}

// Dispatch runs the job named in data. A nil error means the message should
// be acked; unknown job types are acked so they are not redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) error {
	var msg SweepMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	switch msg.JobType {
	case JobCatalogSweep:
		return d.sweep(ctx, msg)
	case JobHealthCheck:
		return d.healthCheck(ctx)
	default:
		d.logger.Warn().Str("job_type", msg.JobType).Msg("unknown job type")
		return nil
	}
}

func (d *Dispatcher) sweep(ctx context.Context, msg SweepMessage) error {
	cfg := d.job.config
	if len(msg.DataTypes) > 0 {
		cfg.DataTypes = nil
		for _, code := range msg.DataTypes {
			dt := ndbc.ParseDataType(code)
			if !dt.Supported() {
				return fmt.Errorf("%w: data type %q", ErrMalformedMessage, code)
			}
			cfg.DataTypes = append(cfg.DataTypes, dt)
		}
	}
	if len(msg.Feeds) > 0 {
		cfg.Feeds = nil
		for _, name := range msg.Feeds {
			feed, ok := ndbc.ParseFeed(name)
			if !ok {
				return fmt.Errorf("%w: feed %q", ErrMalformedMessage, name)
			}
			cfg.Feeds = append(cfg.Feeds, feed)
		}
	}
	if len(msg.Stations) > 0 {
		cfg.Stations = msg.Stations
	}

	result := d.job.RunTasks(ctx, cfg.Tasks())

	// Consider it successful if at least half the tasks succeeded.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many sweep failures: %d/%d", result.Failed, result.Tasks)
	}
	return nil
}

func (d *Dispatcher) healthCheck(ctx context.Context) error {
	d.logger.Debug().Msg("running health check")

	// One realtime listing proves the site is reachable and still parseable.
	result := d.job.RunTasks(ctx, []Task{{Kind: TaskRealtime, Feed: ndbc.FeedStdMet}})
	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %s", result.Errors[0].Error)
	}
	d.logger.Debug().Msg("health check passed")
	return nil
}

// PubSubHandler receives trigger messages from a Pub/Sub subscription.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Dispatcher       *Dispatcher
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	// A sweep can run for minutes; one at a time.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 30 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       cfg.Dispatcher,
		logger:           cfg.Logger,
	}, nil
}

// Start receives messages until ctx ends, restarting the stream with
// exponential backoff when it fails.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	receive := func() error {
		err := h.subscriber.Receive(ctx, h.handleMessage)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("receive stream closed")
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		h.logger.Warn().Err(err).Dur("retry_in", wait).Msg("pubsub receive failed")
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0
	err := backoff.RetryNotify(receive, backoff.WithContext(policy, ctx), notify)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	if err := h.dispatcher.Dispatch(ctx, msg.Data); err != nil {
		if errors.Is(err, ErrMalformedMessage) {
			// Redelivery cannot fix the payload.
			logger.Error().Err(err).Msg("dropping malformed message")
			msg.Ack()
			return
		}
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")
	msg.Ack()
}
