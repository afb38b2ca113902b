package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/models"
)

const (
	EventJobCreated  = "job.created"
	EventJobFeatured = "job.featured"
	EventJobExpired  = "job.expired"

	jobEventsChannel = "jobs:events"
	subscriberBuffer = 32
)

// JobEvent is broadcast over Redis and WebSocket so browsers can refresh
// their cached job list.
type JobEvent struct {
	Type      string      `json:"type"`
	JobID     string      `json:"jobId"`
	Job       *models.Job `json:"job,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventPublisher is what services use to announce job changes.
type EventPublisher interface {
	Publish(ctx context.Context, evt JobEvent)
}

// JobFeed is the per-instance registry of feed subscribers. With a Redis
// client, events go through pub/sub so every instance fans out to its own
// subscribers; without one, events are delivered locally.
type JobFeed struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan JobEvent
	redis       *redis.Client
	started     sync.Once
}

func NewJobFeed(client *redis.Client) *JobFeed {
	return &JobFeed{
		subscribers: make(map[uuid.UUID]chan JobEvent),
		redis:       client,
	}
}

// Subscribe registers a subscriber. The returned cancel func must be called
// when the connection goes away; it closes the channel.
func (f *JobFeed) Subscribe() (<-chan JobEvent, func()) {
	id := uuid.New()
	ch := make(chan JobEvent, subscriberBuffer)

	f.mu.Lock()
	f.subscribers[id] = ch
	f.mu.Unlock()
	metrics.RealtimeConnections.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			f.mu.Unlock()
			close(ch)
			metrics.RealtimeConnections.Dec()
		})
	}
}

// Subscribers reports the number of local subscribers.
func (f *JobFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// fanOut delivers evt to every local subscriber. Slow subscribers miss
// events rather than block the publisher.
func (f *JobFeed) fanOut(evt JobEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for id, ch := range f.subscribers {
		select {
		case ch <- evt:
		default:
			slog.Debug("job feed subscriber lagging, event dropped", "subscriber", id, "type", evt.Type)
		}
	}
}

func (f *JobFeed) Publish(ctx context.Context, evt JobEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if f.redis == nil {
		f.fanOut(evt)
		return
	}

	data, err := json.Marshal(evt)
	if err == nil {
		err = f.redis.Publish(ctx, jobEventsChannel, data).Err()
	}
	if err != nil {
		slog.WarnContext(ctx, "job event publish failed, delivering locally", "error", err, "type", evt.Type)
		f.fanOut(evt)
	}
}

// Start launches the shared Redis listener once per instance. It is a no-op
// without Redis.
func (f *JobFeed) Start(ctx context.Context) {
	if f.redis == nil {
		return
	}
	f.started.Do(func() {
		go f.runSubscriber(ctx)
	})
}

func (f *JobFeed) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := f.redis.Subscribe(ctx, jobEventsChannel)
			defer pubsub.Close()

			slog.Info("✅ Job feed Redis subscriber started", "channel", jobEventsChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.Warn("job feed subscriber error", "error", err, "retry_in", backoff)
					select {
					case <-ctx.Done():
					case <-time.After(backoff):
					}
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var evt JobEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					slog.Warn("failed to unmarshal job event", "error", err)
					continue
				}
				f.fanOut(evt)
			}
		}()
	}
}
