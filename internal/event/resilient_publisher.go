package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// DefaultResilientConfig returns sensible retry defaults.
func DefaultResilientConfig(deadLetterPath string) ResilientConfig {
	return ResilientConfig{
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
		DeadLetterPath: deadLetterPath,
	}
}

// ResilientPublisher wraps a Bus to add retry logic and dead letter queuing.
// Publish returns nil as soon as the event is accepted for processing; the
// retry loop runs detached so a cancelled request context cannot drop the
// event.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
	wg     sync.WaitGroup
	mu     sync.Mutex // Protects dead-letter file writes
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	return &ResilientPublisher{
		inner:  inner,
		config: config,
	}
}

// Publish attempts to publish the event, retrying in the background on
// failure.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	slog.Warn("Failed to publish event, initiating async retry",
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event)

	return nil
}

// Wait blocks until all in-flight retry loops finish. Used on shutdown.
func (p *ResilientPublisher) Wait() {
	p.wg.Wait()
}

func (p *ResilientPublisher) retryLoop(event Event) {
	defer p.wg.Done()

	// Detached context: the originating request may already be gone.
	ctx := context.Background()

	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(p.config.RetryDelay * time.Duration(i)) // Linear backoff

		err := p.inner.Publish(ctx, event)
		if err == nil {
			slog.Info("Successfully published event after retry",
				"event_type", event.Type,
				"attempt", i)
			return
		}

		slog.Warn("Retry failed",
			"event_type", event.Type,
			"attempt", i,
			"error", err)
	}

	p.writeToDeadLetter(event)
}

type deadLetterEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     Event     `json:"event"`
}

func (p *ResilientPublisher) writeToDeadLetter(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.config.DeadLetterPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("Failed to open dead letter file", "error", err, "path", p.config.DeadLetterPath)
		return
	}
	defer f.Close()

	entry := deadLetterEntry{
		Timestamp: time.Now(),
		Event:     event,
	}

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		slog.Error("Failed to write to dead letter file", "error", err)
		return
	}

	slog.Error("Event sent to dead letter queue",
		"event_type", event.Type,
		"path", p.config.DeadLetterPath)
}
