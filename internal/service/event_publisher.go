package service

import (
	"bank-ledger/internal/kafka"
	"bank-ledger/internal/models"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventPublisher hands split payment events to the producer from a small
// worker pool so that the command loop never waits on the broker.
type EventPublisher struct {
	producer kafka.Producer
	timeout  time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan models.SplitPaymentEvent
	wg     sync.WaitGroup
}

func NewEventPublisher(producer kafka.Producer, workers, buffer int, timeout time.Duration, log *slog.Logger) *EventPublisher {
	p := &EventPublisher{
		producer: producer,
		timeout:  timeout,
		log:      log,
		queue:    make(chan models.SplitPaymentEvent, buffer),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *EventPublisher) worker(id int) {
	defer p.wg.Done()
	p.log.Debug("kafka worker started", slog.Int("worker_id", id))

	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.producer.SendSplitPaymentEvent(ctx, event); err != nil {
			p.log.Error("kafka send failed",
				slog.Int("worker_id", id),
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()))
		} else {
			p.log.Info("событие split payment отправлено",
				slog.Int("worker_id", id),
				slog.String("event_id", event.EventID),
				slog.String("state", event.State))
		}
		cancel()
	}

	p.log.Debug("kafka worker stopping", slog.Int("worker_id", id))
}

// Publish enqueues event without blocking. The event is dropped when the
// queue is full or the publisher has been shut down.
func (p *EventPublisher) Publish(event models.SplitPaymentEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.log.Warn("publisher остановлен, событие отброшено", slog.String("event_id", event.EventID))
		return
	}

	select {
	case p.queue <- event:
	default:
		p.log.Error("очередь событий переполнена, событие отброшено",
			slog.String("event_id", event.EventID),
			slog.Uint64("proposal_id", event.ProposalID))
	}
}

// Shutdown stops accepting events and waits for queued ones to be sent.
func (p *EventPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("all kafka workers stopped")
		return nil
	case <-ctx.Done():
		p.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}
