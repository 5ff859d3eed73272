package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"bank-ledger/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) ListRatesTx(ctx context.Context, tx pgx.Tx) ([]models.ExchangeRate, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) UpsertRateTx(ctx context.Context, tx pgx.Tx, rate models.ExchangeRate) error {
	args := m.Called(ctx, tx, rate)
	return args.Error(0)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockTxManager) WithReadOnlyTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendSplitPaymentEvent(ctx context.Context, event models.SplitPaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingSink collects published events in order.
type recordingSink struct {
	mu     sync.Mutex
	events []models.SplitPaymentEvent
}

func (s *recordingSink) Publish(event models.SplitPaymentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []models.SplitPaymentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SplitPaymentEvent{}, s.events...)
}
