package service

import (
	"bank-ledger/internal/models"
	"bank-ledger/internal/storage/postgres"
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// RateLoader keeps the exchange_rates table and produces the fixed rate
// snapshot a run converts with.
type RateLoader struct {
	repo      postgres.RateRepository
	txManager TxManager
	log       *slog.Logger
}

func NewRateLoader(repo postgres.RateRepository, txManager TxManager, log *slog.Logger) *RateLoader {
	return &RateLoader{
		repo:      repo,
		txManager: txManager,
		log:       log,
	}
}

// Seed upserts rates in a single transaction.
func (l *RateLoader) Seed(ctx context.Context, rates []models.ExchangeRate) error {
	const op = "service.Seed"

	err := l.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		for _, rate := range rates {
			if !rate.From.IsValid() || !rate.To.IsValid() || rate.Rate <= 0 {
				l.log.Warn("курс пропущен",
					slog.String("from", string(rate.From)),
					slog.String("to", string(rate.To)),
					slog.Float64("rate", rate.Rate))
				continue
			}
			if err := l.repo.UpsertRateTx(ctx, tx, rate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("курсы сохранены", slog.Int("count", len(rates)))
	return nil
}

// Snapshot reads every stored rate from one consistent point in time.
func (l *RateLoader) Snapshot(ctx context.Context) ([]models.ExchangeRate, error) {
	const op = "service.Snapshot"

	var rates []models.ExchangeRate
	err := l.txManager.WithReadOnlyTx(ctx, func(tx pgx.Tx) error {
		var err error
		rates, err = l.repo.ListRatesTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("снимок курсов загружен", slog.Int("count", len(rates)))
	return rates, nil
}
