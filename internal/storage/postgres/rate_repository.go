package postgres

import (
	"bank-ledger/internal/models"
	"bank-ledger/internal/storage"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type RateRepository interface {
	ListRatesTx(ctx context.Context, tx pgx.Tx) ([]models.ExchangeRate, error)
	UpsertRateTx(ctx context.Context, tx pgx.Tx, rate models.ExchangeRate) error
}

type PgRateRepository struct{}

func NewRateRepository() RateRepository {
	return &PgRateRepository{}
}

func (r *PgRateRepository) ListRatesTx(ctx context.Context, tx pgx.Tx) ([]models.ExchangeRate, error) {
	const op = "storage.ListRatesTx"

	rows, err := tx.Query(ctx, storage.ListExchangeRatesQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var from, to string
		var rate float64
		if err := rows.Scan(&from, &to, &rate); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		rates = append(rates, models.ExchangeRate{
			From: models.Currency(from),
			To:   models.Currency(to),
			Rate: rate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return rates, nil
}

func (r *PgRateRepository) UpsertRateTx(ctx context.Context, tx pgx.Tx, rate models.ExchangeRate) error {
	const op = "storage.UpsertRateTx"

	if _, err := tx.Exec(ctx, storage.UpsertExchangeRateQuery, string(rate.From), string(rate.To), rate.Rate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
