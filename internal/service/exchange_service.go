package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"fmt"
	"log/slog"
)

// Converter converts an amount between two currency codes.
type Converter interface {
	Convert(amount float64, from, to models.Currency) (float64, error)
}

// ExchangeService resolves conversions over the run's fixed rate snapshot.
// Every rate is an undirected edge of a currency graph: walking it from
// From to To multiplies by Rate, walking it backwards divides by Rate.
type ExchangeService struct {
	rates []models.ExchangeRate
	log   *slog.Logger
}

func NewExchangeService(rates []models.ExchangeRate, log *slog.Logger) *ExchangeService {
	kept := make([]models.ExchangeRate, 0, len(rates))
	for _, r := range rates {
		if r.Rate <= 0 || !r.From.IsValid() || !r.To.IsValid() {
			log.Warn("курс пропущен",
				slog.String("from", string(r.From)),
				slog.String("to", string(r.To)),
				slog.Float64("rate", r.Rate))
			continue
		}
		kept = append(kept, r)
	}

	return &ExchangeService{
		rates: kept,
		log:   log,
	}
}

// Rates returns a copy of the loaded snapshot.
func (s *ExchangeService) Rates() []models.ExchangeRate {
	out := make([]models.ExchangeRate, len(s.rates))
	copy(out, s.rates)
	return out
}

type hop struct {
	currency models.Currency
	factor   float64
}

// Convert runs a breadth-first search from `from` and returns as soon as `to`
// is first discovered, so the path used has the fewest hops. It is not the
// best-rate path, and a round trip is only exact when a direct edge exists.
func (s *ExchangeService) Convert(amount float64, from, to models.Currency) (float64, error) {
	const op = "service.Convert"

	if from == to {
		return amount, nil
	}

	visited := map[models.Currency]bool{from: true}
	queue := []hop{{currency: from, factor: 1.0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, r := range s.rates {
			var next hop
			switch cur.currency {
			case r.From:
				next = hop{currency: r.To, factor: cur.factor * r.Rate}
			case r.To:
				next = hop{currency: r.From, factor: cur.factor / r.Rate}
			default:
				continue
			}
			if visited[next.currency] {
				continue
			}
			if next.currency == to {
				s.log.Debug("курс найден",
					slog.String("from", string(from)),
					slog.String("to", string(to)),
					slog.Float64("factor", next.factor))
				return amount * next.factor, nil
			}
			visited[next.currency] = true
			queue = append(queue, next)
		}
	}

	return 0, fmt.Errorf("%s: %s -> %s: %w", op, from, to, custom_err.ErrConversionUnsupported)
}
