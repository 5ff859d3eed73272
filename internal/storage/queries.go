package storage

const (
	// Снимок курсов для одного прогона
	ListExchangeRatesQuery = `
		SELECT from_currency, to_currency, rate
		FROM exchange_rates
		ORDER BY from_currency, to_currency
	`

	UpsertExchangeRateQuery = `
		INSERT INTO exchange_rates (from_currency, to_currency, rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = now()
	`
)
