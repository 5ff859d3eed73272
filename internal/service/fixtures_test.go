package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bank-ledger/internal/models"
)

var testUsers = []models.UserInput{
	{FirstName: "Ana", LastName: "Pop", Email: "ana@bank.ro"},
	{FirstName: "Dan", LastName: "Ionescu", Email: "dan@bank.ro"},
	{FirstName: "Ema", LastName: "Stan", Email: "ema@bank.ro"},
}

func newTestRuntime(t *testing.T, rates ...models.ExchangeRate) (*Runtime, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	return NewRuntime(testUsers, rates, sink, testLogger()), sink
}

func openFunded(t *testing.T, rt *Runtime, email string, currency models.Currency, amount float64) *models.Account {
	t.Helper()
	acc, err := rt.Bank.AddAccount(email, currency, models.AccountClassic, 0, 1)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, rt.Bank.AddFunds(acc.IBAN, amount, 1))
	}
	return acc
}

func splitEntries(rt *Runtime, email string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range rt.Ledger.Entries(email) {
		if tx.Category == models.CategorySplitPayment {
			out = append(out, tx)
		}
	}
	return out
}
