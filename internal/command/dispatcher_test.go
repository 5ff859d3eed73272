package command

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"bank-ledger/internal/service"
)

func newDispatcher(t *testing.T, rates ...models.ExchangeRate) (*Dispatcher, *service.Runtime) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := []models.UserInput{
		{FirstName: "Ana", LastName: "Pop", Email: "ana@bank.ro"},
		{FirstName: "Dan", LastName: "Ionescu", Email: "dan@bank.ro"},
	}
	rt := service.NewRuntime(users, rates, nil, log)
	return NewDispatcher(rt, log), rt
}

func run(t *testing.T, d *Dispatcher, cmds ...models.CommandInput) []models.OutputEntry {
	t.Helper()
	out, err := d.Run(context.Background(), cmds)
	require.NoError(t, err)
	return out
}

func accountOf(t *testing.T, rt *service.Runtime, email string, i int) *models.Account {
	t.Helper()
	u, err := rt.Directory.User(email)
	require.NoError(t, err)
	require.Greater(t, len(u.Accounts), i)
	return u.Accounts[i]
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestDispatcher_SplitPaymentFlow(t *testing.T) {
	d, rt := newDispatcher(t, models.ExchangeRate{From: "EUR", To: "RON", Rate: 5})

	run(t, d,
		models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic, Timestamp: 1},
		models.CommandInput{Command: "addAccount", Email: "dan@bank.ro", Currency: "EUR", AccountType: models.AccountClassic, Timestamp: 2},
	)
	ana := accountOf(t, rt, "ana@bank.ro", 0)
	dan := accountOf(t, rt, "dan@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "addFunds", Account: ana.IBAN, Amount: 500, Timestamp: 3},
		models.CommandInput{Command: "addFunds", Account: dan.IBAN, Amount: 100, Timestamp: 4},
		models.CommandInput{Command: "splitPayment", Accounts: []string{ana.IBAN, dan.IBAN}, Amount: 100,
			Currency: "RON", SplitPaymentType: models.SplitEqual, Timestamp: 5},
		models.CommandInput{Command: "acceptSplitPayment", Email: "ana@bank.ro", SplitPaymentType: models.SplitEqual, Timestamp: 6},
		models.CommandInput{Command: "acceptSplitPayment", Email: "dan@bank.ro", SplitPaymentType: models.SplitEqual, Timestamp: 7},
		models.CommandInput{Command: "printTransactions", Email: "dan@bank.ro", Timestamp: 8},
	)

	assert.InDelta(t, 450.0, ana.Balance, 1e-9)
	assert.InDelta(t, 90.0, dan.Balance, 1e-9)

	require.Len(t, out, 1)
	assert.Equal(t, "printTransactions", out[0].Command)
	assert.JSONEq(t, `[
		{"timestamp": 2, "description": "New account created"},
		{"timestamp": 5, "description": "Split payment of 100.00 RON", "amount": 50, "currency": "RON",
		 "involvedAccounts": ["`+ana.IBAN+`", "`+dan.IBAN+`"], "splitPaymentType": "equal"}
	]`, toJSON(t, out[0].Output))
}

func TestDispatcher_RejectRecordsFailureForEveryone(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d,
		models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic},
		models.CommandInput{Command: "addAccount", Email: "dan@bank.ro", Currency: "RON", AccountType: models.AccountClassic},
	)
	ana := accountOf(t, rt, "ana@bank.ro", 0)
	dan := accountOf(t, rt, "dan@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "splitPayment", Accounts: []string{ana.IBAN, dan.IBAN}, Amount: 10,
			Currency: "RON", SplitPaymentType: models.SplitCustom, AmountForUsers: []float64{3, 7}, Timestamp: 5},
		models.CommandInput{Command: "rejectSplitPayment", Email: "dan@bank.ro", SplitPaymentType: models.SplitCustom, Timestamp: 6},
		models.CommandInput{Command: "rejectSplitPayment", Email: "dan@bank.ro", SplitPaymentType: models.SplitCustom, Timestamp: 7},
	)
	assert.Empty(t, out)

	for _, email := range []string{"ana@bank.ro", "dan@bank.ro"} {
		txs, err := rt.Reports.Transactions(email)
		require.NoError(t, err)
		require.Len(t, txs, 2, email)
		assert.Equal(t, models.ErrTextSplitRejected, txs[1].Error)
		assert.Equal(t, []float64{3, 7}, txs[1].AmountForUsers)
	}
}

func TestDispatcher_ResponseFromUnknownUser(t *testing.T) {
	d, _ := newDispatcher(t)

	out := run(t, d, models.CommandInput{Command: "acceptSplitPayment", Email: "ghost@bank.ro", Timestamp: 9})

	require.Len(t, out, 1)
	assert.JSONEq(t,
		`{"command":"acceptSplitPayment","output":{"description":"User not found","timestamp":9},"timestamp":9}`,
		toJSON(t, out[0]))
}

func TestDispatcher_UnmatchedResponseIsSilent(t *testing.T) {
	d, _ := newDispatcher(t)

	out := run(t, d, models.CommandInput{Command: "rejectSplitPayment", Email: "ana@bank.ro", Timestamp: 9})

	assert.Empty(t, out)
}

func TestDispatcher_SplitCreationErrors(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d, models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic})
	ana := accountOf(t, rt, "ana@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "splitPayment", Accounts: []string{ana.IBAN, "RO00NOPE"}, Amount: 10, Currency: "RON", Timestamp: 2},
		models.CommandInput{Command: "splitPayment", Accounts: []string{ana.IBAN}, Amount: 10, Currency: "RON",
			SplitPaymentType: models.SplitCustom, AmountForUsers: []float64{4, 6}, Timestamp: 3},
	)

	require.Len(t, out, 2)
	assert.Equal(t, models.CommandError{Description: "Account not found", Timestamp: 2}, out[0].Output)
	assert.Equal(t, models.CommandError{Description: "Amounts do not match the involved accounts", Timestamp: 3}, out[1].Output)
	assert.Empty(t, rt.Registry.Pending())
}

func TestDispatcher_SettlementConversionFailure(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d,
		models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic},
		models.CommandInput{Command: "addAccount", Email: "dan@bank.ro", Currency: "EUR", AccountType: models.AccountClassic},
	)
	ana := accountOf(t, rt, "ana@bank.ro", 0)
	dan := accountOf(t, rt, "dan@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "splitPayment", Accounts: []string{ana.IBAN, dan.IBAN}, Amount: 10, Currency: "RON", Timestamp: 2},
		models.CommandInput{Command: "acceptSplitPayment", Email: "ana@bank.ro", Timestamp: 3},
		models.CommandInput{Command: "acceptSplitPayment", Email: "dan@bank.ro", Timestamp: 4},
	)

	require.Len(t, out, 1)
	assert.Equal(t, "acceptSplitPayment", out[0].Command)
	assert.Equal(t, "Conversion between these currencies is not supported", out[0].Output.(models.CommandError).Description)
	assert.Empty(t, rt.Registry.Pending())
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	out := run(t, d, models.CommandInput{Command: "buyCrypto", Timestamp: 1})

	require.Len(t, out, 1)
	assert.Equal(t, models.CommandError{Description: "Unknown command", Timestamp: 1}, out[0].Output)
}

func TestDispatcher_CardCommands(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d,
		models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic, Timestamp: 1},
	)
	acc := accountOf(t, rt, "ana@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "addFunds", Account: acc.IBAN, Amount: 20, Timestamp: 2},
		models.CommandInput{Command: "createCard", Email: "ana@bank.ro", Account: acc.IBAN, Timestamp: 3},
	)
	assert.Empty(t, out)
	require.Len(t, acc.Cards, 1)
	card := acc.Cards[0].Number

	out = run(t, d,
		models.CommandInput{Command: "payOnline", Email: "ana@bank.ro", CardNumber: card, Amount: 50, Currency: "RON", Commerciant: "Shop", Timestamp: 4},
		models.CommandInput{Command: "setMinimumBalance", Account: acc.IBAN, Amount: 20, Timestamp: 5},
		models.CommandInput{Command: "checkCardStatus", CardNumber: card, Timestamp: 6},
		models.CommandInput{Command: "payOnline", Email: "ana@bank.ro", CardNumber: card, Amount: 1, Currency: "RON", Commerciant: "Shop", Timestamp: 7},
		models.CommandInput{Command: "checkCardStatus", CardNumber: "4999999999999999", Timestamp: 8},
	)

	require.Len(t, out, 1)
	assert.Equal(t, models.CommandError{Description: "Card not found", Timestamp: 8}, out[0].Output)

	txs, err := rt.Reports.Transactions("ana@bank.ro")
	require.NoError(t, err)
	var desc []string
	for _, tx := range txs {
		desc = append(desc, tx.Description)
	}
	assert.Equal(t, []string{
		models.DescAccountCreated,
		models.DescCardCreated,
		models.DescInsufficientFunds,
		models.DescMinimumReached,
		models.DescCardFrozen,
	}, desc)
}

func TestDispatcher_DeleteAccount(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d, models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountClassic})
	acc := accountOf(t, rt, "ana@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "addFunds", Account: acc.IBAN, Amount: 1, Timestamp: 2},
		models.CommandInput{Command: "deleteAccount", Email: "ana@bank.ro", Account: acc.IBAN, Timestamp: 3},
	)
	require.Len(t, out, 1)
	assert.Equal(t, DeleteResult{Error: "Account couldn't be deleted - there are funds remaining", Timestamp: 3}, out[0].Output)

	acc.Balance = 0
	out = run(t, d, models.CommandInput{Command: "deleteAccount", Email: "ana@bank.ro", Account: acc.IBAN, Timestamp: 4})
	require.Len(t, out, 1)
	assert.Equal(t, DeleteResult{Success: "Account deleted", Timestamp: 4}, out[0].Output)
}

func TestDispatcher_Reports(t *testing.T) {
	d, rt := newDispatcher(t)
	run(t, d,
		models.CommandInput{Command: "addAccount", Email: "ana@bank.ro", Currency: "RON", AccountType: models.AccountSavings, InterestRate: 0.1, Timestamp: 1},
	)
	acc := accountOf(t, rt, "ana@bank.ro", 0)

	out := run(t, d,
		models.CommandInput{Command: "addFunds", Account: acc.IBAN, Amount: 100, Timestamp: 2},
		models.CommandInput{Command: "addInterest", Account: acc.IBAN, Timestamp: 3},
		models.CommandInput{Command: "report", Account: acc.IBAN, StartTimestamp: 0, EndTimestamp: 10, Timestamp: 4},
		models.CommandInput{Command: "spendingsReport", Account: acc.IBAN, StartTimestamp: 0, EndTimestamp: 10, Timestamp: 5},
		models.CommandInput{Command: "report", Account: "RO00NOPE", Timestamp: 6},
	)

	require.Len(t, out, 3)
	assert.JSONEq(t, `{"IBAN":"`+acc.IBAN+`","balance":110,"currency":"RON","transactions":[
		{"timestamp":1,"description":"New account created"},
		{"timestamp":3,"description":"Interest rate income","amount":10,"currency":"RON"}
	]}`, toJSON(t, out[0].Output))
	assert.Equal(t, "This kind of report is not supported for a saving account", out[1].Output.(models.CommandError).Description)
	assert.Equal(t, "Account not found", out[2].Output.(models.CommandError).Description)
}

func TestDispatcher_PrintUsers(t *testing.T) {
	d, _ := newDispatcher(t)

	out := run(t, d, models.CommandInput{Command: "printUsers", Timestamp: 1})

	require.Len(t, out, 1)
	assert.JSONEq(t, `[
		{"firstName":"Ana","lastName":"Pop","email":"ana@bank.ro","accounts":[]},
		{"firstName":"Dan","lastName":"Ionescu","email":"dan@bank.ro","accounts":[]}
	]`, toJSON(t, out[0].Output))
}

func TestDispatcher_Register(t *testing.T) {
	d, _ := newDispatcher(t)
	d.Register("ping", func(_ *service.Runtime, in models.CommandInput) (any, error) {
		return "pong", nil
	})
	d.Register("fail", func(_ *service.Runtime, in models.CommandInput) (any, error) {
		return nil, errors.New("boom")
	})

	out := run(t, d,
		models.CommandInput{Command: "ping", Timestamp: 1},
		models.CommandInput{Command: "fail", Timestamp: 2},
	)

	require.Len(t, out, 2)
	assert.Equal(t, "pong", out[0].Output)
	assert.Equal(t, models.CommandError{Description: "Internal error", Timestamp: 2}, out[1].Output)
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	d, _ := newDispatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := d.Run(ctx, []models.CommandInput{{Command: "printUsers"}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "User not found", Describe(custom_err.ErrUserNotFound))
	assert.Equal(t, "This is not a savings account", Describe(custom_err.ErrNotSavingsAccount))
	assert.Equal(t, "Invalid amount", Describe(custom_err.ErrInvalidAmount))
}
