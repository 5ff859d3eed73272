package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
)

func lastEntry(t *testing.T, rt *Runtime, email string) models.Transaction {
	t.Helper()
	entries := rt.Ledger.Entries(email)
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func TestBankService_AddAccount(t *testing.T) {
	rt, _ := newTestRuntime(t)

	acc, err := rt.Bank.AddAccount("ana@bank.ro", "EUR", models.AccountSavings, 0.05, 1)
	require.NoError(t, err)

	assert.Len(t, acc.IBAN, 24)
	assert.Equal(t, "RO", acc.IBAN[:2])
	assert.Equal(t, 0.05, acc.InterestRate)
	assert.Equal(t, "ana@bank.ro", acc.OwnerEmail)
	assert.Equal(t, models.CategoryAccountCreated, lastEntry(t, rt, "ana@bank.ro").Category)

	other, err := rt.Bank.AddAccount("ana@bank.ro", "EUR", models.AccountClassic, 0.05, 2)
	require.NoError(t, err)
	assert.NotEqual(t, acc.IBAN, other.IBAN)
	assert.Zero(t, other.InterestRate)

	_, err = rt.Bank.AddAccount("ghost@bank.ro", "EUR", models.AccountClassic, 0, 1)
	assert.ErrorIs(t, err, custom_err.ErrUserNotFound)

	_, err = rt.Bank.AddAccount("ana@bank.ro", "eur", models.AccountClassic, 0, 1)
	assert.ErrorIs(t, err, custom_err.ErrInvalidCurrency)

	_, err = rt.Bank.AddAccount("ana@bank.ro", "EUR", "business", 0, 1)
	assert.ErrorIs(t, err, custom_err.ErrInvalidInput)
}

func TestBankService_IBANsAreDeterministicPerRun(t *testing.T) {
	first, _ := newTestRuntime(t)
	second, _ := newTestRuntime(t)

	a := openFunded(t, first, "ana@bank.ro", "EUR", 0)
	b := openFunded(t, second, "ana@bank.ro", "EUR", 0)

	assert.Equal(t, a.IBAN, b.IBAN)
}

func TestBankService_AddFunds(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "EUR", 0)

	require.NoError(t, rt.Bank.AddFunds(acc.IBAN, 25.5, 2))
	assert.InDelta(t, 25.5, acc.Balance, 1e-9)
	assert.Equal(t, models.CategoryFundsAdded, lastEntry(t, rt, "ana@bank.ro").Category)

	assert.ErrorIs(t, rt.Bank.AddFunds(acc.IBAN, 0, 2), custom_err.ErrInvalidAmount)
	assert.ErrorIs(t, rt.Bank.AddFunds("RO00NOPE", 1, 2), custom_err.ErrAccountNotFound)
}

func TestBankService_DeleteAccount(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "EUR", 10)
	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, false, 2)
	require.NoError(t, err)

	err = rt.Bank.DeleteAccount("ana@bank.ro", acc.IBAN, 3)
	assert.ErrorIs(t, err, custom_err.ErrAccountNotEmpty)
	assert.Equal(t, noteAccountNotEmpty, lastEntry(t, rt, "ana@bank.ro").Description)

	acc.Balance = 0
	require.NoError(t, rt.Bank.DeleteAccount("ana@bank.ro", acc.IBAN, 4))

	_, err = rt.Directory.Account(acc.IBAN)
	assert.ErrorIs(t, err, custom_err.ErrAccountNotFound)
	_, err = rt.Directory.Card(card.Number)
	assert.ErrorIs(t, err, custom_err.ErrCardNotFound)

	user, err := rt.Directory.User("ana@bank.ro")
	require.NoError(t, err)
	assert.Empty(t, user.Accounts)
}

func TestBankService_DeleteAccount_NotOwner(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "EUR", 0)

	err := rt.Bank.DeleteAccount("dan@bank.ro", acc.IBAN, 2)

	assert.ErrorIs(t, err, custom_err.ErrAccountNotFound)
	_, err = rt.Directory.Account(acc.IBAN)
	assert.NoError(t, err)
}

func TestBankService_CardLifecycle(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "EUR", 10)

	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, false, 2)
	require.NoError(t, err)
	assert.Len(t, card.Number, 16)
	assert.Equal(t, models.CardActive, card.Status)

	_, err = rt.Bank.CreateCard("dan@bank.ro", acc.IBAN, false, 2)
	assert.ErrorIs(t, err, custom_err.ErrAccountNotFound)

	assert.ErrorIs(t, rt.Bank.DeleteCard("dan@bank.ro", card.Number, 3), custom_err.ErrCardNotFound)

	require.NoError(t, rt.Bank.DeleteCard("", card.Number, 3))
	assert.Empty(t, acc.Cards)
	last := lastEntry(t, rt, "ana@bank.ro")
	assert.Equal(t, models.CategoryCardDestroyed, last.Category)
	assert.Equal(t, card.Number, last.Card)

	assert.ErrorIs(t, rt.Bank.DeleteCard("", card.Number, 4), custom_err.ErrCardNotFound)
}

func TestBankService_CheckCardStatus_FreezesAtMinimum(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "EUR", 50)
	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, false, 2)
	require.NoError(t, err)

	require.NoError(t, rt.Bank.CheckCardStatus(card.Number, 3))
	assert.Equal(t, models.CardActive, card.Status)

	require.NoError(t, rt.Bank.SetMinimumBalance(acc.IBAN, 50))
	require.NoError(t, rt.Bank.CheckCardStatus(card.Number, 4))
	assert.Equal(t, models.CardFrozen, card.Status)
	assert.Equal(t, models.DescMinimumReached, lastEntry(t, rt, "ana@bank.ro").Description)

	n := rt.Ledger.Len("ana@bank.ro")
	require.NoError(t, rt.Bank.CheckCardStatus(card.Number, 5))
	assert.Equal(t, n, rt.Ledger.Len("ana@bank.ro"))

	assert.ErrorIs(t, rt.Bank.CheckCardStatus("4999", 5), custom_err.ErrCardNotFound)
	assert.ErrorIs(t, rt.Bank.SetMinimumBalance(acc.IBAN, -1), custom_err.ErrInvalidAmount)
}

func TestBankService_PayOnline(t *testing.T) {
	rt, _ := newTestRuntime(t, models.ExchangeRate{From: "EUR", To: "RON", Rate: 5})
	acc := openFunded(t, rt, "ana@bank.ro", "RON", 100)
	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, false, 2)
	require.NoError(t, err)

	require.NoError(t, rt.Bank.PayOnline("ana@bank.ro", card.Number, 10, "EUR", "Shop", 3))

	assert.InDelta(t, 50.0, acc.Balance, 1e-9)
	last := lastEntry(t, rt, "ana@bank.ro")
	assert.Equal(t, models.CategoryCardPayment, last.Category)
	assert.InDelta(t, 50.0, last.Amount, 1e-9)
	assert.Equal(t, models.Currency("RON"), last.Currency)
	assert.Equal(t, "Shop", last.Commerciant)

	err = rt.Bank.PayOnline("ana@bank.ro", card.Number, 11, "EUR", "Shop", 4)
	assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
	assert.InDelta(t, 50.0, acc.Balance, 1e-9)
	assert.Equal(t, models.CategoryInsufficientFunds, lastEntry(t, rt, "ana@bank.ro").Category)

	err = rt.Bank.PayOnline("ana@bank.ro", card.Number, 1, "JPY", "Shop", 5)
	assert.ErrorIs(t, err, custom_err.ErrConversionUnsupported)

	err = rt.Bank.PayOnline("dan@bank.ro", card.Number, 1, "RON", "Shop", 5)
	assert.ErrorIs(t, err, custom_err.ErrCardNotFound)

	err = rt.Bank.PayOnline("ghost@bank.ro", card.Number, 1, "RON", "Shop", 5)
	assert.ErrorIs(t, err, custom_err.ErrUserNotFound)
}

func TestBankService_PayOnline_FrozenCard(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "RON", 100)
	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, false, 2)
	require.NoError(t, err)
	card.Status = models.CardFrozen

	err = rt.Bank.PayOnline("ana@bank.ro", card.Number, 1, "RON", "Shop", 3)

	assert.ErrorIs(t, err, custom_err.ErrCardFrozen)
	assert.InDelta(t, 100.0, acc.Balance, 1e-9)
	assert.Equal(t, models.DescCardFrozen, lastEntry(t, rt, "ana@bank.ro").Description)
}

func TestBankService_PayOnline_OneTimeCardIsReplaced(t *testing.T) {
	rt, _ := newTestRuntime(t)
	acc := openFunded(t, rt, "ana@bank.ro", "RON", 100)
	card, err := rt.Bank.CreateCard("ana@bank.ro", acc.IBAN, true, 2)
	require.NoError(t, err)

	require.NoError(t, rt.Bank.PayOnline("ana@bank.ro", card.Number, 10, "RON", "Shop", 3))

	_, err = rt.Directory.Card(card.Number)
	assert.ErrorIs(t, err, custom_err.ErrCardNotFound)
	require.Len(t, acc.Cards, 1)
	assert.NotEqual(t, card.Number, acc.Cards[0].Number)
	assert.True(t, acc.Cards[0].OneTime)

	entries := rt.Ledger.Entries("ana@bank.ro")
	tail := entries[len(entries)-3:]
	assert.Equal(t, models.CategoryCardPayment, tail[0].Category)
	assert.Equal(t, models.CategoryCardDestroyed, tail[1].Category)
	assert.Equal(t, models.CategoryCardCreated, tail[2].Category)
}

func TestBankService_SendMoney(t *testing.T) {
	rt, _ := newTestRuntime(t, models.ExchangeRate{From: "EUR", To: "RON", Rate: 5})
	src := openFunded(t, rt, "ana@bank.ro", "EUR", 100)
	dst := openFunded(t, rt, "dan@bank.ro", "RON", 0)

	require.NoError(t, rt.Bank.SendMoney("ana@bank.ro", src.IBAN, dst.IBAN, 20, "rent", 3))

	assert.InDelta(t, 80.0, src.Balance, 1e-9)
	assert.InDelta(t, 100.0, dst.Balance, 1e-9)

	sent := lastEntry(t, rt, "ana@bank.ro")
	assert.Equal(t, models.TransferSent, sent.TransferType)
	assert.Equal(t, "rent", sent.Description)
	assert.InDelta(t, 20.0, sent.Amount, 1e-9)
	assert.Equal(t, models.Currency("EUR"), sent.Currency)

	received := lastEntry(t, rt, "dan@bank.ro")
	assert.Equal(t, models.TransferReceived, received.TransferType)
	assert.InDelta(t, 100.0, received.Amount, 1e-9)
	assert.Equal(t, models.Currency("RON"), received.Currency)
	assert.Equal(t, src.IBAN, received.SenderIBAN)
	assert.Equal(t, dst.IBAN, received.ReceiverIBAN)
}

func TestBankService_SendMoney_Insufficient(t *testing.T) {
	rt, _ := newTestRuntime(t)
	src := openFunded(t, rt, "ana@bank.ro", "RON", 10)
	dst := openFunded(t, rt, "dan@bank.ro", "RON", 0)

	err := rt.Bank.SendMoney("ana@bank.ro", src.IBAN, dst.IBAN, 20, "rent", 3)

	assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
	assert.InDelta(t, 10.0, src.Balance, 1e-9)
	assert.Zero(t, dst.Balance)
	assert.Equal(t, models.CategoryInsufficientFunds, lastEntry(t, rt, "ana@bank.ro").Category)
	assert.Equal(t, models.CategoryAccountCreated, lastEntry(t, rt, "dan@bank.ro").Category)
}

func TestBankService_SendMoney_ToAlias(t *testing.T) {
	rt, _ := newTestRuntime(t)
	primary := openFunded(t, rt, "ana@bank.ro", "RON", 50)
	spare := openFunded(t, rt, "ana@bank.ro", "RON", 0)

	require.NoError(t, rt.Bank.SetAlias("ana@bank.ro", "spare", spare.IBAN))
	require.NoError(t, rt.Bank.SendMoney("ana@bank.ro", primary.IBAN, "spare", 15, "move", 2))

	assert.InDelta(t, 35.0, primary.Balance, 1e-9)
	assert.InDelta(t, 15.0, spare.Balance, 1e-9)

	assert.ErrorIs(t, rt.Bank.SendMoney("ana@bank.ro", primary.IBAN, primary.IBAN, 1, "self", 3), custom_err.ErrInvalidInput)
	assert.ErrorIs(t, rt.Bank.SendMoney("ana@bank.ro", primary.IBAN, "nobody", 1, "x", 3), custom_err.ErrAccountNotFound)
	assert.ErrorIs(t, rt.Bank.SendMoney("dan@bank.ro", primary.IBAN, spare.IBAN, 1, "x", 3), custom_err.ErrAccountNotFound)
	assert.ErrorIs(t, rt.Bank.SetAlias("dan@bank.ro", "mine", spare.IBAN), custom_err.ErrAccountNotFound)
}

func TestBankService_Interest(t *testing.T) {
	rt, _ := newTestRuntime(t)
	savings, err := rt.Bank.AddAccount("ana@bank.ro", "RON", models.AccountSavings, 0.1, 1)
	require.NoError(t, err)
	require.NoError(t, rt.Bank.AddFunds(savings.IBAN, 200, 1))
	classic := openFunded(t, rt, "ana@bank.ro", "RON", 200)

	require.NoError(t, rt.Bank.AddInterest(savings.IBAN, 2))
	assert.InDelta(t, 220.0, savings.Balance, 1e-9)
	income := lastEntry(t, rt, "ana@bank.ro")
	assert.Equal(t, models.CategoryInterestAdded, income.Category)
	assert.InDelta(t, 20.0, income.Amount, 1e-9)

	require.NoError(t, rt.Bank.ChangeInterestRate(savings.IBAN, 0.5, 3))
	assert.Equal(t, 0.5, savings.InterestRate)
	assert.Equal(t, "Interest rate of the account changed to 0.5", lastEntry(t, rt, "ana@bank.ro").Description)

	assert.ErrorIs(t, rt.Bank.AddInterest(classic.IBAN, 4), custom_err.ErrNotSavingsAccount)
	assert.ErrorIs(t, rt.Bank.ChangeInterestRate(classic.IBAN, 0.2, 4), custom_err.ErrNotSavingsAccount)
	assert.ErrorIs(t, rt.Bank.AddInterest("RO00NOPE", 4), custom_err.ErrAccountNotFound)
}
