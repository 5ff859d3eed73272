package service

import (
	"bank-ledger/internal/models"
	"log/slog"
)

// Runtime is the state of one simulation run. Nothing in it is shared
// between runs, and it is only touched from the command loop.
type Runtime struct {
	Directory *Directory
	Ledger    *Ledger
	Exchange  *ExchangeService
	Tracker   *ResponseTracker
	Splits    *SplitEngine
	Registry  *SplitRegistry
	Bank      *BankService
	Reports   *ReportService
}

// NewRuntime wires a fresh run. events may be nil.
func NewRuntime(users []models.UserInput, rates []models.ExchangeRate, events EventSink, log *slog.Logger) *Runtime {
	dir := NewDirectory(users)
	ledger := NewLedger()
	exchange := NewExchangeService(rates, log)
	tracker := NewResponseTracker()
	engine := NewSplitEngine(dir, exchange, ledger, tracker, events, log)
	registry := NewSplitRegistry(engine, dir, log)

	return &Runtime{
		Directory: dir,
		Ledger:    ledger,
		Exchange:  exchange,
		Tracker:   tracker,
		Splits:    engine,
		Registry:  registry,
		Bank:      NewBankService(dir, ledger, exchange, log),
		Reports:   NewReportService(dir, ledger, registry),
	}
}
