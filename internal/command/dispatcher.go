// Package command replays the input command stream against a Runtime.
package command

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"bank-ledger/internal/render"
	"bank-ledger/internal/service"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Handler executes one command. A non-nil output becomes an output entry.
type Handler func(rt *service.Runtime, in models.CommandInput) (any, error)

type Dispatcher struct {
	rt       *service.Runtime
	handlers map[string]Handler
	log      *slog.Logger
}

func NewDispatcher(rt *service.Runtime, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		rt:       rt,
		handlers: defaultHandlers(),
		log:      log,
	}
}

// Register adds or replaces the handler for name.
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[name] = h
}

// Run executes cmds strictly in order and collects their output. It stops
// early only when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, cmds []models.CommandInput) ([]models.OutputEntry, error) {
	out := make([]models.OutputEntry, 0)

	for i, in := range cmds {
		if err := ctx.Err(); err != nil {
			d.log.Warn("прогон прерван",
				slog.Int("executed", i),
				slog.Int("total", len(cmds)))
			return out, err
		}
		if entry, ok := d.Execute(in); ok {
			out = append(out, entry)
		}
	}

	d.log.Info("прогон завершён",
		slog.Int("commands", len(cmds)),
		slog.Int("output_entries", len(out)))
	return out, nil
}

// Execute runs a single command. ok is false when the command produces no output.
func (d *Dispatcher) Execute(in models.CommandInput) (entry models.OutputEntry, ok bool) {
	const op = "command.Execute"

	h, found := d.handlers[in.Command]
	if !found {
		d.log.Warn("неизвестная команда", slog.String("op", op), slog.String("command", in.Command))
		return d.errorEntry(in, fmt.Errorf("%s: %q: %w", op, in.Command, custom_err.ErrUnknownCommand)), true
	}

	output, err := h(d.rt, in)
	if err != nil {
		if recorded(err) {
			d.log.Debug("результат команды записан в историю",
				slog.String("command", in.Command),
				slog.Int64("timestamp", in.Timestamp),
				slog.String("reason", err.Error()))
			return models.OutputEntry{}, false
		}
		d.log.Warn("команда завершилась ошибкой",
			slog.String("op", op),
			slog.String("command", in.Command),
			slog.Int64("timestamp", in.Timestamp),
			slog.String("error", err.Error()))
		return d.errorEntry(in, err), true
	}

	if output == nil {
		return models.OutputEntry{}, false
	}
	return models.OutputEntry{Command: in.Command, Output: output, Timestamp: in.Timestamp}, true
}

func (d *Dispatcher) errorEntry(in models.CommandInput, err error) models.OutputEntry {
	return models.OutputEntry{
		Command:   in.Command,
		Output:    render.Error(Describe(err), in.Timestamp),
		Timestamp: in.Timestamp,
	}
}

// recorded reports failures whose outcome is already a ledger entry.
func recorded(err error) bool {
	return errors.Is(err, custom_err.ErrInsufficientFunds) || errors.Is(err, custom_err.ErrCardFrozen)
}

// Describe maps an error to the description shown in the output file.
func Describe(err error) string {
	switch {
	case errors.Is(err, custom_err.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, custom_err.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, custom_err.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, custom_err.ErrNotSavingsAccount):
		return "This is not a savings account"
	case errors.Is(err, custom_err.ErrUnsupportedReport):
		return "This kind of report is not supported for a saving account"
	case errors.Is(err, custom_err.ErrAccountNotEmpty):
		return "Account couldn't be deleted - there are funds remaining"
	case errors.Is(err, custom_err.ErrConversionUnsupported):
		return "Conversion between these currencies is not supported"
	case errors.Is(err, custom_err.ErrInvalidParticipant):
		return "Account is not part of this split payment"
	case errors.Is(err, custom_err.ErrShareCountMismatch):
		return "Amounts do not match the involved accounts"
	case errors.Is(err, custom_err.ErrInvalidCurrency):
		return "Invalid currency"
	case errors.Is(err, custom_err.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, custom_err.ErrUnknownCommand):
		return "Unknown command"
	case errors.Is(err, custom_err.ErrInvalidInput):
		return "Invalid input"
	default:
		return "Internal error"
	}
}
