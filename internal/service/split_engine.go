package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"fmt"
	"log/slog"
)

// LedgerWriter appends ledger entries for a user.
type LedgerWriter interface {
	Append(email string, tx models.Transaction)
}

// EventSink receives terminal proposal transitions.
type EventSink interface {
	Publish(event models.SplitPaymentEvent)
}

// Outcome describes what a single response did to a proposal.
type Outcome struct {
	State        models.ProposalState
	Transitioned bool   // the response moved the proposal into a terminal state
	Ignored      bool   // the proposal was already terminal
	CauseIBAN    string // rejecting or first insufficient account, for aborts
}

// SplitEngine drives proposals through Pending -> Settled | Aborted.
type SplitEngine struct {
	accounts  AccountDirectory
	converter Converter
	ledger    LedgerWriter
	tracker   *ResponseTracker
	events    EventSink
	log       *slog.Logger
}

func NewSplitEngine(
	accounts AccountDirectory,
	converter Converter,
	ledger LedgerWriter,
	tracker *ResponseTracker,
	events EventSink,
	log *slog.Logger,
) *SplitEngine {
	return &SplitEngine{
		accounts:  accounts,
		converter: converter,
		ledger:    ledger,
		tracker:   tracker,
		events:    events,
		log:       log,
	}
}

// Respond applies one participant's answer to p.
func (e *SplitEngine) Respond(p *SplitProposal, iban string, accepted bool) (Outcome, error) {
	const op = "service.Respond"

	if !p.HasParticipant(iban) {
		return Outcome{State: p.state}, fmt.Errorf("%s: %s: %w", op, iban, custom_err.ErrInvalidParticipant)
	}

	if p.state.IsTerminal() {
		e.log.Info("ответ на завершённый split payment проигнорирован",
			slog.Uint64("proposal_id", uint64(p.ID)),
			slog.String("iban", iban),
			slog.String("state", p.state.String()),
			slog.Bool("accepted", accepted))
		return Outcome{State: p.state, Ignored: true}, nil
	}

	if !e.tracker.Record(iban, p.ID, accepted) {
		return Outcome{State: p.state}, nil
	}

	if !accepted {
		p.responses[iban] = responseReject
		return e.abort(p, iban, models.ErrTextSplitRejected), nil
	}

	p.responses[iban] = responseAccept
	if !p.allAccepted() {
		e.log.Debug("split payment ожидает ответов",
			slog.Uint64("proposal_id", uint64(p.ID)),
			slog.Int("accepted", len(p.Accepted())),
			slog.Int("participants", len(p.Participants)))
		return Outcome{State: p.state}, nil
	}

	out, err := e.settle(p)
	if err != nil {
		return out, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// settle converts every share first so that a missing rate aborts before any
// balance is inspected, then checks every account, then debits all of them.
func (e *SplitEngine) settle(p *SplitProposal) (Outcome, error) {
	accounts := make([]*models.Account, len(p.Participants))
	converted := make([]float64, len(p.Participants))

	for i, iban := range p.Participants {
		acc, err := e.accounts.Account(iban)
		if err == nil {
			converted[i], err = e.converter.Convert(p.Share(i), p.Currency, acc.Currency)
		}
		if err != nil {
			p.state = models.ProposalAborted
			e.log.Error("split payment отменён",
				slog.Uint64("proposal_id", uint64(p.ID)),
				slog.String("iban", iban),
				slog.String("error", err.Error()))
			e.publish(p, "")
			return Outcome{State: p.state, Transitioned: true}, err
		}
		accounts[i] = acc
	}

	for i, acc := range accounts {
		if acc.Balance-converted[i] <= acc.MinBalance {
			return e.abort(p, acc.IBAN, models.SplitInsufficientText(acc.IBAN)), nil
		}
	}

	entry := p.entry()
	for i, acc := range accounts {
		acc.Balance -= converted[i]
		e.ledger.Append(acc.OwnerEmail, models.NewSplitPayment(entry, acc.IBAN, p.Share(i), "", ""))
	}
	p.state = models.ProposalSettled

	e.log.Info("split payment проведён",
		slog.Uint64("proposal_id", uint64(p.ID)),
		slog.String("type", string(p.Type)),
		slog.Float64("total", p.Total),
		slog.String("currency", string(p.Currency)))
	e.publish(p, "")

	return Outcome{State: p.state, Transitioned: true}, nil
}

// abort records a failure entry for every participant, all citing cause.
// No balance is touched.
func (e *SplitEngine) abort(p *SplitProposal, cause, errText string) Outcome {
	entry := p.entry()
	for i, iban := range p.Participants {
		acc, err := e.accounts.Account(iban)
		if err != nil {
			e.log.Warn("участник split payment не найден",
				slog.Uint64("proposal_id", uint64(p.ID)),
				slog.String("iban", iban))
			continue
		}
		e.ledger.Append(acc.OwnerEmail, models.NewSplitPayment(entry, iban, p.Share(i), errText, cause))
	}
	p.state = models.ProposalAborted

	e.log.Info("split payment отклонён",
		slog.Uint64("proposal_id", uint64(p.ID)),
		slog.String("cause", cause),
		slog.String("reason", errText))
	e.publish(p, cause)

	return Outcome{State: p.state, Transitioned: true, CauseIBAN: cause}
}

func (e *SplitEngine) publish(p *SplitProposal, cause string) {
	if e.events == nil {
		return
	}
	e.events.Publish(models.SplitPaymentEvent{
		ProposalID:   uint64(p.ID),
		SplitType:    p.Type,
		State:        p.state.String(),
		Currency:     p.Currency,
		Total:        p.Total,
		Participants: append([]string{}, p.Participants...),
		CauseIBAN:    cause,
		Timestamp:    p.Timestamp,
	})
}
