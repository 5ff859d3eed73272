package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"fmt"
	"math"
)

// ProposalID identifies a proposal for the lifetime of a run. IDs are
// assigned from a monotonic counter, so proposals with identical fields
// remain distinct.
type ProposalID uint64

type response int

const (
	responseUnset response = iota
	responseAccept
	responseReject
)

// SplitRequest is the input for creating a proposal.
type SplitRequest struct {
	Type         models.SplitType
	Participants []string
	Amounts      []float64 // required for custom, aligned with Participants
	Total        float64
	Currency     models.Currency
	Timestamp    int64
}

// SplitProposal is one multi-account payment awaiting unanimous acceptance.
type SplitProposal struct {
	ID           ProposalID
	Type         models.SplitType
	Participants []string
	Amounts      []float64
	Total        float64
	Currency     models.Currency
	Timestamp    int64

	state     models.ProposalState
	responses map[string]response
	emails    map[string][]string
}

// AccountDirectory resolves IBANs to accounts.
type AccountDirectory interface {
	Account(iban string) (*models.Account, error)
}

// NewSplitProposal validates req against the directory and snapshots the
// email to IBAN mapping of its participants. A user owning several
// participants keeps them in listed order.
func NewSplitProposal(id ProposalID, req SplitRequest, dir AccountDirectory) (*SplitProposal, error) {
	const op = "service.NewSplitProposal"

	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%s: split type %q: %w", op, req.Type, custom_err.ErrInvalidInput)
	}
	if len(req.Participants) == 0 {
		return nil, fmt.Errorf("%s: no participants: %w", op, custom_err.ErrInvalidInput)
	}
	if !req.Currency.IsValid() {
		return nil, fmt.Errorf("%s: currency %q: %w", op, req.Currency, custom_err.ErrInvalidCurrency)
	}
	if !positive(req.Total) {
		return nil, fmt.Errorf("%s: total %v: %w", op, req.Total, custom_err.ErrInvalidAmount)
	}
	if req.Type == models.SplitCustom {
		if len(req.Amounts) != len(req.Participants) {
			return nil, fmt.Errorf("%s: %d amounts for %d participants: %w",
				op, len(req.Amounts), len(req.Participants), custom_err.ErrShareCountMismatch)
		}
		for i, amount := range req.Amounts {
			if !positive(amount) {
				return nil, fmt.Errorf("%s: amount %v for %s: %w", op, amount, req.Participants[i], custom_err.ErrInvalidAmount)
			}
		}
	}

	p := &SplitProposal{
		ID:           id,
		Type:         req.Type,
		Participants: append([]string{}, req.Participants...),
		Total:        req.Total,
		Currency:     req.Currency,
		Timestamp:    req.Timestamp,
		state:        models.ProposalPending,
		responses:    make(map[string]response, len(req.Participants)),
		emails:       make(map[string][]string, len(req.Participants)),
	}
	if req.Type == models.SplitCustom {
		p.Amounts = append([]float64{}, req.Amounts...)
	}

	for _, iban := range req.Participants {
		if _, dup := p.responses[iban]; dup {
			return nil, fmt.Errorf("%s: duplicate participant %s: %w", op, iban, custom_err.ErrInvalidInput)
		}
		acc, err := dir.Account(iban)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.responses[iban] = responseUnset
		p.emails[acc.OwnerEmail] = append(p.emails[acc.OwnerEmail], iban)
	}

	return p, nil
}

func (p *SplitProposal) State() models.ProposalState {
	return p.state
}

func (p *SplitProposal) HasParticipant(iban string) bool {
	_, ok := p.responses[iban]
	return ok
}

// IBANFor resolves a responder's email through this proposal's own snapshot.
// A user owning several participants answers for the first one, in listed
// order, that has not answered yet.
func (p *SplitProposal) IBANFor(email string) (string, bool) {
	ibans, ok := p.emails[email]
	if !ok {
		return "", false
	}
	for _, iban := range ibans {
		if p.responses[iban] == responseUnset {
			return iban, true
		}
	}
	return ibans[0], true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Share returns participant i's share in the proposal currency.
func (p *SplitProposal) Share(i int) float64 {
	if p.Type == models.SplitCustom {
		return p.Amounts[i]
	}
	return p.Total / float64(len(p.Participants))
}

// Shares returns every participant's share, aligned with Participants.
func (p *SplitProposal) Shares() []float64 {
	out := make([]float64, len(p.Participants))
	for i := range p.Participants {
		out[i] = p.Share(i)
	}
	return out
}

// Accepted lists the participants that have accepted so far.
func (p *SplitProposal) Accepted() []string {
	var out []string
	for _, iban := range p.Participants {
		if p.responses[iban] == responseAccept {
			out = append(out, iban)
		}
	}
	return out
}

func (p *SplitProposal) allAccepted() bool {
	for _, r := range p.responses {
		if r != responseAccept {
			return false
		}
	}
	return true
}

func (p *SplitProposal) entry() models.SplitEntry {
	return models.SplitEntry{
		Timestamp: p.Timestamp,
		Type:      p.Type,
		Total:     p.Total,
		Currency:  p.Currency,
		Involved:  p.Participants,
		Shares:    p.Shares(),
	}
}
