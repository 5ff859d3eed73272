package service

import (
	"bank-ledger/internal/models"
	"fmt"
	"log/slog"
)

// RouteResult reports where a response went.
type RouteResult struct {
	Routed     bool
	ProposalID ProposalID
	Outcome    Outcome
}

// SplitRegistry holds the pending proposals of one run in creation order.
type SplitRegistry struct {
	engine   *SplitEngine
	accounts AccountDirectory
	active   []*SplitProposal
	lastID   ProposalID
	log      *slog.Logger
}

func NewSplitRegistry(engine *SplitEngine, accounts AccountDirectory, log *slog.Logger) *SplitRegistry {
	return &SplitRegistry{
		engine:   engine,
		accounts: accounts,
		log:      log,
	}
}

// Propose validates req and registers a new pending proposal. Nothing is
// registered when validation fails.
func (r *SplitRegistry) Propose(req SplitRequest) (*SplitProposal, error) {
	const op = "service.Propose"

	p, err := NewSplitProposal(r.lastID+1, req, r.accounts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.lastID = p.ID
	r.active = append(r.active, p)

	r.log.Info("split payment создан",
		slog.Uint64("proposal_id", uint64(p.ID)),
		slog.String("type", string(p.Type)),
		slog.Int("participants", len(p.Participants)),
		slog.Float64("total", p.Total))

	return p, nil
}

// Route forwards a response to the first pending proposal of splitType, in
// creation order, that lists the responder. When two pending proposals share
// a participant only the older one sees the response. A response matching no
// proposal is dropped without error.
func (r *SplitRegistry) Route(email string, accepted bool, splitType models.SplitType) (RouteResult, error) {
	for i, p := range r.active {
		if p.Type != splitType {
			continue
		}
		iban, ok := p.IBANFor(email)
		if !ok || !p.HasParticipant(iban) {
			continue
		}

		out, err := r.engine.Respond(p, iban, accepted)
		if out.State.IsTerminal() {
			r.active = append(r.active[:i:i], r.active[i+1:]...)
		}
		return RouteResult{Routed: true, ProposalID: p.ID, Outcome: out}, err
	}

	r.log.Debug("ответ без подходящего split payment",
		slog.String("email", email),
		slog.String("type", string(splitType)),
		slog.Bool("accepted", accepted))

	return RouteResult{}, nil
}

// Pending returns the active proposals in creation order.
func (r *SplitRegistry) Pending() []*SplitProposal {
	out := make([]*SplitProposal, len(r.active))
	copy(out, r.active)
	return out
}
