package models

// SplitType selects how a split payment total is shared.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitCustom SplitType = "custom"
)

func (t SplitType) IsValid() bool {
	return t == SplitEqual || t == SplitCustom
}

// ProposalState is the lifecycle state of a split payment proposal.
//
//	Pending -> Settled | Aborted
//
// Settled and Aborted are terminal.
type ProposalState int

const (
	ProposalPending ProposalState = iota
	ProposalSettled
	ProposalAborted
)

func (s ProposalState) String() string {
	switch s {
	case ProposalPending:
		return "pending"
	case ProposalSettled:
		return "settled"
	case ProposalAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (s ProposalState) IsTerminal() bool {
	return s == ProposalSettled || s == ProposalAborted
}
