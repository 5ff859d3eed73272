package models

import (
	"time"
)

// SplitPaymentEvent is published once per proposal, when it reaches a terminal state.
type SplitPaymentEvent struct {
	EventID      string    `json:"event_id"`
	ProposalID   uint64    `json:"proposal_id"`
	SplitType    SplitType `json:"split_type"`
	State        string    `json:"state"`
	Currency     Currency  `json:"currency"`
	Total        float64   `json:"total"`
	Participants []string  `json:"participants"`
	CauseIBAN    string    `json:"cause_iban,omitempty"` // rejecting or first insufficient account
	Timestamp    int64     `json:"timestamp"`            // proposal creation timestamp
	EmittedAt    time.Time `json:"emitted_at"`
}
