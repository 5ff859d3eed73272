package service

type trackerKey struct {
	iban     string
	proposal ProposalID
}

// ResponseTracker audits which account answered which proposal, and how.
// It is scoped to one Runtime.
type ResponseTracker struct {
	responses map[trackerKey]bool
}

func NewResponseTracker() *ResponseTracker {
	return &ResponseTracker{responses: make(map[trackerKey]bool)}
}

// Record stores the response and reports whether it differs from the one
// already on file.
func (t *ResponseTracker) Record(iban string, id ProposalID, accepted bool) bool {
	key := trackerKey{iban: iban, proposal: id}
	if prev, ok := t.responses[key]; ok && prev == accepted {
		return false
	}
	t.responses[key] = accepted
	return true
}

// Response returns the recorded answer and whether one exists.
func (t *ResponseTracker) Response(iban string, id ProposalID) (accepted, answered bool) {
	accepted, answered = t.responses[trackerKey{iban: iban, proposal: id}]
	return accepted, answered
}

func (t *ResponseTracker) Len() int {
	return len(t.responses)
}
