package service

import (
	"bank-ledger/internal/models"
	"cmp"
	"slices"
)

// Ledger is the per-user, append-only transaction history of one run.
type Ledger struct {
	entries map[string][]models.Transaction
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]models.Transaction)}
}

// Append records tx under the user's email. Prior entries are never touched.
func (l *Ledger) Append(email string, tx models.Transaction) {
	l.entries[email] = append(l.entries[email], tx)
}

func (l *Ledger) Len(email string) int {
	return len(l.entries[email])
}

// Entries returns the user's history sorted by timestamp. Entries with equal
// timestamps keep their insertion order.
func (l *Ledger) Entries(email string) []models.Transaction {
	out := slices.Clone(l.entries[email])
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return out
}

// EntriesForAccount returns the sorted entries of one account within [start, end].
func (l *Ledger) EntriesForAccount(email, iban string, start, end int64) []models.Transaction {
	var out []models.Transaction
	for _, tx := range l.Entries(email) {
		if tx.Account != iban || tx.Timestamp < start || tx.Timestamp > end {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CategoryOf returns the category tagged at creation, falling back to the
// legacy Classify rules for untagged records.
func CategoryOf(tx models.Transaction) models.Category {
	if tx.Category != "" {
		return tx.Category
	}
	return Classify(tx)
}

// Classify infers a category from field presence and description text.
// Rule order matters: a record can match several rules and the first wins.
func Classify(tx models.Transaction) models.Category {
	switch {
	case tx.SenderIBAN != "" && tx.ReceiverIBAN != "":
		return models.CategoryTransfer
	case tx.Card != "" && tx.CardHolder != "" && tx.Description == models.DescCardCreated:
		return models.CategoryCardCreated
	case tx.Description == models.DescInsufficientFunds:
		return models.CategoryInsufficientFunds
	case tx.Description == models.DescAccountCreated:
		return models.CategoryAccountCreated
	case tx.Description == models.DescCardDestroyed:
		return models.CategoryCardDestroyed
	case tx.Description == models.DescCardPayment:
		return models.CategoryCardPayment
	case tx.Description == models.DescInterestIncome:
		return models.CategoryInterestAdded
	case tx.InvolvedAccounts != nil:
		return models.CategorySplitPayment
	case tx.CurrentPlan != "":
		return models.CategoryPlanUpgrade
	case tx.Description == models.DescSavingsWithdrawal:
		return models.CategorySavingsWithdrawal
	case tx.Amount != 0 && tx.Error == models.DescCashWithdrawal:
		return models.CategoryCashWithdrawal
	case tx.Description == models.DescFundsAdded:
		return models.CategoryFundsAdded
	default:
		return models.CategoryUnknown
	}
}
