package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"cmp"
	"fmt"
	"slices"
)

// AccountReport is an account's balance and its entries within a time window.
type AccountReport struct {
	IBAN         string
	Balance      float64
	Currency     models.Currency
	Transactions []models.Transaction
}

type CommerciantTotal struct {
	Commerciant string
	Total       float64
}

// SpendingsReport is an account's card payments within a time window.
type SpendingsReport struct {
	IBAN         string
	Balance      float64
	Currency     models.Currency
	Transactions []models.Transaction
	Commerciants []CommerciantTotal
}

// ProposalView is a read-only snapshot of a pending proposal.
type ProposalView struct {
	ID           ProposalID
	Type         models.SplitType
	Participants []string
	Shares       []float64
	Accepted     []string
	Total        float64
	Currency     models.Currency
	Timestamp    int64
	State        models.ProposalState
}

// ReportService answers read-only queries over a run.
type ReportService struct {
	dir      *Directory
	ledger   *Ledger
	registry *SplitRegistry
}

func NewReportService(dir *Directory, ledger *Ledger, registry *SplitRegistry) *ReportService {
	return &ReportService{
		dir:      dir,
		ledger:   ledger,
		registry: registry,
	}
}

func (s *ReportService) Users() []*models.User {
	return s.dir.Users()
}

// Transactions returns the user's printable history. Funds-added entries are
// left out of the history but still count towards balances.
func (s *ReportService) Transactions(email string) ([]models.Transaction, error) {
	const op = "service.Transactions"

	if _, err := s.dir.User(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := []models.Transaction{}
	for _, tx := range s.ledger.Entries(email) {
		if CategoryOf(tx) == models.CategoryFundsAdded {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *ReportService) Report(iban string, start, end int64) (*AccountReport, error) {
	const op = "service.Report"

	acc, err := s.dir.Account(iban)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	txs := []models.Transaction{}
	for _, tx := range s.ledger.EntriesForAccount(acc.OwnerEmail, iban, start, end) {
		if CategoryOf(tx) == models.CategoryFundsAdded {
			continue
		}
		txs = append(txs, tx)
	}

	return &AccountReport{
		IBAN:         acc.IBAN,
		Balance:      acc.Balance,
		Currency:     acc.Currency,
		Transactions: txs,
	}, nil
}

// SpendingsReport groups card payments by commerciant, alphabetically.
func (s *ReportService) SpendingsReport(iban string, start, end int64) (*SpendingsReport, error) {
	const op = "service.SpendingsReport"

	acc, err := s.dir.Account(iban)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if acc.Type == models.AccountSavings {
		return nil, fmt.Errorf("%s: %w", op, custom_err.ErrUnsupportedReport)
	}

	rep := &SpendingsReport{
		IBAN:         acc.IBAN,
		Balance:      acc.Balance,
		Currency:     acc.Currency,
		Transactions: []models.Transaction{},
		Commerciants: []CommerciantTotal{},
	}
	totals := make(map[string]float64)
	for _, tx := range s.ledger.EntriesForAccount(acc.OwnerEmail, iban, start, end) {
		if CategoryOf(tx) != models.CategoryCardPayment {
			continue
		}
		rep.Transactions = append(rep.Transactions, tx)
		totals[tx.Commerciant] += tx.Amount
	}
	for name, total := range totals {
		rep.Commerciants = append(rep.Commerciants, CommerciantTotal{Commerciant: name, Total: total})
	}
	slices.SortFunc(rep.Commerciants, func(a, b CommerciantTotal) int {
		return cmp.Compare(a.Commerciant, b.Commerciant)
	})

	return rep, nil
}

func (s *ReportService) PendingProposals() []ProposalView {
	pending := s.registry.Pending()
	out := make([]ProposalView, 0, len(pending))
	for _, p := range pending {
		out = append(out, ProposalView{
			ID:           p.ID,
			Type:         p.Type,
			Participants: append([]string{}, p.Participants...),
			Shares:       p.Shares(),
			Accepted:     p.Accepted(),
			Total:        p.Total,
			Currency:     p.Currency,
			Timestamp:    p.Timestamp,
			State:        p.State(),
		})
	}
	return out
}
