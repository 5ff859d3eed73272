// Package render turns run state into the JSON shapes written to the output
// file and served by the report API.
package render

import (
	"bank-ledger/internal/models"
	"bank-ledger/internal/service"
	"strconv"
)

type CardView struct {
	CardNumber string `json:"cardNumber"`
	Status     string `json:"status"`
}

type AccountView struct {
	IBAN     string     `json:"IBAN"`
	Balance  float64    `json:"balance"`
	Currency string     `json:"currency"`
	Type     string     `json:"type"`
	Cards    []CardView `json:"cards"`
}

type UserView struct {
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Accounts  []AccountView `json:"accounts"`
}

type CommerciantView struct {
	Commerciant string  `json:"commerciant"`
	Total       float64 `json:"total"`
}

type ReportView struct {
	IBAN         string           `json:"IBAN"`
	Balance      float64          `json:"balance"`
	Currency     string           `json:"currency"`
	Transactions []map[string]any `json:"transactions"`
}

type SpendingsView struct {
	IBAN         string            `json:"IBAN"`
	Balance      float64           `json:"balance"`
	Currency     string            `json:"currency"`
	Transactions []map[string]any  `json:"transactions"`
	Commerciants []CommerciantView `json:"commerciants"`
}

type ProposalView struct {
	ID           uint64    `json:"id"`
	Type         string    `json:"splitPaymentType"`
	State        string    `json:"state"`
	Participants []string  `json:"accounts"`
	Shares       []float64 `json:"shares"`
	Accepted     []string  `json:"accepted"`
	Total        float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Timestamp    int64     `json:"timestamp"`
}

func Users(users []*models.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, User(u))
	}
	return out
}

func User(u *models.User) UserView {
	view := UserView{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Accounts:  make([]AccountView, 0, len(u.Accounts)),
	}
	for _, acc := range u.Accounts {
		view.Accounts = append(view.Accounts, Account(acc))
	}
	return view
}

func Account(acc *models.Account) AccountView {
	view := AccountView{
		IBAN:     acc.IBAN,
		Balance:  acc.Balance,
		Currency: string(acc.Currency),
		Type:     string(acc.Type),
		Cards:    make([]CardView, 0, len(acc.Cards)),
	}
	for _, c := range acc.Cards {
		view.Cards = append(view.Cards, CardView{CardNumber: c.Number, Status: string(c.Status)})
	}
	return view
}

// Transactions renders each entry with the fields of its category.
func Transactions(txs []models.Transaction) []map[string]any {
	out := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Transaction(tx))
	}
	return out
}

func Transaction(tx models.Transaction) map[string]any {
	m := map[string]any{
		"timestamp":   tx.Timestamp,
		"description": tx.Description,
	}

	switch service.CategoryOf(tx) {
	case models.CategoryTransfer:
		m["senderIBAN"] = tx.SenderIBAN
		m["receiverIBAN"] = tx.ReceiverIBAN
		m["amount"] = amountText(tx.Amount, tx.Currency)
		m["transferType"] = tx.TransferType
	case models.CategoryCardCreated, models.CategoryCardDestroyed:
		m["account"] = tx.Account
		m["card"] = tx.Card
		m["cardHolder"] = tx.CardHolder
	case models.CategoryCardPayment:
		m["amount"] = tx.Amount
		m["commerciant"] = tx.Commerciant
	case models.CategoryInterestAdded:
		m["amount"] = tx.Amount
		m["currency"] = string(tx.Currency)
	case models.CategorySplitPayment:
		m["currency"] = string(tx.Currency)
		m["involvedAccounts"] = tx.InvolvedAccounts
		m["splitPaymentType"] = string(tx.SplitType)
		if tx.SplitType == models.SplitCustom {
			m["amountForUsers"] = tx.AmountForUsers
		} else {
			m["amount"] = tx.Amount
		}
		if tx.Error != "" {
			m["error"] = tx.Error
		}
	case models.CategoryPlanUpgrade:
		m["accountIBAN"] = tx.Account
		m["newPlanType"] = tx.CurrentPlan
	case models.CategorySavingsWithdrawal:
		m["amount"] = tx.Amount
		m["classicAccountIBAN"] = tx.ReceiverIBAN
		m["savingsAccountIBAN"] = tx.Account
	case models.CategoryCashWithdrawal:
		m["amount"] = tx.Amount
	case models.CategoryFundsAdded:
		m["amount"] = tx.Amount
		m["currency"] = string(tx.Currency)
	}

	return m
}

// amountText prints a transfer amount as "12.5 EUR".
func amountText(amount float64, currency models.Currency) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + string(currency)
}

func Report(rep *service.AccountReport) ReportView {
	return ReportView{
		IBAN:         rep.IBAN,
		Balance:      rep.Balance,
		Currency:     string(rep.Currency),
		Transactions: Transactions(rep.Transactions),
	}
}

func Spendings(rep *service.SpendingsReport) SpendingsView {
	view := SpendingsView{
		IBAN:         rep.IBAN,
		Balance:      rep.Balance,
		Currency:     string(rep.Currency),
		Transactions: Transactions(rep.Transactions),
		Commerciants: make([]CommerciantView, 0, len(rep.Commerciants)),
	}
	for _, c := range rep.Commerciants {
		view.Commerciants = append(view.Commerciants, CommerciantView{Commerciant: c.Commerciant, Total: c.Total})
	}
	return view
}

func Proposals(views []service.ProposalView) []ProposalView {
	out := make([]ProposalView, 0, len(views))
	for _, p := range views {
		accepted := p.Accepted
		if accepted == nil {
			accepted = []string{}
		}
		out = append(out, ProposalView{
			ID:           uint64(p.ID),
			Type:         string(p.Type),
			State:        p.State.String(),
			Participants: p.Participants,
			Shares:       p.Shares,
			Accepted:     accepted,
			Total:        p.Total,
			Currency:     string(p.Currency),
			Timestamp:    p.Timestamp,
		})
	}
	return out
}

// Error is the output body of a failed command.
func Error(description string, ts int64) models.CommandError {
	return models.CommandError{Description: description, Timestamp: ts}
}
