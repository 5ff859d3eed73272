package models

import "fmt"

// Category is the report category of a ledger entry.
type Category string

const (
	CategoryTransfer          Category = "transfer"
	CategoryCardCreated       Category = "card-created"
	CategoryInsufficientFunds Category = "insufficient-funds"
	CategoryAccountCreated    Category = "account-created"
	CategoryCardDestroyed     Category = "card-destroyed"
	CategoryCardPayment       Category = "card-payment"
	CategoryInterestAdded     Category = "interest-added"
	CategorySplitPayment      Category = "split-payment"
	CategoryPlanUpgrade       Category = "plan-upgrade"
	CategorySavingsWithdrawal Category = "savings-withdrawal"
	CategoryCashWithdrawal    Category = "cash-withdrawal"
	CategoryFundsAdded        Category = "funds-added"
	CategoryUnknown           Category = "unknown"
)

// Ledger descriptions. Legacy classification matches on these exact strings.
const (
	DescAccountCreated    = "New account created"
	DescCardCreated       = "New card created"
	DescCardDestroyed     = "The card has been destroyed"
	DescCardPayment       = "Card payment"
	DescInsufficientFunds = "Insufficient funds"
	DescInterestIncome    = "Interest rate income"
	DescSavingsWithdrawal = "Savings withdrawal"
	DescCashWithdrawal    = "Cash withdrawal"
	DescFundsAdded        = "Funds added"
	DescCardFrozen        = "The card is frozen"
	DescMinimumReached    = "You have reached the minimum amount of funds, the card will be frozen"

	ErrTextSplitRejected = "One user rejected the payment."
)

const (
	TransferSent     = "sent"
	TransferReceived = "received"
)

// Transaction is an immutable ledger fact. Only the fields relevant to its
// Category are set.
type Transaction struct {
	Timestamp        int64
	Description      string
	Account          string
	Amount           float64
	Currency         Currency
	SenderIBAN       string
	ReceiverIBAN     string
	TransferType     string
	Card             string
	CardHolder       string
	Commerciant      string
	Error            string
	InvolvedAccounts []string
	AmountForUsers   []float64
	SplitType        SplitType
	CurrentPlan      string
	CauseIBAN        string
	Category         Category
}

func NewAccountCreated(ts int64, iban string) Transaction {
	return Transaction{Timestamp: ts, Description: DescAccountCreated, Account: iban, Category: CategoryAccountCreated}
}

func NewFundsAdded(ts int64, iban string, amount float64, currency Currency) Transaction {
	return Transaction{
		Timestamp:   ts,
		Description: DescFundsAdded,
		Account:     iban,
		Amount:      amount,
		Currency:    currency,
		Category:    CategoryFundsAdded,
	}
}

func NewCardCreated(ts int64, iban, card, holder string) Transaction {
	return Transaction{
		Timestamp:   ts,
		Description: DescCardCreated,
		Account:     iban,
		Card:        card,
		CardHolder:  holder,
		Category:    CategoryCardCreated,
	}
}

func NewCardDestroyed(ts int64, iban, card, holder string) Transaction {
	return Transaction{
		Timestamp:   ts,
		Description: DescCardDestroyed,
		Account:     iban,
		Card:        card,
		CardHolder:  holder,
		Category:    CategoryCardDestroyed,
	}
}

// NewCardPayment records a payment already converted to the account currency.
func NewCardPayment(ts int64, iban string, amount float64, currency Currency, commerciant string) Transaction {
	return Transaction{
		Timestamp:   ts,
		Description: DescCardPayment,
		Account:     iban,
		Amount:      amount,
		Currency:    currency,
		Commerciant: commerciant,
		Category:    CategoryCardPayment,
	}
}

func NewInsufficientFunds(ts int64, iban string) Transaction {
	return Transaction{Timestamp: ts, Description: DescInsufficientFunds, Account: iban, Category: CategoryInsufficientFunds}
}

// NewTransfer records one side of a transfer. iban is the side owning the record.
func NewTransfer(ts int64, description, sender, receiver, iban string, amount float64, currency Currency, transferType string) Transaction {
	return Transaction{
		Timestamp:    ts,
		Description:  description,
		Account:      iban,
		SenderIBAN:   sender,
		ReceiverIBAN: receiver,
		Amount:       amount,
		Currency:     currency,
		TransferType: transferType,
		Category:     CategoryTransfer,
	}
}

func NewInterestIncome(ts int64, iban string, amount float64, currency Currency) Transaction {
	return Transaction{
		Timestamp:   ts,
		Description: DescInterestIncome,
		Account:     iban,
		Amount:      amount,
		Currency:    currency,
		Category:    CategoryInterestAdded,
	}
}

// NewNote records a free-text event with no report category of its own.
func NewNote(ts int64, iban, description string) Transaction {
	return Transaction{Timestamp: ts, Description: description, Account: iban, Category: CategoryUnknown}
}

// SplitEntry carries the proposal facts copied onto every participant's entry.
type SplitEntry struct {
	Timestamp int64
	Type      SplitType
	Total     float64
	Currency  Currency
	Involved  []string
	Shares    []float64 // per participant, in proposal currency
}

// NewSplitPayment records a split payment outcome for one participant account.
// errText and cause are empty on success.
func NewSplitPayment(e SplitEntry, iban string, share float64, errText, cause string) Transaction {
	t := Transaction{
		Timestamp:        e.Timestamp,
		Description:      fmt.Sprintf("Split payment of %.2f %s", e.Total, e.Currency),
		Account:          iban,
		Currency:         e.Currency,
		InvolvedAccounts: append([]string{}, e.Involved...),
		SplitType:        e.Type,
		Error:            errText,
		CauseIBAN:        cause,
		Category:         CategorySplitPayment,
	}
	if e.Type == SplitCustom {
		t.AmountForUsers = append([]float64{}, e.Shares...)
	} else {
		t.Amount = share
	}
	return t
}

// SplitInsufficientText is the error text cited when iban cannot cover its share.
func SplitInsufficientText(iban string) string {
	return fmt.Sprintf("Account %s has insufficient funds for a split payment.", iban)
}
