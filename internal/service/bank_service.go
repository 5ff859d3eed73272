package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"errors"
	"fmt"
	"log/slog"
)

const (
	noteAccountNotEmpty = "Account couldn't be deleted - there are funds remaining"
	noteInterestChanged = "Interest rate of the account changed to %g"
)

// BankService implements the account and card commands on top of the
// run's directory, ledger and converter.
type BankService struct {
	dir       *Directory
	ledger    *Ledger
	converter Converter
	log       *slog.Logger
}

func NewBankService(dir *Directory, ledger *Ledger, converter Converter, log *slog.Logger) *BankService {
	return &BankService{
		dir:       dir,
		ledger:    ledger,
		converter: converter,
		log:       log,
	}
}

func (s *BankService) AddAccount(email string, currency models.Currency, typ models.AccountType, interest float64, ts int64) (*models.Account, error) {
	const op = "service.AddAccount"

	acc, err := s.dir.OpenAccount(email, currency, typ, interest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.ledger.Append(email, models.NewAccountCreated(ts, acc.IBAN))
	return acc, nil
}

func (s *BankService) AddFunds(iban string, amount float64, ts int64) error {
	const op = "service.AddFunds"

	if amount <= 0 {
		return custom_err.ErrInvalidAmount
	}
	acc, err := s.dir.Account(iban)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	acc.Balance += amount
	s.ledger.Append(acc.OwnerEmail, models.NewFundsAdded(ts, iban, amount, acc.Currency))
	return nil
}

func (s *BankService) DeleteAccount(email, iban string, ts int64) error {
	const op = "service.DeleteAccount"

	err := s.dir.CloseAccount(email, iban)
	if errors.Is(err, custom_err.ErrAccountNotEmpty) {
		s.ledger.Append(email, models.NewNote(ts, iban, noteAccountNotEmpty))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *BankService) CreateCard(email, iban string, oneTime bool, ts int64) (*models.Card, error) {
	const op = "service.CreateCard"

	acc, err := s.dir.OwnedAccount(email, iban)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c := s.dir.IssueCard(acc, oneTime)
	s.ledger.Append(email, models.NewCardCreated(ts, iban, c.Number, email))
	return c, nil
}

// DeleteCard destroys a card. An empty email skips the ownership check.
func (s *BankService) DeleteCard(email, number string, ts int64) error {
	const op = "service.DeleteCard"

	c, acc, err := s.cardAccount(number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if email != "" && acc.OwnerEmail != email {
		return fmt.Errorf("%s: %w", op, custom_err.ErrCardNotFound)
	}
	s.dir.RemoveCard(c)
	s.ledger.Append(acc.OwnerEmail, models.NewCardDestroyed(ts, acc.IBAN, c.Number, acc.OwnerEmail))
	return nil
}

func (s *BankService) SetMinimumBalance(iban string, amount float64) error {
	const op = "service.SetMinimumBalance"

	if amount < 0 {
		return custom_err.ErrInvalidAmount
	}
	acc, err := s.dir.Account(iban)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	acc.MinBalance = amount
	return nil
}

// CheckCardStatus freezes the card once its account is at or below the minimum balance.
func (s *BankService) CheckCardStatus(number string, ts int64) error {
	const op = "service.CheckCardStatus"

	c, acc, err := s.cardAccount(number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if acc.Balance <= acc.MinBalance && c.Status != models.CardFrozen {
		c.Status = models.CardFrozen
		s.ledger.Append(acc.OwnerEmail, models.NewNote(ts, acc.IBAN, models.DescMinimumReached))
	}
	return nil
}

// PayOnline charges a card. amount is in currency and is converted into the
// account currency. A one-time card is replaced after a successful payment.
// ErrInsufficientFunds and ErrCardFrozen are returned after the outcome has
// been written to the ledger.
func (s *BankService) PayOnline(email, number string, amount float64, currency models.Currency, commerciant string, ts int64) error {
	const op = "service.PayOnline"

	if amount <= 0 {
		return custom_err.ErrInvalidAmount
	}
	if _, err := s.dir.User(email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c, acc, err := s.cardAccount(number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if acc.OwnerEmail != email {
		return fmt.Errorf("%s: %w", op, custom_err.ErrCardNotFound)
	}

	if c.Status == models.CardFrozen {
		s.ledger.Append(email, models.NewNote(ts, acc.IBAN, models.DescCardFrozen))
		return custom_err.ErrCardFrozen
	}

	charged, err := s.converter.Convert(amount, currency, acc.Currency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if acc.Balance-charged < acc.MinBalance {
		s.ledger.Append(email, models.NewInsufficientFunds(ts, acc.IBAN))
		return custom_err.ErrInsufficientFunds
	}

	acc.Balance -= charged
	s.ledger.Append(email, models.NewCardPayment(ts, acc.IBAN, charged, acc.Currency, commerciant))

	if c.OneTime {
		s.dir.RemoveCard(c)
		s.ledger.Append(email, models.NewCardDestroyed(ts, acc.IBAN, c.Number, email))
		next := s.dir.IssueCard(acc, true)
		s.ledger.Append(email, models.NewCardCreated(ts, acc.IBAN, next.Number, email))
	}

	s.log.Debug("оплата картой",
		slog.String("iban", acc.IBAN),
		slog.String("commerciant", commerciant),
		slog.Float64("amount", charged))
	return nil
}

// SendMoney transfers amount (in the sender's currency) to receiver, which
// may be an IBAN or one of the sender's aliases. Both sides get a record.
func (s *BankService) SendMoney(email, from, receiver string, amount float64, description string, ts int64) error {
	const op = "service.SendMoney"

	if amount <= 0 {
		return custom_err.ErrInvalidAmount
	}
	src, err := s.dir.OwnedAccount(email, from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user, _ := s.dir.User(email)
	dst, err := s.dir.Resolve(user, receiver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if src.IBAN == dst.IBAN {
		return fmt.Errorf("%s: same account: %w", op, custom_err.ErrInvalidInput)
	}

	credited, err := s.converter.Convert(amount, src.Currency, dst.Currency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if src.Balance-amount < src.MinBalance {
		s.ledger.Append(email, models.NewInsufficientFunds(ts, src.IBAN))
		return custom_err.ErrInsufficientFunds
	}

	src.Balance -= amount
	dst.Balance += credited
	s.ledger.Append(email, models.NewTransfer(ts, description, src.IBAN, dst.IBAN, src.IBAN, amount, src.Currency, models.TransferSent))
	s.ledger.Append(dst.OwnerEmail, models.NewTransfer(ts, description, src.IBAN, dst.IBAN, dst.IBAN, credited, dst.Currency, models.TransferReceived))
	return nil
}

func (s *BankService) SetAlias(email, alias, iban string) error {
	const op = "service.SetAlias"

	if alias == "" {
		return custom_err.ErrInvalidInput
	}
	if _, err := s.dir.OwnedAccount(email, iban); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u, _ := s.dir.User(email)
	u.Aliases[alias] = iban
	return nil
}

func (s *BankService) ChangeInterestRate(iban string, rate float64, ts int64) error {
	const op = "service.ChangeInterestRate"

	acc, err := s.savings(iban)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	acc.InterestRate = rate
	s.ledger.Append(acc.OwnerEmail, models.NewNote(ts, iban, fmt.Sprintf(noteInterestChanged, rate)))
	return nil
}

func (s *BankService) AddInterest(iban string, ts int64) error {
	const op = "service.AddInterest"

	acc, err := s.savings(iban)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	income := acc.Balance * acc.InterestRate
	if income == 0 {
		return nil
	}
	acc.Balance += income
	s.ledger.Append(acc.OwnerEmail, models.NewInterestIncome(ts, iban, income, acc.Currency))
	return nil
}

func (s *BankService) savings(iban string) (*models.Account, error) {
	acc, err := s.dir.Account(iban)
	if err != nil {
		return nil, err
	}
	if acc.Type != models.AccountSavings {
		return nil, custom_err.ErrNotSavingsAccount
	}
	return acc, nil
}

func (s *BankService) cardAccount(number string) (*models.Card, *models.Account, error) {
	c, err := s.dir.Card(number)
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.dir.Account(c.AccountIBAN)
	if err != nil {
		return nil, nil, custom_err.ErrCardNotFound
	}
	return c, acc, nil
}
