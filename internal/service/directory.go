package service

import (
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"fmt"
	"slices"
)

// Directory is the run's in-memory index of users, accounts and cards.
type Directory struct {
	users    []*models.User
	byEmail  map[string]*models.User
	accounts map[string]*models.Account
	cards    map[string]*models.Card
	ibanSeq  uint64
	cardSeq  uint64
}

func NewDirectory(users []models.UserInput) *Directory {
	d := &Directory{
		byEmail:  make(map[string]*models.User, len(users)),
		accounts: make(map[string]*models.Account),
		cards:    make(map[string]*models.Card),
	}
	for _, in := range users {
		if _, dup := d.byEmail[in.Email]; dup {
			continue
		}
		u := &models.User{
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Email:      in.Email,
			BirthDate:  in.BirthDate,
			Occupation: in.Occupation,
			Aliases:    make(map[string]string),
		}
		d.users = append(d.users, u)
		d.byEmail[u.Email] = u
	}
	return d
}

// Users returns users in input order.
func (d *Directory) Users() []*models.User {
	return slices.Clone(d.users)
}

func (d *Directory) User(email string) (*models.User, error) {
	u, ok := d.byEmail[email]
	if !ok {
		return nil, custom_err.ErrUserNotFound
	}
	return u, nil
}

func (d *Directory) Account(iban string) (*models.Account, error) {
	acc, ok := d.accounts[iban]
	if !ok {
		return nil, custom_err.ErrAccountNotFound
	}
	return acc, nil
}

// OwnedAccount returns iban only when it belongs to email.
func (d *Directory) OwnedAccount(email, iban string) (*models.Account, error) {
	if _, err := d.User(email); err != nil {
		return nil, err
	}
	acc, err := d.Account(iban)
	if err != nil {
		return nil, err
	}
	if acc.OwnerEmail != email {
		return nil, custom_err.ErrAccountNotFound
	}
	return acc, nil
}

func (d *Directory) Card(number string) (*models.Card, error) {
	c, ok := d.cards[number]
	if !ok {
		return nil, custom_err.ErrCardNotFound
	}
	return c, nil
}

// Resolve accepts either an IBAN or one of user's aliases.
func (d *Directory) Resolve(user *models.User, ibanOrAlias string) (*models.Account, error) {
	if user != nil {
		if iban, ok := user.Aliases[ibanOrAlias]; ok {
			return d.Account(iban)
		}
	}
	return d.Account(ibanOrAlias)
}

func (d *Directory) OpenAccount(email string, currency models.Currency, typ models.AccountType, interest float64) (*models.Account, error) {
	const op = "service.OpenAccount"

	u, err := d.User(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !currency.IsValid() {
		return nil, custom_err.ErrInvalidCurrency
	}
	if !typ.IsValid() {
		return nil, fmt.Errorf("%s: account type %q: %w", op, typ, custom_err.ErrInvalidInput)
	}

	d.ibanSeq++
	acc := &models.Account{
		IBAN:       fmt.Sprintf("RO%02dLDGR%016d", 10+d.ibanSeq%90, d.ibanSeq),
		Currency:   currency,
		Type:       typ,
		OwnerEmail: email,
	}
	if typ == models.AccountSavings {
		acc.InterestRate = interest
	}
	u.Accounts = append(u.Accounts, acc)
	d.accounts[acc.IBAN] = acc
	return acc, nil
}

// CloseAccount removes an empty account together with its cards.
func (d *Directory) CloseAccount(email, iban string) error {
	const op = "service.CloseAccount"

	acc, err := d.OwnedAccount(email, iban)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if acc.Balance != 0 {
		return custom_err.ErrAccountNotEmpty
	}

	for _, c := range acc.Cards {
		delete(d.cards, c.Number)
	}
	u := d.byEmail[email]
	u.Accounts = slices.DeleteFunc(u.Accounts, func(a *models.Account) bool { return a.IBAN == iban })
	for alias, target := range u.Aliases {
		if target == iban {
			delete(u.Aliases, alias)
		}
	}
	delete(d.accounts, iban)
	return nil
}

func (d *Directory) IssueCard(acc *models.Account, oneTime bool) *models.Card {
	d.cardSeq++
	c := &models.Card{
		Number:      fmt.Sprintf("4%015d", d.cardSeq),
		Status:      models.CardActive,
		OneTime:     oneTime,
		AccountIBAN: acc.IBAN,
	}
	acc.Cards = append(acc.Cards, c)
	d.cards[c.Number] = c
	return c
}

func (d *Directory) RemoveCard(c *models.Card) {
	if acc, ok := d.accounts[c.AccountIBAN]; ok {
		acc.Cards = slices.DeleteFunc(acc.Cards, func(x *models.Card) bool { return x.Number == c.Number })
	}
	delete(d.cards, c.Number)
}
