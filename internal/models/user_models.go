package models

// User owns an ordered list of accounts.
type User struct {
	FirstName  string
	LastName   string
	Email      string
	BirthDate  string
	Occupation string
	Accounts   []*Account
	Aliases    map[string]string
}

type AccountType string

const (
	AccountClassic AccountType = "classic"
	AccountSavings AccountType = "savings"
)

func (t AccountType) IsValid() bool {
	return t == AccountClassic || t == AccountSavings
}

// Account is owned by exactly one user, referenced by OwnerEmail.
type Account struct {
	IBAN         string
	Currency     Currency
	Type         AccountType
	Balance      float64
	MinBalance   float64
	InterestRate float64
	Cards        []*Card
	OwnerEmail   string
}

type CardStatus string

const (
	CardActive CardStatus = "active"
	CardFrozen CardStatus = "frozen"
)

type Card struct {
	Number      string
	Status      CardStatus
	OneTime     bool
	AccountIBAN string
}
