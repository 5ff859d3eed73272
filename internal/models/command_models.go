package models

// Input is the decoded simulation input file.
type Input struct {
	Users         []UserInput    `json:"users"`
	ExchangeRates []ExchangeRate `json:"exchangeRates"`
	Commands      []CommandInput `json:"commands"`
}

type UserInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	BirthDate  string `json:"birthDate,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// CommandInput is the union of every command's fields; each command reads its own.
type CommandInput struct {
	Command          string      `json:"command"`
	Timestamp        int64       `json:"timestamp"`
	Email            string      `json:"email,omitempty"`
	Account          string      `json:"account,omitempty"`
	Currency         Currency    `json:"currency,omitempty"`
	Amount           float64     `json:"amount,omitempty"`
	AccountType      AccountType `json:"accountType,omitempty"`
	InterestRate     float64     `json:"interestRate,omitempty"`
	CardNumber       string      `json:"cardNumber,omitempty"`
	Commerciant      string      `json:"commerciant,omitempty"`
	Receiver         string      `json:"receiver,omitempty"`
	Description      string      `json:"description,omitempty"`
	Alias            string      `json:"alias,omitempty"`
	Accounts         []string    `json:"accounts,omitempty"`
	AmountForUsers   []float64   `json:"amountForUsers,omitempty"`
	SplitPaymentType SplitType   `json:"splitPaymentType,omitempty"`
	StartTimestamp   int64       `json:"startTimestamp,omitempty"`
	EndTimestamp     int64       `json:"endTimestamp,omitempty"`
}

// OutputEntry is one element of the output array.
type OutputEntry struct {
	Command   string `json:"command"`
	Output    any    `json:"output,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// CommandError is the structured error surfaced to the output for a failed command.
type CommandError struct {
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}
