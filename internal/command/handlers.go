package command

import (
	"bank-ledger/internal/models"
	"bank-ledger/internal/render"
	"bank-ledger/internal/service"
)

// DeleteResult is the output of deleteAccount.
type DeleteResult struct {
	Success   string `json:"success,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func defaultHandlers() map[string]Handler {
	return map[string]Handler{
		"printUsers":         printUsers,
		"printTransactions":  printTransactions,
		"addAccount":         addAccount,
		"addFunds":           addFunds,
		"deleteAccount":      deleteAccount,
		"createCard":         createCard(false),
		"createOneTimeCard":  createCard(true),
		"deleteCard":         deleteCard,
		"setMinimumBalance":  setMinimumBalance,
		"checkCardStatus":    checkCardStatus,
		"payOnline":          payOnline,
		"sendMoney":          sendMoney,
		"setAlias":           setAlias,
		"changeInterestRate": changeInterestRate,
		"addInterest":        addInterest,
		"splitPayment":       splitPayment,
		"acceptSplitPayment": respondSplitPayment(true),
		"rejectSplitPayment": respondSplitPayment(false),
		"report":             report,
		"spendingsReport":    spendingsReport,
	}
}

func printUsers(rt *service.Runtime, _ models.CommandInput) (any, error) {
	return render.Users(rt.Reports.Users()), nil
}

func printTransactions(rt *service.Runtime, in models.CommandInput) (any, error) {
	txs, err := rt.Reports.Transactions(in.Email)
	if err != nil {
		return nil, err
	}
	return render.Transactions(txs), nil
}

func addAccount(rt *service.Runtime, in models.CommandInput) (any, error) {
	_, err := rt.Bank.AddAccount(in.Email, in.Currency, in.AccountType, in.InterestRate, in.Timestamp)
	return nil, err
}

func addFunds(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.AddFunds(in.Account, in.Amount, in.Timestamp)
}

func deleteAccount(rt *service.Runtime, in models.CommandInput) (any, error) {
	if err := rt.Bank.DeleteAccount(in.Email, in.Account, in.Timestamp); err != nil {
		return DeleteResult{Error: Describe(err), Timestamp: in.Timestamp}, nil
	}
	return DeleteResult{Success: "Account deleted", Timestamp: in.Timestamp}, nil
}

func createCard(oneTime bool) Handler {
	return func(rt *service.Runtime, in models.CommandInput) (any, error) {
		_, err := rt.Bank.CreateCard(in.Email, in.Account, oneTime, in.Timestamp)
		return nil, err
	}
}

func deleteCard(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.DeleteCard(in.Email, in.CardNumber, in.Timestamp)
}

func setMinimumBalance(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.SetMinimumBalance(in.Account, in.Amount)
}

func checkCardStatus(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.CheckCardStatus(in.CardNumber, in.Timestamp)
}

func payOnline(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.PayOnline(in.Email, in.CardNumber, in.Amount, in.Currency, in.Commerciant, in.Timestamp)
}

func sendMoney(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.SendMoney(in.Email, in.Account, in.Receiver, in.Amount, in.Description, in.Timestamp)
}

func setAlias(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.SetAlias(in.Email, in.Alias, in.Account)
}

func changeInterestRate(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.ChangeInterestRate(in.Account, in.InterestRate, in.Timestamp)
}

func addInterest(rt *service.Runtime, in models.CommandInput) (any, error) {
	return nil, rt.Bank.AddInterest(in.Account, in.Timestamp)
}

// splitType defaults to equal for inputs that predate custom splits.
func splitType(in models.CommandInput) models.SplitType {
	if in.SplitPaymentType == "" {
		return models.SplitEqual
	}
	return in.SplitPaymentType
}

func splitPayment(rt *service.Runtime, in models.CommandInput) (any, error) {
	_, err := rt.Registry.Propose(service.SplitRequest{
		Type:         splitType(in),
		Participants: in.Accounts,
		Amounts:      in.AmountForUsers,
		Total:        in.Amount,
		Currency:     in.Currency,
		Timestamp:    in.Timestamp,
	})
	return nil, err
}

func respondSplitPayment(accepted bool) Handler {
	return func(rt *service.Runtime, in models.CommandInput) (any, error) {
		if _, err := rt.Directory.User(in.Email); err != nil {
			return nil, err
		}
		_, err := rt.Registry.Route(in.Email, accepted, splitType(in))
		return nil, err
	}
}

func report(rt *service.Runtime, in models.CommandInput) (any, error) {
	rep, err := rt.Reports.Report(in.Account, in.StartTimestamp, in.EndTimestamp)
	if err != nil {
		return nil, err
	}
	return render.Report(rep), nil
}

func spendingsReport(rt *service.Runtime, in models.CommandInput) (any, error) {
	rep, err := rt.Reports.SpendingsReport(in.Account, in.StartTimestamp, in.EndTimestamp)
	if err != nil {
		return nil, err
	}
	return render.Spendings(rep), nil
}
