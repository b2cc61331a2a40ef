package models

import "fmt"

// Account is a single bank account. Balances are whole currency units
// (the smallest unit, no fractions) and never go negative.
type Account struct {
	// Number is the account number, unique across the whole ledger.
	Number string

	// Balance is the current balance in whole currency units.
	Balance int64
}

// Deposit adds amount to the balance. Only positive amounts are
// accepted; on rejection the balance is untouched and false is returned.
func (a *Account) Deposit(amount int64) bool {
	if amount <= 0 {
		return false
	}
	a.Balance += amount
	return true
}

// Withdraw subtracts amount from the balance. The amount must be
// positive and no greater than the current balance; on rejection the
// balance is untouched and false is returned.
func (a *Account) Withdraw(amount int64) bool {
	if amount <= 0 || amount > a.Balance {
		return false
	}
	a.Balance -= amount
	return true
}

// String renders the account for listing in the shell.
func (a *Account) String() string {
	return fmt.Sprintf("account %s, balance %d", a.Number, a.Balance)
}
