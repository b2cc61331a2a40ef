package models

// User is a registered customer with an ordered list of owned accounts.
type User struct {
	// Name is the display name.
	Name string

	// ID is the login identifier, unique across the ledger.
	ID string

	// Password is the login credential. It is compared by equality and
	// must never be logged or displayed.
	Password string

	// Accounts holds the user's accounts in creation order. It is
	// non-empty after registration; the first element is the primary
	// account used as the source of transfers.
	Accounts []*Account
}

// AddAccount appends an account, preserving creation order.
func (u *User) AddAccount(a *Account) {
	u.Accounts = append(u.Accounts, a)
}

// PrimaryAccount returns the user's first account, or nil if the user
// owns none.
func (u *User) PrimaryAccount() *Account {
	if len(u.Accounts) == 0 {
		return nil
	}
	return u.Accounts[0]
}

// Account finds an owned account by number, or nil.
func (u *User) Account(number string) *Account {
	for _, a := range u.Accounts {
		if a.Number == number {
			return a
		}
	}
	return nil
}

// CheckPassword reports whether the given input matches the stored
// credential.
func (u *User) CheckPassword(input string) bool {
	return u.Password == input
}
