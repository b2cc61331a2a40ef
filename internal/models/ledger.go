package models

// Ledger is the full set of users and their accounts, the system's
// single source of truth. The user list is ordered by registration so
// that scans and the persisted form are stable across runs.
type Ledger struct {
	Users []*User
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// User looks up a user by login ID, or nil.
func (l *Ledger) User(id string) *User {
	for _, u := range l.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// AddUser appends a user in registration order.
func (l *Ledger) AddUser(u *User) {
	l.Users = append(l.Users, u)
}

// FindAccountOwner resolves an account number to its owning user and
// account, scanning users in ledger order and accounts in creation
// order. Absence is a routine outcome, reported via ok, not an error.
func (l *Ledger) FindAccountOwner(number string) (*User, *Account, bool) {
	for _, u := range l.Users {
		for _, a := range u.Accounts {
			if a.Number == number {
				return u, a, true
			}
		}
	}
	return nil, nil, false
}

// HasAccountNumber reports whether any account in the ledger already
// uses the given number. Registration and account creation reject
// candidate numbers for which this returns true, which keeps
// FindAccountOwner's first-match scan exact.
func (l *Ledger) HasAccountNumber(number string) bool {
	_, _, ok := l.FindAccountOwner(number)
	return ok
}
