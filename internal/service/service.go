package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/sejongbank/ledgerd/internal/models"
	"github.com/sejongbank/ledgerd/internal/storage"
)

// maxNumberAttempts bounds account-number generation retries. The
// number space holds 10^10 combinations, so hitting the bound means
// something is very wrong with the data, not bad luck.
const maxNumberAttempts = 100

// Session identifies an authenticated user. It is an explicit value
// handed out by Login and passed into every operation that needs one;
// the service keeps no current-user state of its own. Logging out is
// simply dropping the session.
type Session struct {
	user *models.User
}

// User returns the authenticated user.
func (s *Session) User() *models.User {
	return s.user
}

// BankService owns the in-memory ledger, loaded once at construction
// and written back to the store after every successful mutation. It is
// single-writer: operations run to completion one at a time.
type BankService struct {
	store  storage.LedgerStore
	audit  storage.AuditLog
	ledger *models.Ledger
	logger *slog.Logger

	// generate produces candidate account numbers; swapped in tests.
	generate func() string
	// now supplies audit timestamps; swapped in tests.
	now func() time.Time
}

// New loads the ledger from the store and returns a ready service.
func New(ctx context.Context, store storage.LedgerStore, audit storage.AuditLog, logger *slog.Logger) (*BankService, error) {
	ledger, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	logger.Info("ledger loaded", "users", len(ledger.Users))
	return &BankService{
		store:    store,
		audit:    audit,
		ledger:   ledger,
		logger:   logger,
		generate: randomAccountNumber,
		now:      time.Now,
	}, nil
}

// Join registers a new user with one zero-balance account and persists
// the ledger.
func (s *BankService) Join(ctx context.Context, name, userID, password string) (string, error) {
	if s.ledger.User(userID) != nil {
		return "", ErrUserExists
	}

	number, err := s.newAccountNumber()
	if err != nil {
		return "", err
	}

	user := &models.User{Name: name, ID: userID, Password: password}
	user.AddAccount(&models.Account{Number: number})
	s.ledger.AddUser(user)

	if err := s.store.Save(ctx, s.ledger); err != nil {
		s.ledger.Users = s.ledger.Users[:len(s.ledger.Users)-1]
		return "", fmt.Errorf("failed to save ledger: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "account", number)
	return "signup complete, welcome!", nil
}

// Login checks the credentials and returns a session for the user.
func (s *BankService) Login(ctx context.Context, userID, password string) (*Session, string, error) {
	user := s.ledger.User(userID)
	if user == nil || !user.CheckPassword(password) {
		return nil, "", ErrBadCredentials
	}
	s.logger.Info("user logged in", "user_id", userID)
	return &Session{user: user}, fmt.Sprintf("welcome, %s!", user.Name), nil
}

// CreateAccount opens an additional zero-balance account for the
// session user.
func (s *BankService) CreateAccount(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", ErrNotLoggedIn
	}

	number, err := s.newAccountNumber()
	if err != nil {
		return "", err
	}

	user := sess.user
	user.AddAccount(&models.Account{Number: number})

	if err := s.store.Save(ctx, s.ledger); err != nil {
		user.Accounts = user.Accounts[:len(user.Accounts)-1]
		return "", fmt.Errorf("failed to save ledger: %w", err)
	}

	s.logger.Info("account created", "user_id", user.ID, "account", number)
	return fmt.Sprintf("new account %s created", number), nil
}

// Accounts returns a snapshot of the session user's accounts.
func (s *BankService) Accounts(sess *Session) ([]models.Account, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	out := make([]models.Account, 0, len(sess.user.Accounts))
	for _, a := range sess.user.Accounts {
		out = append(out, *a)
	}
	return out, nil
}

// Deposit adds amount to one of the session user's accounts and
// persists the ledger.
func (s *BankService) Deposit(ctx context.Context, sess *Session, number string, amount int64) (string, error) {
	if sess == nil {
		return "", ErrNotLoggedIn
	}
	acct := sess.user.Account(number)
	if acct == nil {
		return "", ErrNotFound
	}
	if !acct.Deposit(amount) {
		return "", ErrBadAmount
	}
	if err := s.store.Save(ctx, s.ledger); err != nil {
		acct.Balance -= amount
		return "", fmt.Errorf("failed to save ledger: %w", err)
	}
	s.logger.Info("deposit", "user_id", sess.user.ID, "account", number, "amount", amount)
	return fmt.Sprintf("deposited %d", amount), nil
}

// Withdraw removes amount from one of the session user's accounts and
// persists the ledger.
func (s *BankService) Withdraw(ctx context.Context, sess *Session, number string, amount int64) (string, error) {
	if sess == nil {
		return "", ErrNotLoggedIn
	}
	acct := sess.user.Account(number)
	if acct == nil {
		return "", ErrNotFound
	}
	if amount <= 0 {
		return "", ErrBadAmount
	}
	if !acct.Withdraw(amount) {
		return "", ErrInsufficient
	}
	if err := s.store.Save(ctx, s.ledger); err != nil {
		acct.Balance += amount
		return "", fmt.Errorf("failed to save ledger: %w", err)
	}
	s.logger.Info("withdrawal", "user_id", sess.user.ID, "account", number, "amount", amount)
	return fmt.Sprintf("withdrew %d", amount), nil
}

// newAccountNumber generates a candidate number and retries until it
// is unused anywhere in the ledger.
func (s *BankService) newAccountNumber() (string, error) {
	for range maxNumberAttempts {
		number := s.generate()
		if !s.ledger.HasAccountNumber(number) {
			return number, nil
		}
	}
	return "", ErrNumberTaken
}

// randomAccountNumber produces a number in the historical
// 0000-00-0000 format.
func randomAccountNumber() string {
	return fmt.Sprintf("%04d-%02d-%04d",
		rand.IntN(10000), rand.IntN(100), rand.IntN(10000))
}
