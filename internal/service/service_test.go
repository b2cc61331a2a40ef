package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sejongbank/ledgerd/internal/models"
)

// memStore is an in-memory LedgerStore; failSave simulates a dead disk.
type memStore struct {
	initial  *models.Ledger
	saves    int
	failSave bool
}

func (m *memStore) Load(ctx context.Context) (*models.Ledger, error) {
	if m.initial == nil {
		return models.NewLedger(), nil
	}
	return m.initial, nil
}

func (m *memStore) Save(ctx context.Context, ledger *models.Ledger) error {
	if m.failSave {
		return errors.New("disk unavailable")
	}
	m.saves++
	return nil
}

func (m *memStore) Close() error { return nil }

// memAudit collects appended entries.
type memAudit struct {
	entries []models.AuditEntry
}

func (m *memAudit) Entries(ctx context.Context) ([]models.AuditEntry, error) {
	return m.entries, nil
}

func (m *memAudit) Append(ctx context.Context, entry models.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAudit) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, ledger *models.Ledger) (*BankService, *memStore, *memAudit) {
	t.Helper()
	store := &memStore{initial: ledger}
	audit := &memAudit{}
	svc, err := New(context.Background(), store, audit, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	svc.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return svc, store, audit
}

// twoUserLedger sets up Alice (3000, primary 1111) and Bob (5000, 2222).
func twoUserLedger() *models.Ledger {
	alice := &models.User{Name: "Alice", ID: "alice", Password: "alicepw"}
	alice.AddAccount(&models.Account{Number: "1111-11-1111", Balance: 3000})
	bob := &models.User{Name: "Bob", ID: "bob", Password: "bobpw"}
	bob.AddAccount(&models.Account{Number: "2222-22-2222", Balance: 5000})

	l := models.NewLedger()
	l.AddUser(alice)
	l.AddUser(bob)
	return l
}

func login(t *testing.T, svc *BankService, id, password string) *Session {
	t.Helper()
	sess, _, err := svc.Login(context.Background(), id, password)
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", id, err)
	}
	return sess
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with one empty account", func(t *testing.T) {
		svc, store, _ := newTestService(t, nil)

		msg, err := svc.Join(ctx, "Alice", "alice", "pw")
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if msg == "" {
			t.Error("expected a success message")
		}

		user := svc.ledger.User("alice")
		if user == nil {
			t.Fatal("user not in ledger")
		}
		if len(user.Accounts) != 1 || user.PrimaryAccount().Balance != 0 {
			t.Errorf("accounts = %+v, want one zero-balance account", user.Accounts)
		}
		if store.saves != 1 {
			t.Errorf("saves = %d, want 1", store.saves)
		}
	})

	t.Run("duplicate ID leaves ledger unchanged", func(t *testing.T) {
		svc, store, _ := newTestService(t, twoUserLedger())

		_, err := svc.Join(ctx, "Impostor", "alice", "other")
		if !errors.Is(err, ErrUserExists) {
			t.Fatalf("err = %v, want ErrUserExists", err)
		}
		if len(svc.ledger.Users) != 2 {
			t.Errorf("users = %d, want 2", len(svc.ledger.Users))
		}
		if svc.ledger.User("alice").Name != "Alice" {
			t.Error("existing user was overwritten")
		}
		if store.saves != 0 {
			t.Errorf("saves = %d, want 0", store.saves)
		}
	})

	t.Run("retries generation on number collision", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())

		numbers := []string{"1111-11-1111", "2222-22-2222", "4242-42-4242"}
		svc.generate = func() string {
			n := numbers[0]
			if len(numbers) > 1 {
				numbers = numbers[1:]
			}
			return n
		}

		if _, err := svc.Join(ctx, "Carol", "carol", "pw"); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		got := svc.ledger.User("carol").PrimaryAccount().Number
		if got != "4242-42-4242" {
			t.Errorf("account number = %s, want the first non-colliding candidate", got)
		}
	})

	t.Run("gives up when every candidate collides", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())
		svc.generate = func() string { return "1111-11-1111" }

		_, err := svc.Join(ctx, "Carol", "carol", "pw")
		if !errors.Is(err, ErrNumberTaken) {
			t.Fatalf("err = %v, want ErrNumberTaken", err)
		}
		if svc.ledger.User("carol") != nil {
			t.Error("user should not be registered without an account number")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, twoUserLedger())

	t.Run("valid credentials", func(t *testing.T) {
		sess, msg, err := svc.Login(ctx, "alice", "alicepw")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if sess.User().ID != "alice" {
			t.Errorf("session user = %s, want alice", sess.User().ID)
		}
		if msg == "" {
			t.Error("expected a welcome message")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "alice", "nope"); !errors.Is(err, ErrBadCredentials) {
			t.Errorf("err = %v, want ErrBadCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrBadCredentials) {
			t.Errorf("err = %v, want ErrBadCredentials", err)
		}
	})
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, twoUserLedger())

	t.Run("requires a session", func(t *testing.T) {
		if _, err := svc.CreateAccount(ctx, nil); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("err = %v, want ErrNotLoggedIn", err)
		}
	})

	t.Run("adds a second account", func(t *testing.T) {
		sess := login(t, svc, "alice", "alicepw")
		if _, err := svc.CreateAccount(ctx, sess); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		user := svc.ledger.User("alice")
		if len(user.Accounts) != 2 {
			t.Fatalf("accounts = %d, want 2", len(user.Accounts))
		}
		if user.PrimaryAccount().Number != "1111-11-1111" {
			t.Error("primary account must stay the first-created one")
		}
		if user.Accounts[1].Balance != 0 {
			t.Errorf("new account balance = %d, want 0", user.Accounts[1].Balance)
		}
		if store.saves != 1 {
			t.Errorf("saves = %d, want 1", store.saves)
		}
	})
}

func TestDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit adds to an owned account", func(t *testing.T) {
		svc, store, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")

		if _, err := svc.Deposit(ctx, sess, "1111-11-1111", 500); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}
		if got := sess.User().PrimaryAccount().Balance; got != 3500 {
			t.Errorf("balance = %d, want 3500", got)
		}
		if store.saves != 1 {
			t.Errorf("saves = %d, want 1", store.saves)
		}
	})

	t.Run("deposit into another user's account is not found", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")

		if _, err := svc.Deposit(ctx, sess, "2222-22-2222", 500); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-positive deposit rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")

		if _, err := svc.Deposit(ctx, sess, "1111-11-1111", 0); !errors.Is(err, ErrBadAmount) {
			t.Errorf("err = %v, want ErrBadAmount", err)
		}
		if got := sess.User().PrimaryAccount().Balance; got != 3000 {
			t.Errorf("balance = %d, want 3000 untouched", got)
		}
	})

	t.Run("withdraw within balance", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")

		if _, err := svc.Withdraw(ctx, sess, "1111-11-1111", 3000); err != nil {
			t.Fatalf("Withdraw failed: %v", err)
		}
		if got := sess.User().PrimaryAccount().Balance; got != 0 {
			t.Errorf("balance = %d, want 0", got)
		}
	})

	t.Run("withdraw over balance rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")

		if _, err := svc.Withdraw(ctx, sess, "1111-11-1111", 3001); !errors.Is(err, ErrInsufficient) {
			t.Errorf("err = %v, want ErrInsufficient", err)
		}
		if got := sess.User().PrimaryAccount().Balance; got != 3000 {
			t.Errorf("balance = %d, want 3000 untouched", got)
		}
	})

	t.Run("deposit rolls back when save fails", func(t *testing.T) {
		svc, store, _ := newTestService(t, twoUserLedger())
		sess := login(t, svc, "alice", "alicepw")
		store.failSave = true

		if _, err := svc.Deposit(ctx, sess, "1111-11-1111", 500); err == nil {
			t.Fatal("expected save error")
		}
		if got := sess.User().PrimaryAccount().Balance; got != 3000 {
			t.Errorf("balance = %d, want 3000 after rollback", got)
		}
	})
}

func TestAccountsSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t, twoUserLedger())
	sess := login(t, svc, "alice", "alicepw")

	accounts, err := svc.Accounts(sess)
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}

	// The snapshot is a copy; mutating it must not touch the ledger.
	accounts[0].Balance = 0
	if got := sess.User().PrimaryAccount().Balance; got != 3000 {
		t.Errorf("ledger balance = %d, want 3000", got)
	}

	if _, err := svc.Accounts(nil); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("err = %v, want ErrNotLoggedIn", err)
	}
}
