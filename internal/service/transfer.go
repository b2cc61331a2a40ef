package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sejongbank/ledgerd/internal/models"
)

// maxPasswordAttempts is the number of password tries allowed before a
// transfer is aborted.
const maxPasswordAttempts = 3

// TransferPrompter supplies the answers the transfer protocol needs.
// The engine owns the sequence of decision points; the prompter only
// produces input and displays progress messages, so tests can drive a
// whole transfer with canned answers.
//
// Prompt methods return ok == false when the caller gives up, which
// cancels the transfer at that point.
type TransferPrompter interface {
	// RecipientAccount asks for the destination account number.
	RecipientAccount() (string, bool)

	// ConfirmRecipient shows the resolved recipient and asks for an
	// explicit yes. Anything but yes restarts recipient entry.
	ConfirmRecipient(name, number string) bool

	// Amount asks for the amount to send, as raw text so the engine
	// can treat non-numeric input as its own validation failure.
	Amount() (string, bool)

	// Password asks for the sender's account password.
	Password() (string, bool)

	// Say displays a progress or validation message.
	Say(msg string)
}

// Transfer runs the full transfer protocol for the session user:
// recipient resolution, amount validation, bounded password
// authentication, then the atomic debit/credit commit with persistence
// and one audit entry. Validation failures re-prompt; only
// cancellation, exhausted authentication or a commit failure abort.
func (s *BankService) Transfer(ctx context.Context, sess *Session, p TransferPrompter) (string, error) {
	if sess == nil {
		return "", ErrNotLoggedIn
	}
	sender := sess.user
	source := sender.PrimaryAccount()
	if source == nil {
		return "", ErrNoAccount
	}

	recipient, target, err := s.resolveRecipient(p, source.Number)
	if err != nil {
		return "", err
	}

	amount, err := collectAmount(p, source)
	if err != nil {
		return "", err
	}

	if err := authenticate(p, sender); err != nil {
		return "", err
	}

	if err := s.commit(ctx, sender, source, recipient, target, amount); err != nil {
		return "", err
	}

	return fmt.Sprintf("transfer complete, remaining balance %d", source.Balance), nil
}

// resolveRecipient loops until a confirmed, existing, non-self account
// number is entered or the prompter cancels.
func (s *BankService) resolveRecipient(p TransferPrompter, sourceNumber string) (*models.User, *models.Account, error) {
	for {
		number, ok := p.RecipientAccount()
		if !ok {
			return nil, nil, ErrCancelled
		}
		number = strings.TrimSpace(number)

		if number == sourceNumber {
			p.Say("you cannot transfer to your own account")
			continue
		}

		recipient, target, found := s.ledger.FindAccountOwner(number)
		if !found {
			p.Say("no such account number, please check again")
			continue
		}

		if !p.ConfirmRecipient(recipient.Name, target.Number) {
			p.Say("input cancelled, please try again")
			continue
		}
		return recipient, target, nil
	}
}

// collectAmount loops until a positive amount within the live source
// balance is entered or the prompter cancels. Non-numeric input is a
// validation failure like any other: report and re-prompt.
func collectAmount(p TransferPrompter, source *models.Account) (int64, error) {
	for {
		raw, ok := p.Amount()
		if !ok {
			return 0, ErrCancelled
		}

		amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			p.Say("numbers only, please")
			continue
		}
		if amount <= 0 {
			p.Say("the amount must be greater than zero")
			continue
		}
		if amount > source.Balance {
			p.Say(fmt.Sprintf("insufficient balance (at most %d)", source.Balance))
			continue
		}
		return amount, nil
	}
}

// authenticate gives the sender maxPasswordAttempts tries at the
// password, reporting the remaining count after each miss.
func authenticate(p TransferPrompter, sender *models.User) error {
	for attempt := 1; attempt <= maxPasswordAttempts; attempt++ {
		password, ok := p.Password()
		if !ok {
			return ErrCancelled
		}
		if sender.CheckPassword(password) {
			return nil
		}
		p.Say(fmt.Sprintf("wrong password (%d tries left)", maxPasswordAttempts-attempt))
	}
	return ErrAuthExhausted
}

// commit applies the paired withdraw/credit as one unit, persists the
// ledger and appends the audit entry. If any step fails, balances are
// rolled back to their pre-commit values.
func (s *BankService) commit(ctx context.Context, sender *models.User, source *models.Account, recipient *models.User, target *models.Account, amount int64) error {
	if !source.Withdraw(amount) {
		return ErrMutation
	}
	if !target.Deposit(amount) {
		source.Deposit(amount)
		return ErrMutation
	}

	if err := s.store.Save(ctx, s.ledger); err != nil {
		target.Withdraw(amount)
		source.Deposit(amount)
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	entry := models.AuditEntry{
		ID:               uuid.New().String(),
		Type:             models.TypeTransfer,
		SenderName:       sender.Name,
		SenderAccount:    source.Number,
		RecipientName:    recipient.Name,
		RecipientAccount: target.Number,
		Amount:           amount,
		Timestamp:        models.Stamp(s.now()),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		// The transfer itself is committed and saved; a lost audit
		// entry is reported but does not undo the money movement.
		s.logger.Error("failed to append audit entry", "entry_id", entry.ID, "error", err)
	}

	s.logger.Info("transfer complete",
		"sender", sender.ID,
		"source", source.Number,
		"target", target.Number,
		"amount", amount,
	)
	return nil
}
