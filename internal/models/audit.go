package models

import "time"

// AuditTimeFormat is the timestamp layout used in persisted audit
// entries.
const AuditTimeFormat = "2006-01-02 15:04:05"

// TypeTransfer is the entry type written for account-to-account
// transfers, the only operation currently audited.
const TypeTransfer = "Account transfer"

// AuditEntry is one immutable record in the audit log. Entries are
// appended on transfer success and never updated or removed.
type AuditEntry struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	SenderName       string `json:"sender_name"`
	SenderAccount    string `json:"sender_account"`
	RecipientName    string `json:"recipient_name"`
	RecipientAccount string `json:"recipient_account"`
	Amount           int64  `json:"amount"`
	Timestamp        string `json:"timestamp"`
}

// Stamp formats t into the audit timestamp layout.
func Stamp(t time.Time) string {
	return t.Format(AuditTimeFormat)
}
