// Package models defines the core domain types of the ledger.
//
// The types here carry no storage or I/O concerns:
//   - Account: a numbered balance with all-or-nothing deposit/withdraw
//   - User: a login identity owning an ordered list of accounts
//   - Ledger: the registration-ordered set of all users
//   - AuditEntry: one immutable record of a completed transfer
//
// Balance arithmetic lives on Account so that every caller gets the
// same non-negative invariant; the service layer composes these
// primitives into atomic operations.
package models
