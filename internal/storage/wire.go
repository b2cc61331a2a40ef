package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sejongbank/ledgerd/internal/models"
)

// The wire format mirrors the historical bank.json layout: a top-level
// "users" list, each user carrying its accounts as a list holding one
// JSON object of account number to balance.

// WireLedger is the serialized form of the whole ledger.
type WireLedger struct {
	Users []WireUser `json:"users"`
}

// WireUser is the serialized form of one user.
type WireUser struct {
	Name     string             `json:"name"`
	ID       string             `json:"id"`
	Password string             `json:"password"`
	Accounts []WireAccountGroup `json:"accounts"`
}

// WireAccountGroup is an ordered account-number → balance object.
// JSON object key order is significant here: the first key is the
// user's primary account, so decoding must not go through a Go map.
type WireAccountGroup []WireAccount

// WireAccount is one number/balance pair inside a group.
type WireAccount struct {
	Number  string
	Balance int64
}

// MarshalJSON writes the group as a JSON object, keys in slice order.
func (g WireAccountGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Number)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", a.Balance)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object token by token, preserving the key
// order found in the file.
func (g *WireAccountGroup) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("account group: expected object, got %v", tok)
	}
	out := WireAccountGroup{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		number, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("account group: non-string key %v", keyTok)
		}
		var balance int64
		if err := dec.Decode(&balance); err != nil {
			return fmt.Errorf("account group %q: %w", number, err)
		}
		out = append(out, WireAccount{Number: number, Balance: balance})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}
	*g = out
	return nil
}

// EncodeLedger converts the domain ledger into its wire form.
func EncodeLedger(l *models.Ledger) WireLedger {
	wire := WireLedger{Users: make([]WireUser, 0, len(l.Users))}
	for _, u := range l.Users {
		group := make(WireAccountGroup, 0, len(u.Accounts))
		for _, a := range u.Accounts {
			group = append(group, WireAccount{Number: a.Number, Balance: a.Balance})
		}
		wire.Users = append(wire.Users, WireUser{
			Name:     u.Name,
			ID:       u.ID,
			Password: u.Password,
			Accounts: []WireAccountGroup{group},
		})
	}
	return wire
}

// DecodeLedger converts wire data back into the domain ledger. User
// order and per-user account order follow the file, so the primary
// account survives a round trip.
func DecodeLedger(wire WireLedger) *models.Ledger {
	ledger := models.NewLedger()
	for _, wu := range wire.Users {
		u := &models.User{Name: wu.Name, ID: wu.ID, Password: wu.Password}
		for _, group := range wu.Accounts {
			for _, a := range group {
				u.AddAccount(&models.Account{Number: a.Number, Balance: a.Balance})
			}
		}
		ledger.AddUser(u)
	}
	return ledger
}
