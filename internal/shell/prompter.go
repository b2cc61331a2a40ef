package shell

import (
	"fmt"
	"strings"

	"github.com/sejongbank/ledgerd/internal/service"
)

// consolePrompter answers the transfer protocol's prompts from the
// shell's streams.
type consolePrompter struct {
	sh *Shell
}

var _ service.TransferPrompter = (*consolePrompter)(nil)

func (p *consolePrompter) RecipientAccount() (string, bool) {
	return p.sh.ask("account number to send to: ")
}

func (p *consolePrompter) ConfirmRecipient(name, number string) bool {
	answer, ok := p.sh.ask(fmt.Sprintf("send to %s / account %s, correct? (y/n): ", name, number))
	if !ok {
		return false
	}
	return strings.EqualFold(answer, "y")
}

func (p *consolePrompter) Amount() (string, bool) {
	return p.sh.ask("amount to send (numbers only): ")
}

func (p *consolePrompter) Password() (string, bool) {
	return p.sh.ask("account password: ")
}

func (p *consolePrompter) Say(msg string) {
	p.sh.say(msg)
}
