// Package shell implements the interactive console menu. It only
// collects input and prints the messages the service returns; all
// business rules live in the service layer.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sejongbank/ledgerd/internal/service"
)

// Shell drives the bank over a line-based reader/writer pair, which in
// production is stdin/stdout.
type Shell struct {
	svc *service.BankService
	in  *bufio.Scanner
	out io.Writer
}

// New builds a shell over the given streams.
func New(svc *service.BankService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run shows the main menu until the user quits or input ends.
func (sh *Shell) Run(ctx context.Context) {
	for {
		sh.say("")
		sh.say("===== Sejong Bank =====")
		sh.say("1. sign up")
		sh.say("2. log in")
		sh.say("3. quit")

		choice, ok := sh.ask("choose: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			sh.join(ctx)
		case "2":
			if sess := sh.login(ctx); sess != nil {
				sh.userMenu(ctx, sess)
			}
		case "3":
			sh.say("goodbye")
			return
		default:
			sh.say("invalid choice, try again")
		}
	}
}

// userMenu shows the per-session menu until logout or input ends.
func (sh *Shell) userMenu(ctx context.Context, sess *service.Session) {
	for {
		sh.say("")
		sh.sayf("[%s] what would you like to do?", sess.User().Name)
		sh.say("1. list accounts")
		sh.say("2. new account")
		sh.say("3. deposit")
		sh.say("4. withdraw")
		sh.say("5. transfer")
		sh.say("6. log out")

		choice, ok := sh.ask("choose: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			sh.listAccounts(sess)
		case "2":
			sh.report(sh.svc.CreateAccount(ctx, sess))
		case "3":
			sh.moveMoney(ctx, sess, "deposit", sh.svc.Deposit)
		case "4":
			sh.moveMoney(ctx, sess, "withdraw", sh.svc.Withdraw)
		case "5":
			sh.report(sh.svc.Transfer(ctx, sess, &consolePrompter{sh: sh}))
		case "6":
			// Dropping the session is the whole logout.
			sh.say("logged out")
			return
		default:
			sh.say("invalid choice, try again")
		}
	}
}

func (sh *Shell) join(ctx context.Context) {
	name, ok := sh.ask("name: ")
	if !ok {
		return
	}
	userID, ok := sh.ask("ID: ")
	if !ok {
		return
	}
	password, ok := sh.ask("password: ")
	if !ok {
		return
	}
	sh.report(sh.svc.Join(ctx, name, userID, password))
}

func (sh *Shell) login(ctx context.Context) *service.Session {
	userID, ok := sh.ask("ID: ")
	if !ok {
		return nil
	}
	password, ok := sh.ask("password: ")
	if !ok {
		return nil
	}
	sess, msg, err := sh.svc.Login(ctx, userID, password)
	sh.report(msg, err)
	return sess
}

func (sh *Shell) listAccounts(sess *service.Session) {
	accounts, err := sh.svc.Accounts(sess)
	if err != nil {
		sh.say(err.Error())
		return
	}
	for _, a := range accounts {
		sh.say(a.String())
	}
}

// moveMoney collects an account number and amount, then applies the
// given operation (deposit or withdraw).
func (sh *Shell) moveMoney(ctx context.Context, sess *service.Session, verb string,
	op func(context.Context, *service.Session, string, int64) (string, error)) {

	number, ok := sh.ask(verb + " to which account: ")
	if !ok {
		return
	}
	raw, ok := sh.ask("amount: ")
	if !ok {
		return
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		sh.say("numbers only, please")
		return
	}
	sh.report(op(ctx, sess, number, amount))
}

// report prints the operation outcome: the success message, or the
// error text when the operation failed.
func (sh *Shell) report(msg string, err error) {
	if err != nil {
		sh.say(err.Error())
		return
	}
	sh.say(msg)
}

// ask prints a prompt and reads one trimmed line. ok is false once
// input is exhausted.
func (sh *Shell) ask(prompt string) (string, bool) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *Shell) say(msg string) {
	fmt.Fprintln(sh.out, msg)
}

func (sh *Shell) sayf(format string, args ...any) {
	fmt.Fprintf(sh.out, format+"\n", args...)
}
