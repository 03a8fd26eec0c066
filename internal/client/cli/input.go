package cli

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// maxAttempts bounds how often a required field is asked for again.
const maxAttempts = 3

var (
	ErrEmptyInput       = errors.New("no value entered")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// prompter asks the user for account fields on a line-oriented terminal.
// Prompts are printed inline, e.g. "Email: ".
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(reader *bufio.Reader, out io.Writer) *prompter {
	return &prompter{reader: reader, out: out}
}

// readLine returns the next line without its line ending or surrounding
// spaces. A final line without a newline is still returned; only a bare
// EOF is an error.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// field asks for label until a non-empty answer arrives or maxAttempts
// blank answers were given.
func (p *prompter) field(label string) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
			return "", err
		}
		v, err := readLine(p.reader)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintf(p.out, "%s cannot be empty\n", label)
	}
	return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
}

// secret reads a value without echo. The caller wipes the result.
func (p *prompter) secret(label string) ([]byte, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return pw, nil
}

// password reads the password for an existing account.
func (p *prompter) password() ([]byte, error) {
	return p.secret("Password")
}

// newPassword reads a password twice for a new account and fails when the
// two entries differ. Both copies are wiped on failure; only the first is
// returned on success.
func (p *prompter) newPassword() ([]byte, error) {
	pw, err := p.secret("Password")
	if err != nil {
		return nil, err
	}
	again, err := p.secret("Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if subtle.ConstantTimeCompare(pw, again) != 1 {
		common.WipeByteArray(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}
