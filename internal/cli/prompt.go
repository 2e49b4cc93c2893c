package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simaogato/partnerdesk/internal/domain"
)

var errInvalidInput = errors.New("invalid input")

// ask prints label and reads one line. EOF with no input yields "".
func (a *app) ask(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askSecret is ask without echo when stdin is a terminal. Piped input is read
// line by line like any other answer.
func (a *app) askSecret(cmd *cobra.Command, label string) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.ask(cmd, label)
	}

	fmt.Fprint(cmd.OutOrStdout(), label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// confirm asks a yes/no question; only y or yes agrees.
func (a *app) confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := a.ask(cmd, question+" [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// reportInvalid prints field errors one per line and returns errInvalidInput.
// Any other error is returned untouched.
func reportInvalid(cmd *cobra.Command, err error) error {
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, v := range verrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", v.Field, v.Message)
	}
	return errInvalidInput
}
