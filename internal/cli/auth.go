package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/partnerdesk/internal/domain"
)

var errNotSignedIn = errors.New("not signed in, run partnerctl login first")

// requirePartner restores the stored session.
func (a *app) requirePartner(cmd *cobra.Command) (*domain.Partner, error) {
	partner, err := a.gate.Restore(cmd.Context())
	if err != nil {
		a.logger.Warn("Failed to restore session", "error", err)
		return nil, errNotSignedIn
	}
	if partner == nil {
		return nil, errNotSignedIn
	}
	return partner, nil
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			var err error
			if email == "" {
				if email, err = a.ask(cmd, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.askSecret(cmd, "Password: "); err != nil {
					return err
				}
			}

			partner, err := a.gate.Login(cmd.Context(), email, password)
			if err != nil {
				return reportInvalid(cmd, err)
			}
			if partner == nil {
				return errors.New("invalid email or password")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", partner.Name, partner.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Partner email")
	cmd.Flags().StringVar(&password, "password", "", "Partner password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.gate.Logout(cmd.Context()); err != nil {
				return err
			}
			opts.app.directory.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			partner, err := opts.app.requirePartner(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", partner.Name, partner.Email)
			return nil
		},
	}
}
