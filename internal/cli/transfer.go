package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
	"github.com/simaogato/partnerdesk/internal/usecase/transfer"
)

func newTransferCmd(opts *rootOptions) *cobra.Command {
	var from, to, amount string
	var yes bool

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move an amount from one client's balance to another's",
		Example: `  partnerctl transfer --from 529.982.247-25 --to 111.444.777-35 --amount 500,00
  partnerctl transfer --from <id> --to <id> --amount "R$ 1.250,50" --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if err := a.loadClients(cmd); err != nil {
				return err
			}

			intent := transfer.Intent{
				From:   a.lookupPtr(from),
				To:     a.lookupPtr(to),
				Amount: amount,
			}

			confirmation, err := a.engine.Submit(intent)
			if err != nil {
				return reportInvalid(cmd, err)
			}

			if !yes {
				ok, err := a.confirm(cmd, confirmation.Prompt)
				if err != nil {
					return err
				}
				if !ok {
					if err := a.engine.Cancel(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Transfer cancelled")
					return nil
				}
			}

			if err := a.engine.Confirm(cmd.Context()); err != nil {
				return fmt.Errorf("transfer failed: %w", err)
			}

			fromNow, _ := a.directory.Get(intent.From.ID)
			toNow, _ := a.directory.Get(intent.To.ID)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transferred %s from %s to %s\n", confirmation.FormattedAmount, confirmation.FromName, confirmation.ToName)
			fmt.Fprintf(out, "  %s: %s\n", fromNow.Name, rules.FormatCurrency(fromNow.Balance))
			fmt.Fprintf(out, "  %s: %s\n", toNow.Name, rules.FormatCurrency(toNow.Balance))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Origin client id or document")
	cmd.Flags().StringVar(&to, "to", "", "Destination client id or document")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 500,00")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// lookupPtr returns the client referenced by ref, or nil when there is none.
func (a *app) lookupPtr(ref string) *domain.Client {
	if ref == "" {
		return nil
	}
	c, ok := a.directory.Lookup(ref)
	if !ok {
		return nil
	}
	return &c
}
