package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
	"github.com/simaogato/partnerdesk/internal/usecase/directory"
)

func newClientsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List and manage the partner's clients",
	}

	cmd.AddCommand(newClientsListCmd(opts))
	cmd.AddCommand(newClientsCreateCmd(opts))
	cmd.AddCommand(newClientsEditCmd(opts))
	cmd.AddCommand(newClientsDeleteCmd(opts))
	return cmd
}

// loadClients restores the session and refreshes the directory.
func (a *app) loadClients(cmd *cobra.Command) error {
	if _, err := a.requirePartner(cmd); err != nil {
		return err
	}
	return a.directory.Refresh(cmd.Context())
}

// resolve finds a client by id or document, in the directory.
func (a *app) resolve(ref string) (domain.Client, error) {
	c, ok := a.directory.Lookup(ref)
	if !ok {
		return domain.Client{}, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	}
	return c, nil
}

func newClientsListCmd(opts *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients, optionally filtered by name or document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if err := a.loadClients(cmd); err != nil {
				return err
			}

			a.directory.SetSearchTerm(search)
			clients := a.directory.Filtered()
			if len(clients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clients found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDOCUMENT\tDETAIL\tINCOME\tBALANCE")
			for _, c := range clients {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Name, rules.FormatDocument(c.Document), detail(c),
					rules.FormatCurrency(c.MonthlyIncome), rules.FormatCurrency(c.Balance))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or document digits")
	return cmd
}

func detail(c domain.Client) string {
	switch {
	case c.Age != nil:
		return strconv.Itoa(*c.Age) + " years"
	case c.FoundationDate != nil:
		return "since " + *c.FoundationDate
	default:
		return "-"
	}
}

func newClientsCreateCmd(opts *rootOptions) *cobra.Command {
	var in directory.ClientInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new client with a zero balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if _, err := a.requirePartner(cmd); err != nil {
				return err
			}

			if err := a.directory.Create(cmd.Context(), in); err != nil {
				return reportInvalid(cmd, err)
			}

			clients := a.directory.Clients()
			created := clients[len(clients)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&in.Document, "document", "", "Personal (11 digits) or organizational (14 digits) document")
	cmd.Flags().StringVar(&in.Age, "age", "", "Age, for personal documents")
	cmd.Flags().StringVar(&in.FoundationDate, "foundation-date", "", "Foundation date DD/MM/YYYY, for organizational documents")
	cmd.Flags().StringVar(&in.MonthlyIncome, "income", "", "Monthly income, e.g. 4.500,00")
	return cmd
}

func newClientsEditCmd(opts *rootOptions) *cobra.Command {
	var in directory.ClientInput

	cmd := &cobra.Command{
		Use:   "edit <id|document>",
		Short: "Edit a client's name, age or foundation date, and income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if err := a.loadClients(cmd); err != nil {
				return err
			}
			current, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			// Unset flags keep the current values.
			flags := cmd.Flags()
			if !flags.Changed("name") {
				in.Name = current.Name
			}
			if !flags.Changed("age") && current.Age != nil {
				in.Age = strconv.Itoa(*current.Age)
			}
			if !flags.Changed("foundation-date") && current.FoundationDate != nil {
				in.FoundationDate = *current.FoundationDate
			}
			if !flags.Changed("income") {
				in.MonthlyIncome = current.MonthlyIncome.String()
			}

			if err := a.directory.Edit(cmd.Context(), current.ID, in); err != nil {
				return reportInvalid(cmd, err)
			}

			updated, _ := a.directory.Get(current.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated client %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&in.Age, "age", "", "Age, for personal documents")
	cmd.Flags().StringVar(&in.FoundationDate, "foundation-date", "", "Foundation date DD/MM/YYYY, for organizational documents")
	cmd.Flags().StringVar(&in.MonthlyIncome, "income", "", "Monthly income")
	return cmd
}

func newClientsDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id|document>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if err := a.loadClients(cmd); err != nil {
				return err
			}
			client, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.confirm(cmd, fmt.Sprintf("Delete %s?", client.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := a.directory.Delete(cmd.Context(), client.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s\n", client.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
