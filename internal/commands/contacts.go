package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/model"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newContactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage clients and suppliers",
	}
	cmd.AddCommand(newContactsListCommand(), newContactsAddCommand())
	return cmd
}

func newContactsListCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				cs := ws.Contacts.All()
				if kind != "" {
					cs = ws.Contacts.ByKind(model.ContactKind(kind))
				}
				out := cmd.OutOrStdout()
				for _, c := range cs {
					fmt.Fprintf(out, "%-36s %-8s %-30s %s\n", c.ID, c.Kind, c.Name, c.Email)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "client or supplier")
	return cmd
}

func newContactsAddCommand() *cobra.Command {
	var c model.Contact
	var kind string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client or supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Kind = model.ContactKind(kind)
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				added, err := ws.Contacts.Add(c)
				if err != nil {
					return err
				}
				if err := ws.SaveContacts(); err != nil {
					return err
				}
				if _, err := ws.Record(cmd.Context(), activity.ActionContactAdd, string(added.Kind)+" "+added.Name, ""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), added.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "contact name (required)")
	cmd.Flags().StringVar(&kind, "kind", "", "client or supplier (required)")
	cmd.Flags().StringVar(&c.Email, "email", "", "email address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&c.Address, "address", "", "postal address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
