package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swcatalog/internal/config"
	"github.com/matzehuels/swcatalog/pkg/ticket"
)

// ticketCommand creates the ticket command.
func (c *CLI) ticketCommand() *cobra.Command {
	var (
		subject string
		message string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Open a Freshservice ticket",
		Long: `Open a Freshservice ticket. --message is either a path to a file, such as
a report written with "report -o", or the ticket text itself. Requester,
department, group and category come from the FRESH_DEFAULT_* settings.`,
		Example: `  swcatalog ticket --subject "Unused Adobe licenses" --message adobe.txt
  swcatalog ticket --message "Please review" --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTicket(cmd.Context(), subject, message, dryRun)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "ticket subject (default FRESH_DEFAULT_SUBJECT)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "file to send, or the ticket text itself")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the ticket JSON instead of sending it")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func (c *CLI) runTicket(ctx context.Context, subject, message string, dryRun bool) error {
	if dryRun {
		cfg, err := config.Load(c.env)
		if err != nil {
			return err
		}
		t, err := ticket.Build(subject, message, ticketDefaults(cfg))
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Out, string(data))
		return err
	}

	s, err := c.newSession()
	if err != nil {
		return err
	}
	t, err := ticket.Build(subject, message, ticketDefaults(s.cfg))
	if err != nil {
		return err
	}

	created, err := s.client.CreateTicket(ctx, t)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("ticket created", "id", created.ID, "subject", created.Subject)
	printSuccess("Created ticket #%s", created.ID)
	printDetail("%s", t.Subject)
	return nil
}

func ticketDefaults(cfg *config.Config) ticket.Defaults {
	return ticket.Defaults{
		Email:        cfg.ContactEmail,
		DepartmentID: cfg.DeptID,
		GroupID:      cfg.GroupID,
		Category:     cfg.Category,
		Subject:      cfg.Subject,
		WorkspaceID:  cfg.WorkspaceID,
	}
}
