package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swcatalog/pkg/report"
)

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		filters filterFlags
		refresh bool
		expand  bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a detailed report of users, licenses and installations",
		Long: `Render a plain-text report of the selected software including user
assignments, licenses and installations. The selected software is expanded
from Freshservice first unless --expand=false is given, in which case the
cached details are used.`,
		Example: `  swcatalog report --vendor adobe -o adobe.txt
  swcatalog ticket --subject "Adobe licenses" --message adobe.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.Context(), filters, refresh, expand, output)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch vendors and applications first")
	cmd.Flags().BoolVar(&expand, "expand", true, "fetch users, licenses and installations for the selection")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, filters filterFlags, refresh, expand bool, output string) error {
	s, err := c.newSession()
	if err != nil {
		return err
	}
	reg, err := c.loadCatalog(ctx, s, refresh)
	if err != nil {
		return err
	}
	sel, err := filters.resolve(reg)
	if err != nil {
		return err
	}
	if expand {
		if _, err := c.expand(ctx, s, reg, sel); err != nil {
			return err
		}
	}

	sel.Detailed = true
	if output == "" {
		return report.Render(c.Out, reg, sel)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, reg, sel); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", output, err)
	}
	printSuccess("Report written")
	printFile(output)
	printNextStep("File as ticket", appName+" ticket --message "+output)
	return nil
}
