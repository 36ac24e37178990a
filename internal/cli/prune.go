package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
)

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var (
		filters filterFlags
		all     bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete applications without users, installations or licenses",
		Long: `Delete applications that have no users, no installations and no licenses.

The selected applications are expanded first so the decision is based on
current data. Deletion stops at the first application Freshservice refuses
to delete. Use --all to consider every application.`,
		Example: `  swcatalog prune --vendor adobe --dry-run
  swcatalog prune --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filters.empty() && !all {
				return errs.New(errs.ErrCodeInvalidInput, "select applications with --vendor/--software or pass --all")
			}
			return c.runPrune(cmd.Context(), filters, dryRun)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "consider every application")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list what would be deleted")

	return cmd
}

func (c *CLI) runPrune(ctx context.Context, filters filterFlags, dryRun bool) error {
	s, err := c.newSession()
	if err != nil {
		return err
	}
	reg, err := c.loadCatalog(ctx, s, false)
	if err != nil {
		return err
	}
	sel, err := filters.resolve(reg)
	if err != nil {
		return err
	}
	if _, err := c.expand(ctx, s, reg, sel); err != nil {
		return err
	}

	ids, all := softwareIDs(reg, sel)
	if !all && len(ids) == 0 {
		printInfo("Nothing selected")
		return nil
	}

	res, err := s.runner.Prune(ctx, reg, ids, dryRun)
	switch {
	case dryRun:
		printInfo("%d of %d applications would be deleted", len(res.Deleted), len(res.Deleted)+res.InUse)
	case len(res.Deleted) > 0:
		printSuccess("Deleted %d applications", len(res.Deleted))
	default:
		printInfo("No unused applications")
	}
	for _, id := range res.Deleted {
		printDetail("%s", id)
	}
	if err != nil {
		printWarning("Stopped after %d deletions", len(res.Deleted))
	}
	return err
}
