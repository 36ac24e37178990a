package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/report"
)

// vendorsCommand creates the vendors command.
func (c *CLI) vendorsCommand() *cobra.Command {
	var (
		filter  []string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List vendors",
		Example: `  swcatalog vendors
  swcatalog vendors --filter micro --filter adobe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVendors(cmd.Context(), filter, refresh)
		},
	}

	cmd.Flags().StringSliceVar(&filter, "filter", nil, "vendor name filter (case-insensitive substring, repeatable)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch from Freshservice instead of using the cache")

	return cmd
}

func (c *CLI) runVendors(ctx context.Context, filter []string, refresh bool) error {
	s, err := c.newSession()
	if err != nil {
		return err
	}
	reg, err := c.loadCatalog(ctx, s, refresh)
	if err != nil {
		return err
	}

	var ids []string
	if len(filter) > 0 {
		ids = reg.FilterVendors(filter)
		if len(ids) == 0 {
			return errs.New(errs.ErrCodeNotFound, "no vendor matches %v", filter)
		}
	}
	return report.Vendors(c.Out, reg, ids)
}

// softwareCommand creates the software command.
func (c *CLI) softwareCommand() *cobra.Command {
	var (
		filters filterFlags
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "software",
		Short: "List software grouped by vendor",
		Long: `List software grouped by vendor.

Without filters every vendor is listed with all of its software. --vendor
limits the listing to matching vendors; adding --software limits each vendor
to matching software. --software alone prints one line per matching software
with its vendor.`,
		Example: `  swcatalog software --vendor adobe
  swcatalog software --software "visual studio"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSoftware(cmd.Context(), filters, refresh)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch from Freshservice instead of using the cache")

	return cmd
}

func (c *CLI) runSoftware(ctx context.Context, filters filterFlags, refresh bool) error {
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
	return report.Render(c.Out, reg, sel)
}
