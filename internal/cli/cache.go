package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/swcatalog/internal/config"
	"github.com/matzehuels/swcatalog/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local catalog snapshot",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached vendor and software snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.env)
			if err != nil {
				return err
			}
			paths := cachePaths(cfg)
			if err := cache.NewFileStore(paths, nil).Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cleared catalog snapshot")
			for _, kind := range cache.Kinds {
				printFile(paths.For(kind))
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.env)
			if err != nil {
				return err
			}
			paths := cachePaths(cfg)
			for _, kind := range cache.Kinds {
				printKeyValue(kind.String(), paths.For(kind))
			}
			return nil
		},
	}
}
