package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/cache"
	"github.com/matzehuels/geomkit/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached scene and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			cleared, err := cache.Clear(ctx, store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !cleared {
				printWarning("The %s cache cannot be cleared", c.Config.Cache.Backend)
				return nil
			}

			printSuccess("Cleared %s cache", c.Config.Cache.Backend)
			if loc := c.cacheLocation(); loc != "" {
				printDetail("Location: %s", loc)
			}
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file or sqlite cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			n, ok, err := cache.Prune(ctx, store)
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			if !ok {
				printInfo("The %s cache expires entries on its own", c.Config.Cache.Backend)
				return nil
			}
			printSuccess("Removed %d expired entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				return fmt.Errorf("the %s cache has no location", c.Config.Cache.Backend)
			}
			fmt.Println(loc)
			return nil
		},
	}
}

// cacheLocation is the directory, database file or URL of the configured
// backend.
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNull:
		return ""
	case config.CacheRedis, config.CacheMongo:
		return cfg.URL
	case config.CacheSQLite:
		if cfg.Path != "" {
			return cfg.Path
		}
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return ""
		}
		dir = d
	}
	if cfg.Backend == config.CacheSQLite {
		return filepath.Join(dir, "cache.sqlite")
	}
	return dir
}
