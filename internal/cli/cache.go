package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/histochart/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cache of converted PNG and PDF files",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func openCache() (*cache.FileCache, bool, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, false, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, err == nil, err
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := openCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo(c.out, "Cache is empty")
				return nil
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess(c.out, "Cleared %d cached entries", n)
			printDetail(c.out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := openCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo(c.out, "Cache is empty")
				return nil
			}
			n, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue(c.out, "Directory", fc.Dir())
			printKeyValue(c.out, "Entries", fmt.Sprint(n))
			printKeyValue(c.out, "Size", formatBytes(size))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
