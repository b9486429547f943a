package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/snpeff2maf/internal/cache"
)

func newDownloadCmd() *cobra.Command {
	var (
		assembly  string
		outputDir string
		url       string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the Genome Nexus canonical transcript table",
		Long: `Download the Genome Nexus canonical transcript table for an assembly. The
file can be passed to "snpeff2maf maf --canonical" or "snpeff2maf count --overrides".`,
		Example: `  snpeff2maf download --assembly GRCh37
  snpeff2maf download --output /data/refs`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("cannot determine home directory: %w", err)
				}
				outputDir = filepath.Join(home, configName)
			}
			destDir := filepath.Join(outputDir, strings.ToLower(assembly))
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", destDir, err)
			}
			if url == "" {
				url = cache.CanonicalFileURL(assembly)
			}

			out := cmd.ErrOrStderr()
			dest := filepath.Join(destDir, cache.CanonicalFileName())
			if info, err := os.Stat(dest); err == nil && !force {
				fmt.Fprintf(out, "%s already exists (%s), skipping\n", dest, formatSize(info.Size()))
				return nil
			}

			fmt.Fprintf(out, "Downloading canonical transcripts for %s...\n", assembly)
			if err := cache.DownloadCanonical(cmd.Context(), url, dest); err != nil {
				return err
			}
			info, err := os.Stat(dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  Done: %s (%s)\n", dest, formatSize(info.Size()))
			return nil
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "GRCh37", "Genome assembly: GRCh37 or GRCh38")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default: ~/"+configName+"/)")
	cmd.Flags().StringVar(&url, "url", "", "Download from this URL instead of Genome Nexus")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the file exists")

	return cmd
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
