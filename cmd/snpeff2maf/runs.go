package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inodb/snpeff2maf/internal/duckdb"
)

func newRunsCmd() *cobra.Command {
	var (
		dbPath string
		remove []string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List or delete count runs stored in a DuckDB database",
		Example: `  snpeff2maf runs --db counts.duckdb
  snpeff2maf runs --db counts.duckdb --delete 0b6c0d4e-...`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return &usageError{fmt.Errorf("--db is required")}
			}
			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range remove {
				if err := store.DeleteRun(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Deleted run %s\n", id)
			}
			if len(remove) > 0 {
				return nil
			}

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range runs {
				mode := "all"
				if r.HighestOnly {
					mode = "highest"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Format(time.RFC3339), mode, strings.Join(r.Inputs, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database with stored counts")
	cmd.Flags().StringSliceVar(&remove, "delete", nil, "Delete these run IDs")

	return cmd
}
