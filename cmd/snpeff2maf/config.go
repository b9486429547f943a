package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/snpeff2maf/internal/output"
	"github.com/inodb/snpeff2maf/internal/snpeff"
)

// Config keys
const (
	keyCenter          = "maf.center"
	keyNCBIBuild       = "maf.ncbi_build"
	keySequenceSource  = "maf.sequence_source"
	keySequencer       = "maf.sequencer"
	keyMAFWorkers      = "maf.workers"
	keyEffectsPriority = "effects.priority"
	keyCountWorkers    = "count.workers"
)

func setDefaults() {
	d := output.DefaultOptions()
	viper.SetDefault(keyCenter, d.Center)
	viper.SetDefault(keyNCBIBuild, d.NCBIBuild)
	viper.SetDefault(keySequenceSource, d.SequenceSource)
	viper.SetDefault(keySequencer, d.Sequencer)
	viper.SetDefault(keyMAFWorkers, 0)
	viper.SetDefault(keyCountWorkers, 0)
}

// mafOptions returns the configured constant MAF column values.
func mafOptions() output.Options {
	return output.Options{
		Center:         viper.GetString(keyCenter),
		NCBIBuild:      viper.GetString(keyNCBIBuild),
		SequenceSource: viper.GetString(keySequenceSource),
		Sequencer:      viper.GetString(keySequencer),
	}
}

// priorityTable returns the configured effect priority order, or the
// built-in SnpEff order when none is set.
func priorityTable() *snpeff.PriorityTable {
	order := viper.GetStringSlice(keyEffectsPriority)
	if len(order) == 0 {
		return snpeff.DefaultPriorityTable()
	}
	return snpeff.NewPriorityTable(order)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage snpeff2maf configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/" + configName + ".yaml.",
		Example: `  snpeff2maf config                             # show all config
  snpeff2maf config set maf.center broad.mit.edu  # set the MAF Center column
  snpeff2maf config get maf.ncbi_build            # get a value`,
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  checkArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if viper.ConfigFileUsed() == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# No config file found, showing defaults. Config file: ~/%s.yaml\n", configName)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	switch key {
	case keyMAFWorkers, keyCountWorkers:
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n < 0 {
			return &usageError{fmt.Errorf("%s must be a non-negative integer, got %q", key, value)}
		}
		viper.Set(key, n)
	case keyEffectsPriority:
		viper.Set(key, splitList(value))
	default:
		viper.Set(key, value)
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if !viper.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), viper.Get(key))
	return nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}
