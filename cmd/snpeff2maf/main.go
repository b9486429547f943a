// Package main provides the snpeff2maf command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/snpeff2maf/internal/transcript"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitFormat      = 3
	ExitLookup      = 4
	ExitConsistency = 5
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".snpeff2maf"
	envPrefix  = "SNPEFF2MAF"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// usageError marks errors caused by bad command-line arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var (
		ue *usageError
		fe *vcf.FormatError
		le *vcf.LookupError
		ce *transcript.ConsistencyError
	)
	switch {
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &fe):
		return ExitFormat
	case errors.As(err, &le):
		return ExitLookup
	case errors.As(err, &ce):
		return ExitConsistency
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	}
	return ExitError
}

// checkArgs wraps a positional argument validator so its failures are usage errors.
func checkArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "snpeff2maf",
		Short: "Convert SnpEff-annotated somatic VCFs to MAF",
		Long: `snpeff2maf reads VCF files annotated by SnpEff (EFF= INFO field), resolves
tumor and normal genotypes and writes TCGA MAF rows. It can also count
effects per transcript across many VCFs and select one transcript per gene.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/"+configName+".yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	logger := func() (*zap.Logger, error) {
		return newLogger(verbose)
	}

	cmd.AddCommand(newMAFCmd(logger))
	cmd.AddCommand(newCountCmd(logger))
	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads the config file and environment into viper. A missing
// default config file is not an error.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", configPath(cfgFile), err)
	}
	return nil
}

func configPath(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, configName+".yaml")
}

// newLogger builds a stderr logger at info level, or debug when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
