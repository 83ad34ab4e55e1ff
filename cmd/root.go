package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"scopejs/config"
	"scopejs/eval"
)

// Input contains the input for the root command
type Input struct {
	configPath string
	verbose    bool
	strict     bool
	eval       []string

	cfg    *config.Config
	logger *log.Logger
}

// options turns the flags and the config file into evaluation options.
func (i *Input) options(cmd *cobra.Command) []eval.Option {
	return []eval.Option{
		eval.WithLogger(i.logger),
		eval.WithStrict(i.strict || i.cfg.Strict),
		eval.WithGlobals(i.cfg.Globals),
		eval.WithOutput(cmd.OutOrStdout()),
	}
}

func (i *Input) addRunFlags(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&i.eval, "eval", "e", nil, "evaluate inline source after the files")
}

// Execute is the entry point to running the CLI
func Execute(ctx context.Context, version string) {
	rootCmd := createRootCommand(ctx, &Input{}, version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scopejs:", err)
		os.Exit(1)
	}
}

func createRootCommand(ctx context.Context, input *Input, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "scopejs",
		Short:             "Run scripts with ES5 style scoping, or start a REPL when no command is given.",
		Args:              cobra.NoArgs,
		RunE:              newReplCommand(ctx, input, version),
		PersistentPreRunE: setupInput(input),
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.PersistentFlags().StringVarP(&input.configPath, "config", "c", "", "path to config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&input.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&input.strict, "strict", false, "evaluate all code in strict mode")

	runCmd := &cobra.Command{
		Use:   "run [FILE...]",
		Short: "Run script files in one global scope, in order",
		RunE:  newRunCommand(ctx, input),
	}
	input.addRunFlags(runCmd.Flags())

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE:  newReplCommand(ctx, input, version),
	}
	rootCmd.AddCommand(runCmd, replCmd)
	return rootCmd
}

func setupInput(input *Input) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(input.configPath)
		if err != nil {
			return err
		}
		input.cfg = cfg
		input.logger = log.New()
		input.logger.SetOutput(cmd.ErrOrStderr())
		input.logger.SetLevel(cfg.Level())
		if input.verbose {
			input.logger.SetLevel(log.DebugLevel)
		}
		input.logger.WithField("config", input.configPath).Debug("loaded config")
		return nil
	}
}
