package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/lockstep/config"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string

	app *app
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lockstep",
		Short: "Evaluate lazy multi-source map iterators",
		Long: `lockstep applies a function to the values of several sequences taken in
lockstep, stopping as soon as the shortest sequence is exhausted.`,
		Example: `  $ lockstep run add 1,2,3 10,20
  $ lockstep doc map
  $ lockstep serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadOpts := []config.LoaderOption{}
			if opts.configFile != "" {
				loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
			}
			if opts.envFile != "" {
				loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
			}
			cfg, err := config.Load(loadOpts...)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.Logging.Format = opts.logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if opts.app != nil {
				opts.app.close(cmd.Context())
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to config.yml")
	flags.StringVar(&opts.envFile, "env-file", "", "path to a .env file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		newRunCmd(opts),
		newDocCmd(opts),
		newTypesCmd(opts),
		newFunctionsCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}
