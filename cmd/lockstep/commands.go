package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/lockstep/catalog"
	"github.com/kbukum/lockstep/inspect"
	"github.com/kbukum/lockstep/mapiter"
	"github.com/kbukum/lockstep/runner"
	"github.com/kbukum/lockstep/validation"
	"github.com/kbukum/lockstep/version"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		typeName string
		limit    int
		asJSON   bool
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "run FUNC [LIST...]",
		Short: "Evaluate a map of FUNC over comma-separated lists",
		Long: `Evaluate a map of FUNC over the given lists and print each produced value.

Each LIST is a comma-separated sequence; integers and floats are parsed as
numbers, blank fields are skipped and everything else is kept as a string.
With --raw every LIST is iterated by character. With no LIST the map
never exhausts and stops at --limit or eval.max_steps.`,
		Example: `  $ lockstep run add 1,2,3 10,20
  $ lockstep run concat --raw abc xyz
  $ lockstep run count --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			iterables := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				if raw {
					iterables = append(iterables, charSource(ctx, arg))
					continue
				}
				iterables = append(iterables, listSource(ctx, arg))
			}
			req := runner.Request{Type: typeName, Fn: args[0], Iterables: iterables, Limit: limit}
			out := cmd.OutOrStdout()

			if asJSON {
				outcome, err := root.app.runner.Run(ctx, req)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}

			outcome, err := root.app.runner.Stream(ctx, req, func(_ context.Context, v any) error {
				_, err := fmt.Fprintln(out, formatValue(v))
				return err
			})
			if err != nil {
				return err
			}
			if outcome.LimitReached {
				root.app.log.Info("Stopped at step limit", map[string]interface{}{
					"limit": len(outcome.Values),
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", mapiter.TypeName, "builtin type to construct")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of values (0 uses eval.max_steps)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full outcome as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "iterate each LIST by character")
	return cmd
}

func newDocCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doc [TYPE]",
		Short: "Print the documentation of a builtin type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := mapiter.TypeName
			if len(args) == 1 {
				name = args[0]
			}
			doc, err := root.app.registry.Doc(name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
			return err
		},
	}
}

func newTypesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered builtin types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSLOTS\tSUMMARY")
			for _, info := range root.app.registry.Infos() {
				summary, _, _ := strings.Cut(info.Doc, "\n")
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, strings.Join(info.Slots, ","), summary)
			}
			return w.Flush()
		},
	}
}

func newFunctionsCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the named functions usable with run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range catalog.Entries() {
				fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Doc)
			}
			return w.Flush()
		},
	}
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspect HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := root.app
			cfg := a.cfg.Inspect
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			err := validation.New().
				Required("inspect.host", cfg.Host).
				Range("inspect.port", cfg.Port, 0, 65535).
				Err()
			if err != nil {
				return err
			}

			srv, err := inspect.New(cfg, a.cfg.Name, a.registry, a.runner, a.log)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inspect API listening on http://%s\n", srv.Addr())

			<-ctx.Done()
			return srv.Stop(context.WithoutCancel(ctx))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides inspect.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides inspect.port)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "lockstep "+version.GetVersionInfo().String())
			return err
		},
	}
}
