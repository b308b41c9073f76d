package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/txlink/engine"
	"github.com/npillmayer/txlink/link"
	"github.com/npillmayer/txlink/manifest"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd(&options{run: engine.ExecRunner}).ExecuteContext(ctx)
	stop()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// options are shared by all sub-commands.
type options struct {
	manifest string
	trace    string
	run      engine.Runner // runs the textX engine
}

func (opts *options) textX() *engine.TextX {
	tx := engine.NewTextX()
	if opts.run != nil {
		tx.Run = opts.run
	}
	return tx
}

func (opts *options) loadManifest() (*manifest.Manifest, error) {
	m := manifest.Default()
	if opts.manifest != "" {
		var err error
		if m, err = manifest.Load(opts.manifest); err != nil {
			return nil, err
		}
	}
	return m.ApplyGlobal(), nil
}

func (opts *options) setTraceLevel() {
	level := tracing.TraceLevelFromString(opts.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func rootCmd(opts *options) *cobra.Command {
	var watch, verify bool
	cmd := &cobra.Command{
		Use:   "txlink [root]",
		Short: "Link modular textX grammars into one grammar",
		Long: `Link modular textX grammars into one grammar.

txlink reads the modules listed in the manifest, in manifest order, collects
the alternatives of all 'extend <Rule>:' blocks, and writes a consolidated
grammar which textX compiles directly.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.setTraceLevel()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) > 0 {
				root = args[0]
			}
			m, err := opts.loadManifest()
			if err != nil {
				return err
			}
			if watch {
				return runWatch(cmd, root, m)
			}
			res, err := link.Build(root, m)
			if err != nil {
				return err
			}
			reportWarnings(res)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote consolidated grammar to %s\n", res.Path)
			if verify {
				return opts.textX().CompileGrammar(cmd.Context(), res.Path)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.manifest, "manifest", "", "manifest file (.yaml, .yml or .hcl)")
	cmd.PersistentFlags().StringVar(&opts.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild whenever a module changes")
	cmd.Flags().BoolVar(&verify, "verify", false, "compile the consolidated grammar with textX")
	cmd.AddCommand(checkCmd(opts), inspectCmd(opts))
	return cmd
}

func runWatch(cmd *cobra.Command, root string, m *manifest.Manifest) error {
	pterm.Info.Println("Watching modules, quit with <ctrl>C")
	return link.Watch(cmd.Context(), root, m, func(res *link.Result, err error) {
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		reportWarnings(res)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote consolidated grammar to %s\n", res.Path)
	})
}

func reportWarnings(res *link.Result) {
	for _, rule := range res.Document.Unregistered {
		pterm.Warning.Println(fmt.Sprintf("rule %s is not extendable, its contributions are ignored", rule))
	}
	for _, name := range res.Unlisted {
		pterm.Warning.Println(fmt.Sprintf("%s is not listed in the manifest", name))
	}
}

func checkCmd(opts *options) *cobra.Command {
	tx := opts.textX()
	cmd := &cobra.Command{
		Use:   "check GRAMMAR [MODEL]",
		Short: "Compile a grammar with textX, optionally parsing a model",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if len(args) == 2 {
				err = tx.ParseModel(cmd.Context(), args[0], args[1])
			} else {
				err = tx.CompileGrammar(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			pterm.Success.Println("Model OK.")
			return nil
		},
	}
	cmd.Flags().StringVar(&tx.Python, "python", tx.Python, "Python interpreter with textX installed")
	cmd.Flags().BoolVar(&tx.Mode.IgnoreCase, "ignore-case", tx.Mode.IgnoreCase, "match keywords case-insensitively")
	cmd.Flags().BoolVar(&tx.Mode.Debug, "debug", tx.Mode.Debug, "textX debug output")
	return cmd
}
