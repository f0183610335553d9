package cli

import (
	"fmt"
	"io"
	"strings"

	"comptree/internal/core/config"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	configPath    string
	depth         int
	basePath      string
	hideTruncated bool
	format        string
	outputPath    string
	extractor     string
	watch         bool
	ui            bool
	history       bool
	historyTSV    string
	historyJSON   string
	noColor       bool
	verbose       bool
	version       bool
	args          []string

	// changed records which flags were set explicitly, so that only those
	// override the config file.
	changed map[string]bool
}

var overridableFlags = []string{"depth", "base-path", "extractor", "hide-truncated", "format", "output"}

// newRootCommand builds the comptree command. run receives the parsed options
// and returns the process exit code.
func newRootCommand(run func(cliOptions) int, exitCode *int) *cobra.Command {
	opts := cliOptions{depth: 1}

	cmd := &cobra.Command{
		Use:   "comptree [flags] <component-file>...",
		Short: "Show the local import tree of React/TypeScript components",
		Long: `comptree follows the relative imports of a component file and prints the
resulting dependency tree with line counts and a size summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("requires at least one component file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args
			opts.changed = make(map[string]bool)
			for _, name := range overridableFlags {
				opts.changed[name] = cmd.Flags().Changed(name)
			}
			*exitCode = run(opts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.depth, "depth", "d", opts.depth, "Number of dependency levels to expand below the root (>= 1)")
	flags.StringVar(&opts.basePath, "base-path", "", "Base path for display paths (default: nearest src/ or frontend/ ancestor)")
	flags.BoolVar(&opts.hideTruncated, "hide-truncated", false, "Hide the indicator on files with unexpanded dependencies")
	flags.StringVar(&opts.configPath, "config", "", "Path to a TOML config file (default: ./comptree.toml when present)")
	flags.StringVarP(&opts.format, "format", "f", config.FormatTree, "Output format (tree, json, dot, mermaid, tsv)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "Write the report to this file instead of stdout")
	flags.StringVar(&opts.extractor, "extractor", config.ExtractorRegex, "Import extractor (regex, treesitter)")
	flags.BoolVar(&opts.watch, "watch", false, "Re-run the analysis whenever a source file changes")
	flags.BoolVar(&opts.ui, "ui", false, "Show results in a terminal UI (implies --watch)")
	flags.BoolVar(&opts.history, "history", false, "Record a snapshot of each run and show the trend")
	flags.StringVar(&opts.historyTSV, "history-tsv", "", "Write the trend report as TSV to this path (requires --history)")
	flags.StringVar(&opts.historyJSON, "history-json", "", "Write the trend report as JSON to this path (requires --history)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.version, "version", false, "Print version and exit")

	return cmd
}

// parseOptions parses args without running anything.
func parseOptions(args []string) (cliOptions, error) {
	var parsed cliOptions
	code := 0
	cmd := newRootCommand(func(opts cliOptions) int {
		parsed = opts
		return 0
	}, &code)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return cliOptions{}, err
	}
	return parsed, nil
}

// applyOptions layers explicitly set flags over cfg and validates the result.
func applyOptions(opts cliOptions, cfg *config.Config) error {
	if opts.changed["depth"] {
		cfg.Analysis.Depth = opts.depth
	}
	if opts.changed["base-path"] {
		cfg.Analysis.BasePath = opts.basePath
	}
	if opts.changed["extractor"] {
		cfg.Analysis.Extractor = strings.ToLower(strings.TrimSpace(opts.extractor))
	}
	if opts.changed["hide-truncated"] {
		cfg.Output.HideTruncated = opts.hideTruncated
	}
	if opts.changed["format"] {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if opts.changed["output"] {
		cfg.Output.Path = opts.outputPath
	}
	if opts.noColor {
		cfg.Output.Color = config.ColorNever
	}
	if opts.history {
		cfg.History.Enabled = true
	}
	return config.Validate(cfg)
}

func validateModeCompatibility(opts cliOptions, cfg *config.Config) error {
	if (opts.historyTSV != "" || opts.historyJSON != "") && !cfg.History.Enabled {
		return fmt.Errorf("--history-tsv/--history-json require --history")
	}
	if opts.ui && strings.TrimSpace(cfg.Output.Path) != "" {
		return fmt.Errorf("--ui cannot be combined with --output")
	}
	return nil
}
