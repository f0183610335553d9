package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "comptree/internal/core/app"
	"comptree/internal/core/config"
	"comptree/internal/core/errors"
	"comptree/internal/core/ports"
	"comptree/internal/output"
	"comptree/internal/shared/observability"
	"comptree/internal/shared/util"
	"comptree/internal/shared/version"
)

// Run executes the comptree command line and returns the process exit code.
func Run(args []string) int {
	return runWith(args, coreAnalysisFactory{}, os.Stdout, os.Stderr)
}

func runWith(args []string, factory analysisFactory, stdout, stderr io.Writer) int {
	code := 0
	cmd := newRootCommand(func(opts cliOptions) int {
		return run(opts, factory, stdout, stderr)
	}, &code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Run 'comptree --help' for usage.")
		return 1
	}
	return code
}

func run(opts cliOptions, factory analysisFactory, stdout, stderr io.Writer) int {
	if opts.version {
		fmt.Fprintf(stdout, "comptree %s\n", version.Version)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose, stderr)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	config.LoadDotEnv()
	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)
	if err := applyOptions(opts, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := validateModeCompatibility(opts, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		SampleRate:     cfg.Observability.SampleRate,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	analysis, err := initializeAnalysis(cfg, factory)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize analysis: %v\n", err)
		return 1
	}
	defer analysis.Close()

	colorTarget := io.Writer(stdout)
	if strings.TrimSpace(cfg.Output.Path) != "" {
		colorTarget = io.Discard
	}
	analysis.SetColor(output.ColorEnabled(cfg.Output.Color, colorTarget))

	if addr := strings.TrimSpace(cfg.Observability.MetricsAddr); addr != "" {
		health := coreapp.NewHealthService(analysis)
		srv := observability.NewServer(addr)
		srv.SetHealthCheck(func(ctx context.Context) any { return health.Check(ctx) })
		if err := srv.Start(); err != nil {
			slog.Error("failed to start observability server", "addr", addr, "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	if opts.ui || opts.watch {
		stopConfig, err := analysis.WatchConfig(ctx, cfgPath, func(next *config.Config) error {
			return applyOptions(opts, next)
		})
		if err != nil {
			slog.Warn("config hot reload disabled", "path", cfgPath, "error", err)
		} else {
			defer stopConfig()
		}
	}

	if opts.ui {
		if err := runUI(ctx, analysis, opts.args); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	if opts.watch {
		analysis.SetUpdateHandler(func(update coreapp.Update) {
			printWatchUpdate(analysis, update, stdout, stderr)
		})
		if err := analysis.Watch(ctx, opts.args); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	results, runErr := analysis.AnalyzeBatch(ctx, opts.args)
	analyzed := make([]ports.AnalysisResult, 0, len(results))
	for _, result := range results {
		if result.Err == nil && result.Root != nil {
			analyzed = append(analyzed, result)
		}
	}
	if err := analysis.WriteResults(analyzed, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := writeTrendExports(opts, analyzed); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if runErr != nil {
		reportRunError(stderr, results, runErr)
		return 1
	}
	return 0
}

func printWatchUpdate(analysis *coreapp.App, update coreapp.Update, stdout, stderr io.Writer) {
	if update.Err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", update.Err)
	}
	analyzed := make([]ports.AnalysisResult, 0, len(update.Results))
	for _, result := range update.Results {
		if result.Err == nil && result.Root != nil {
			analyzed = append(analyzed, result)
		}
	}
	fmt.Fprintf(stdout, "\n[%s] re-analyzed %d component(s)\n", update.At.Format("15:04:05"), len(analyzed))
	if err := analysis.WriteResults(analyzed, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
}

func reportRunError(stderr io.Writer, results []ports.AnalysisResult, runErr error) {
	reported := false
	for _, result := range results {
		if result.Err == nil {
			continue
		}
		reported = true
		if errors.IsCode(result.Err, errors.CodeNotFound) {
			fmt.Fprintf(stderr, "Error: file not found: %s\n", result.Component)
			continue
		}
		fmt.Fprintf(stderr, "Error: %s: %v\n", result.Component, result.Err)
	}
	if !reported {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
	}
}

// writeTrendExports writes the trend of each analyzed root to the
// --history-tsv/--history-json targets. With several roots the root's file
// name is inserted before the extension.
func writeTrendExports(opts cliOptions, results []ports.AnalysisResult) error {
	if opts.historyTSV == "" && opts.historyJSON == "" {
		return nil
	}
	withTrend := make([]ports.AnalysisResult, 0, len(results))
	for _, result := range results {
		if result.Trend != nil {
			withTrend = append(withTrend, result)
		}
	}

	for _, result := range withTrend {
		if opts.historyTSV != "" {
			data, err := output.RenderTrendTSV(*result.Trend)
			if err != nil {
				return err
			}
			if err := util.WriteFileWithDirs(trendPath(opts.historyTSV, result, len(withTrend)), data, 0o644); err != nil {
				return fmt.Errorf("write trend TSV: %w", err)
			}
		}
		if opts.historyJSON != "" {
			data, err := output.RenderTrendJSON(*result.Trend)
			if err != nil {
				return err
			}
			if err := util.WriteFileWithDirs(trendPath(opts.historyJSON, result, len(withTrend)), data, 0o644); err != nil {
				return fmt.Errorf("write trend JSON: %w", err)
			}
		}
	}
	return nil
}

func trendPath(target string, result ports.AnalysisResult, count int) string {
	if count <= 1 {
		return target
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
	return strings.TrimSuffix(target, ext) + "." + stem + ext
}

// loadConfig loads path when given. Otherwise the first existing default
// location is used, falling back to built-in defaults.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) != "" {
		resolved := config.ResolveRelative(cwd, path)
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, "", err
		}
		return cfg, resolved, nil
	}

	for _, candidate := range discoverDefaultConfig(cwd) {
		cfg, err := config.Load(candidate)
		if err == nil {
			slog.Debug("using config file", "path", candidate)
			return cfg, candidate, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return nil, "", err
	}
	return config.DefaultConfig(), "", nil
}

func discoverDefaultConfig(cwd string) []string {
	return []string{
		filepath.Clean(filepath.Join(cwd, "comptree.toml")),
		filepath.Clean(filepath.Join(cwd, ".comptree.toml")),
	}
}

func configureLogging(uiMode, verbose bool, stderr io.Writer) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	// Reports go to stdout, so logs stay on stderr.
	logOut := stderr
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
			logOut = io.Discard
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			logOut = io.Discard
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				logOut = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				logOut = io.Discard
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "comptree", "comptree.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "comptree", "comptree.log")
	}
	return filepath.Join(os.TempDir(), "comptree.log")
}
