// CalcSite Pro: construction estimation in the terminal.
//
// Usage:
//
//	calcsite [--verbose] [--quiet] [command]
//
// Without a command it starts the interactive prompt.
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/calcsite/internal/assistant"
	"github.com/hammamikhairi/calcsite/internal/config"
	"github.com/hammamikhairi/calcsite/internal/display"
	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/engine"
	"github.com/hammamikhairi/calcsite/internal/formula"
	"github.com/hammamikhairi/calcsite/internal/logger"
	"github.com/hammamikhairi/calcsite/internal/metrics"
	"github.com/hammamikhairi/calcsite/internal/settings"
	"github.com/hammamikhairi/calcsite/internal/state"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}

// flags are the persistent root flags.
type flags struct {
	configPath  string
	dbPath      string
	memory      bool
	verbose     bool
	quiet       bool
	logFile     string
	noAI        bool
	metricsAddr string
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	tools   *formula.Registry
	eng     *engine.Engine
	chat    *assistant.Chat // nil when the assistant is disabled
	metrics *metrics.Prometheus
	styles  display.Styles
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	var f flags
	var a *app

	root := &cobra.Command{
		Use:           "calcsite",
		Short:         "Construction estimation: calculators, bill of quantities and an AI assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = setup(cmd.Context(), f, getenv, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), a)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.StringVar(&f.dbPath, "db", "", "state database path (default "+state.DefaultPath+")")
	pf.BoolVar(&f.memory, "memory", false, "keep state in memory only; nothing is saved")
	pf.BoolVar(&f.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&f.quiet, "quiet", false, "disable all logging")
	pf.StringVar(&f.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.BoolVar(&f.noAI, "no-ai", false, "disable the AI assistant even if keys are set")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	// Lookup via a getter so subcommands see the app built in PreRun.
	get := func() *app { return a }
	root.AddCommand(
		newToolsCmd(get),
		newCalcCmd(get),
		newBOQCmd(get),
		newRatesCmd(get),
		newCurrencyCmd(get),
		newProjectCmd(get),
		newThemeCmd(get),
		newOnboardCmd(get),
		newConvertCmd(get),
		newRefCmd(get),
		newAskCmd(get),
	)
	return root
}

// setup resolves configuration and wires the workspace.
func setup(ctx context.Context, f flags, getenv func(string) string, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(f.configPath, getenv)
	if err != nil {
		return nil, err
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.metricsAddr != "" {
		cfg.MetricsAddr = f.metricsAddr
	}

	if err := settings.ValidateCurrencies(domain.Currencies); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if f.verbose {
		level = logger.LevelVerbose
	}
	if f.quiet {
		level = logger.LevelOff
	}

	// Logs go to a file by default so the prompt stays clean.
	logOut := stderr
	if level != logger.LevelOff && cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		lf, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = lf
			a.closers = append(a.closers, lf)
		}
	}
	if level == logger.LevelOff {
		logOut = io.Discard
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	a.log = logger.New(level, logOut)

	var store domain.StateStore
	if f.memory {
		store = state.NewMemoryStore(a.log.Named("state"))
	} else {
		db, err := state.OpenSQLite(cfg.DBPath, a.log.Named("state"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db)
		store = db
	}

	a.metrics = metrics.NewPrometheus()
	a.tools = formula.NewDefault(a.log.Named("formula"))
	a.eng = engine.New(a.tools, store, a.log.Named("engine"),
		engine.WithMetrics(a.metrics),
		engine.WithProjectLedger(cfg.PerProjectLedger),
	)
	a.eng.Load(ctx)
	applyConfigDefaults(ctx, a)

	if !f.noAI && cfg.Assistant.Provider != config.ProviderNone {
		backend := newBackend(cfg.Assistant, a.log.Named("assistant"))
		a.chat = assistant.NewChat(backend, a.log.Named("chat"), assistant.WithMetrics(a.metrics))
	}

	a.styles = display.NewStyles(a.eng.Settings().Theme())
	return a, nil
}

// applyConfigDefaults pins currency and theme to the config file when it
// names them, and seeds rates the user has not customised.
func applyConfigDefaults(ctx context.Context, a *app) {
	s := a.eng.Settings()
	if a.cfg.Currency != "" && !strings.EqualFold(a.cfg.Currency, s.Currency().Code) {
		if _, err := a.eng.SetCurrency(ctx, a.cfg.Currency); err != nil {
			a.log.Warn("config currency: %v", err)
		}
	}
	if a.cfg.Theme != "" && a.cfg.Theme != s.Theme() {
		if err := a.eng.SetTheme(ctx, a.cfg.Theme); err != nil {
			a.log.Warn("config theme: %v", err)
		}
	}
	defaults := domain.DefaultRates()
	current := s.Rates()
	for k, v := range a.cfg.Rates {
		if current[k] != defaults[k] {
			continue // user already customised it
		}
		if _, err := a.eng.SetRate(ctx, k, fmt.Sprint(v)); err != nil {
			a.log.Warn("config rate %s: %v", k, err)
		}
	}
}

func newBackend(c config.Assistant, log *logger.Logger) domain.Assistant {
	opts := []assistant.Option{
		assistant.WithTemperature(c.Temperature),
		assistant.WithTimeout(c.TimeoutDuration()),
	}
	if c.Model != "" {
		opts = append(opts, assistant.WithModel(c.Model))
	}
	if c.Provider == config.ProviderOpenAI {
		return assistant.NewOpenAI(c.Endpoint, c.APIKey, log, opts...)
	}
	if c.Endpoint != "" {
		opts = append(opts, assistant.WithEndpoint(c.Endpoint))
	}
	return assistant.NewGemini(c.APIKey, log, opts...)
}
