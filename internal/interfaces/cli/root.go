// Package cli implements ledgerctl, the command line client that runs the
// ledger reports directly against the database.
package cli

import (
	"context"
	"errors"
	"fmt"

	reportapp "github.com/erp/ledgerreport/internal/application/report"
	"github.com/erp/ledgerreport/internal/bootstrap"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/erp/ledgerreport/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MatrixReporter runs the account by cost center matrices
type MatrixReporter interface {
	AccountByCostCenter(ctx context.Context, filter report.MatrixFilter) (*report.Result, error)
	CostCenterByAccount(ctx context.Context, filter report.MatrixFilter) (*report.Result, error)
}

// ProjectBalanceReporter runs the project balance statement
type ProjectBalanceReporter interface {
	Execute(ctx context.Context, filter report.ProjectBalanceFilter) (*report.Result, error)
}

// Reporters are the services a report command runs against. Close releases
// their connections.
type Reporters struct {
	Matrix         MatrixReporter
	ProjectBalance ProjectBalanceReporter
	Close          func() error
}

// ReportersFactory builds the report services from configuration
type ReportersFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Reporters, error)

// ConfigLoader loads configuration from path; an empty path uses the default search
type ConfigLoader func(path string) (*config.Config, error)

// Option configures the root command
type Option func(*app)

// WithConfigLoader replaces config.LoadFile
func WithConfigLoader(load ConfigLoader) Option {
	return func(a *app) { a.loadConfig = load }
}

// WithReportersFactory replaces the database backed report services
func WithReportersFactory(f ReportersFactory) Option {
	return func(a *app) { a.newReporters = f }
}

type app struct {
	loadConfig   ConfigLoader
	newReporters ReportersFactory

	configPath    string
	format        string
	lang          string
	markdownStyle string
	verbose       bool

	renderer Renderer
	cfg      *config.Config
}

// NewRootCommand creates the ledgerctl command with all subcommands registered
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	a := &app{
		loadConfig:   config.LoadFile,
		newReporters: DatabaseReporters,
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:     "ledgerctl",
		Short:   "Run ledger balance reports from the command line",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(a.format)
			if err != nil {
				return err
			}
			a.renderer = Renderer{Format: format, MarkdownStyle: a.markdownStyle}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to config.toml (default: search ., ./config and /app)")
	flags.StringVarP(&a.format, "format", "o", string(FormatTable), "output format: table, markdown, json or csv")
	flags.StringVar(&a.lang, "lang", "", "label language, such as fr or ar (default: report.default_language)")
	flags.StringVar(&a.markdownStyle, "markdown-style", "", "glamour style for markdown output: dark, light, notty or ascii")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log database and cache activity to stderr")

	rootCmd.AddCommand(
		newAccountCostCenterCommand(a),
		newCostCenterAccountCommand(a),
		newProjectBalanceCommand(a),
		newTokenCommand(a),
	)

	return rootCmd
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := a.loadConfig(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

// logger writes to stderr so report output on stdout stays parseable
func (a *app) logger() (*zap.Logger, error) {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	return logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
}

// runReport loads the services, runs fn in the requested language and
// renders its result to the command's output
func (a *app) runReport(cmd *cobra.Command, fn func(ctx context.Context, r *Reporters) (*report.Result, error)) (err error) {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reporters, err := a.newReporters(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if reporters.Close != nil {
		defer func() { err = errors.Join(err, reporters.Close()) }()
	}

	lang := a.lang
	if lang == "" {
		lang = cfg.Report.DefaultLanguage
	}
	ctx := logger.WithContext(reportapp.WithLanguage(cmd.Context(), lang), log)

	result, err := fn(ctx, reporters)
	if err != nil {
		return err
	}
	return a.renderer.Render(cmd.OutOrStdout(), result)
}

// DatabaseReporters connects to the configured database and wires the report
// services over it
func DatabaseReporters(_ context.Context, cfg *config.Config, log *zap.Logger) (*Reporters, error) {
	db, err := bootstrap.OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	services, err := bootstrap.NewServices(db.DB, cfg, log, nil)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Reporters{
		Matrix:         services.Matrix,
		ProjectBalance: services.ProjectBalance,
		Close: func() error {
			return errors.Join(services.Close(), db.Close())
		},
	}, nil
}
