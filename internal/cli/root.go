// Package cli implements the abcctl command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/abcboard/internal/adapters/ingest"
	"github.com/okian/abcboard/internal/adapters/report"
	app "github.com/okian/abcboard/internal/app"
	"github.com/okian/abcboard/internal/config"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/pkg/logger"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	dataPath   string
	dataFormat string
	output     string
	logLevel   string
	legacy     bool
}

// cli carries the state of one invocation.
type cli struct {
	version string
	stdout  io.Writer
	stderr  io.Writer
	flags   globals
}

// NewRootCommand builds the abcctl command tree writing results to stdout
// and logs to stderr.
func NewRootCommand(version string, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{version: version, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:                "abcctl",
		Short:              "Score and classify employees with the ABC talent model.",
		Long:               `abcctl loads an employee evaluation export, computes weighted ABC totals and prints talent categories, the talent pipeline and department statistics.`,
		Version:            version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.initLogging()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "YAML config file (defaults to $ABC_CONFIG)")
	pf.StringVar(&c.flags.dataPath, "data", "", "employee export to load (overrides data_path)")
	pf.StringVar(&c.flags.dataFormat, "format", "", "input format: json or csv (inferred from the extension when empty)")
	pf.BoolVar(&c.flags.legacy, "legacy", false, "group scores are on the 0-3 survey scale")
	pf.StringVarP(&c.flags.output, "output", "o", string(report.Table), "output format: table, json or csv")
	pf.StringVar(&c.flags.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		c.summaryCmd(),
		c.employeesCmd(),
		c.pipelineCmd(),
		c.topCmd(),
		c.riskCmd(),
		c.alertsCmd(),
		c.classifyCmd(),
		c.mcpCmd(),
	)
	return root
}

// Execute runs abcctl with the process arguments.
func Execute(ctx context.Context, version string, stdout, stderr io.Writer) error {
	return NewRootCommand(version, stdout, stderr).ExecuteContext(ctx)
}

func (c *cli) initLogging() error {
	if err := logger.Init(logger.WithOutput(c.stderr)); err != nil {
		return err
	}
	return logger.SetLevelString(c.flags.logLevel)
}

// loadConfig layers the command line flags over the configuration file.
func (c *cli) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.flags.configPath != "" {
		cfg, err = config.LoadFile(c.flags.configPath)
	} else {
		cfg, err = config.Load(context.Background())
	}
	if err != nil {
		return nil, err
	}
	if c.flags.dataPath != "" {
		cfg.DataPath = c.flags.dataPath
	}
	if c.flags.dataFormat != "" {
		cfg.DataFormat = c.flags.dataFormat
	}
	if c.flags.legacy {
		cfg.LegacyScale = true
	}
	cfg.ReloadIntervalSec = 0
	return cfg, nil
}

// startService loads configuration and data. src overrides the configured
// data file when non-nil. Callers must Stop the returned service.
func (c *cli) startService(ctx context.Context, src ingest.Source) (*app.Service, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts := []app.Option{
		app.WithConfig(cfg),
		app.WithLogger(logger.Named("service")),
	}
	if src != nil {
		opts = append(opts, app.WithSource(src))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func (c *cli) writer() (*report.Writer, error) {
	f, err := report.ParseFormat(c.flags.output)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(c.stdout, f), nil
}

// withService runs fn against a started service and the configured writer.
func (c *cli) withService(cmd *cobra.Command, fn func(context.Context, *app.Service, *report.Writer) error) error {
	w, err := c.writer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, err := c.startService(ctx, nil)
	if err != nil {
		return err
	}
	defer svc.Stop()
	return fn(ctx, svc, w)
}

// noData is a source without employees, used when only the scoring
// configuration is needed.
type noData struct{}

func (noData) Load(context.Context) ([]model.Employee, ingest.Report, error) {
	return nil, ingest.Report{Source: "none"}, nil
}
