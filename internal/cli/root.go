// Package cli implements the taskmap command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/internal/config"
	"github.com/reoring/taskmap/internal/logging"
	"github.com/reoring/taskmap/kind"
	"github.com/reoring/taskmap/source/gojson"
	"github.com/reoring/taskmap/task"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	KindsFile string
	Policy    string // "config" | "task"
	Driver    string // "encoding/json" | "go-json"
	LogLevel  string
	LogFormat string
	DB        string
	MaxDepth  int
	MaxBytes  int64

	policy kind.Policy
	logger *slog.Logger
}

// NewRootCommand creates the root command. Flag defaults come from the
// TASKMAP_* environment variables.
func NewRootCommand() *cobra.Command {
	cfg := config.Load()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "taskmap",
		Short:         "Decode, encode and checkpoint task records",
		Long:          "taskmap maps JSON wire objects to typed task records using kinds declared in YAML.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.KindsFile, "kinds", "", "YAML file declaring kinds")
	pf.StringVar(&opts.Policy, "policy", "config", "field policy (config|task)")
	pf.StringVar(&opts.Driver, "driver", cfg.JSONDriver, "JSON driver (encoding/json|go-json)")
	pf.StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	pf.StringVar(&opts.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")
	pf.StringVar(&opts.DB, "db", cfg.DBPath, "checkpoint database path")
	pf.IntVar(&opts.MaxDepth, "max-depth", cfg.MaxDepth, "maximum nesting depth of input (0 = unlimited)")
	pf.Int64Var(&opts.MaxBytes, "max-bytes", cfg.MaxBytes, "maximum input size in bytes (0 = unlimited)")

	cmd.AddCommand(NewTypesCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewCheckpointCommand(opts))
	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	policy, ok := kind.ParsePolicy(o.Policy)
	if !ok {
		return fmt.Errorf("invalid policy %q: must be config, task or <wirekey>/<default>", o.Policy)
	}
	o.policy = policy
	switch o.Driver {
	case taskmap.DefaultDriverName:
		taskmap.UseDefaultJSONDriver()
	case gojson.DriverName:
		taskmap.SetJSONDriver(gojson.Driver())
	default:
		return fmt.Errorf("invalid driver %q: must be %s or %s", o.Driver, taskmap.DefaultDriverName, gojson.DriverName)
	}
	level, ok := logging.ParseLevel(o.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", o.LogLevel)
	}
	o.logger = logging.New(logging.Config{
		Level:     level,
		Format:    o.LogFormat,
		Output:    cmd.ErrOrStderr(),
		Component: "taskmap",
	})
	return nil
}

// mapper builds a mapper for policy with the kinds file registered.
func (o *RootOptions) mapper(policy kind.Policy) (*task.Mapper, error) {
	m := task.New(policy,
		task.WithLogger(o.logger),
		task.WithDecodeOpt(taskmap.DecodeOpt{
			Strictness: taskmap.Strictness{OnDuplicateKey: taskmap.Warn},
			MaxDepth:   o.MaxDepth,
			MaxBytes:   o.MaxBytes,
			OnWarning: func(it taskmap.Issue) {
				o.logger.Warn("input warning", "code", it.Code, "path", it.Path, "message", it.Message)
			},
		}),
	)
	if o.KindsFile == "" {
		return nil, fmt.Errorf("--kinds is required")
	}
	f, err := os.Open(o.KindsFile)
	if err != nil {
		return nil, fmt.Errorf("open kinds: %w", err)
	}
	defer f.Close()
	kinds, err := kind.LoadYAML(f, m)
	if err != nil {
		return nil, fmt.Errorf("load kinds %s: %w", o.KindsFile, err)
	}
	for _, k := range kinds {
		if err := m.Register(k); err != nil {
			return nil, fmt.Errorf("register kind %s: %w", k.Name, err)
		}
	}
	return m, nil
}
