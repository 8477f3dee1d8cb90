package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/slackwire/internal/infrastructure/config"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/logging"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
	"github.com/GriffinCanCode/slackwire/internal/slack"
)

var (
	configPath string
	logLevel   string
	devLogs    bool
	traceID    string

	client *slack.Client
	logger *logging.Logger
)

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// One trace per invocation
	ctx = tracing.WithTraceID(ctx, tracing.NewTraceID())
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "slackctl",
		Short:        "Call the Slack Web API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if traceID != "" {
				if !id.IsValidRequestID(traceID) {
					return fmt.Errorf("invalid --trace-id %q: want req_<ulid>", traceID)
				}
				cmd.SetContext(tracing.WithTraceID(cmd.Context(), tracing.TraceID(traceID)))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, err = logging.New(logging.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
			})
			if err != nil {
				return err
			}

			client, err = slack.NewFromConfig(cfg, logger.Logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML or TOML config file (environment overrides it)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&devLogs, "dev", false, "human-readable development logs")
	root.PersistentFlags().StringVar(&traceID, "trace-id", "", "join an existing trace instead of starting one")

	root.AddCommand(authCmd(), postCmd(), usersCmd(), historyCmd())
	return root
}

// loadConfig reads the file or the environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = devLogs
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func debugf(msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Debug(msg, fields...)
	}
}
