package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/fitcoach/internal/app"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var errNotLoggedIn = errors.New("not logged in, run 'fitcoach login' first")

var (
	envFlag    string
	configPath string

	fitApp *app.App
)

var rootCmd = &cobra.Command{
	Use:   "fitcoach",
	Short: "Coaching client: workout programs, guided training, calendar and nutrition plans",
	Long: `fitcoach talks to the coaching backend on behalf of one athlete.

QUICK START:

  $ fitcoach login --email anna@example.com
  $ fitcoach programs                 # list assigned workout programs
  $ fitcoach program 812              # show a program outline
  $ fitcoach exercise 812 3301        # one exercise and its superset
  $ fitcoach train 812 3301           # guided session from exercise 3301
  $ fitcoach calendar                 # this month's workouts
  $ fitcoach nutrition                # nutrition plans

CONFIG:

  Settings are read from the [development] or [production] table of the TOML
  file given with --config. FITCOACH_* environment variables override it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.Load(envFlag, configPath)
		if err != nil {
			return err
		}

		logging.Setup(logging.LoggerSetupParams{
			LogFileName:      cfg.LogsPath,
			LogToStdout:      cfg.LogToStdout,
			LogLevel:         cfg.LogLevel,
			LogFormatJSON:    cfg.LogFormatJSON,
			Environment:      cfg.Environment,
			SentryEnabled:    cfg.SentryEnabled,
			SentryDSN:        os.Getenv("SENTRY_DSN"),
			SentryServerName: "fitcoach-" + cfg.DeviceID,
		})
		log.Debugf("---->> running in [%s] environment, backend [%s]", cfg.Environment, cfg.ApiBaseURL)

		honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
		if honeycombEnabled && os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}

		fitApp, err = app.New(cmd.Context(), app.NewAppParams{
			Config:                  cfg,
			RedisPassword:           os.Getenv("FITCOACH_REDIS_PASS"),
			HoneycombTracingEnabled: honeycombEnabled,
		})
		if err != nil {
			return err
		}
		fitApp.ServeMetrics()

		if _, err := fitApp.RestoreSession(cmd.Context()); err != nil {
			log.Warnf("restore session: %s", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		whoamiCmd,
		programsCmd,
		programCmd,
		exerciseCmd,
		trainCmd,
		calendarCmd,
		nutritionCmd,
	)
}

// Execute runs the CLI and always releases the app, even when the command failed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if fitApp != nil {
		err = multierr.Append(err, fitApp.Close())
		fitApp = nil
	}
	return err
}

func requireLogin() error {
	if !fitApp.Session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}
