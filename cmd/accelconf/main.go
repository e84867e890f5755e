package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timzifer/accelconf/config"
	"github.com/timzifer/accelconf/driver"
	iconfig "github.com/timzifer/accelconf/internal/config"
	"github.com/timzifer/accelconf/internal/logging"
	"github.com/timzifer/accelconf/internal/writer"
	"github.com/timzifer/accelconf/settings"
	"github.com/timzifer/accelconf/telemetry"
)

var (
	cfgPath    string
	driverPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accelconf",
		Short: "Validate and apply mouse acceleration settings",
		Long: `accelconf validates acceleration profiles and device bindings and
hands them to the acceleration driver.`,
		Example: `  # Check a settings file
  accelconf check settings.yaml

  # Apply a settings file to the driver
  accelconf apply settings.yaml

  # Print the active settings
  accelconf show

  # Re-apply the settings file whenever it changes
  accelconf watch`,
		Version:      settings.Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", iconfig.DefaultPath(), "Path to the accelconf configuration file")
	rootCmd.PersistentFlags().StringVar(&driverPath, "driver", "", "Driver record path (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: from config)")

	checkCmd := &cobra.Command{
		Use:   "check [settings-file]",
		Short: "Validate a settings file without applying it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWriter(func(cfg *iconfig.Config, w *writer.Writer) error {
				text, err := os.ReadFile(settingsPath(cfg, args))
				if err != nil {
					return err
				}
				if _, err := w.Check(string(text)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Settings are valid.")
				return nil
			})
		},
	}

	applyCmd := &cobra.Command{
		Use:   "apply [settings-file]",
		Short: "Validate a settings file and write it to the driver",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWriter(func(cfg *iconfig.Config, w *writer.Writer) error {
				_, err := w.ApplyFile(cmd.Context(), settingsPath(cfg, args))
				return err
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings held by the driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWriter(func(_ *iconfig.Config, w *writer.Writer) error {
				text, err := w.Show()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}

	var applyDefault bool
	defaultCmd := &cobra.Command{
		Use:   "default",
		Short: "Print the built-in settings, or apply them with --apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWriter(func(_ *iconfig.Config, w *writer.Writer) error {
				if applyDefault {
					_, err := w.Reset(cmd.Context())
					return err
				}
				doc, err := config.LoadDefault()
				if err != nil {
					return err
				}
				text, err := doc.ToText()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	defaultCmd.Flags().BoolVar(&applyDefault, "apply", false, "Write the built-in settings to the driver")

	watchCmd := &cobra.Command{
		Use:   "watch [settings-file]",
		Short: "Apply a settings file and re-apply it whenever it changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWriter(func(cfg *iconfig.Config, w *writer.Writer) error {
				interval, err := cfg.WatchInterval()
				if err != nil {
					return err
				}
				path := settingsPath(cfg, args)
				if _, err := w.ApplyFile(cmd.Context(), path); err != nil {
					log.Error().Err(err).Str("file", path).Msg("initial settings not applied")
				}
				return w.Watch(cmd.Context(), path, interval)
			})
		},
	}

	rootCmd.AddCommand(checkCmd, applyCmd, showCmd, defaultCmd, watchCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		var valErr *config.ValidationError
		if errors.As(err, &valErr) {
			fmt.Fprint(os.Stderr, valErr.Report)
		} else {
			fmt.Fprintf(os.Stderr, "accelconf: %v\n", err)
		}
		os.Exit(1)
	}
}

func settingsPath(cfg *iconfig.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Settings
}

// withWriter loads the command configuration, sets up logging and
// telemetry and runs fn with a writer bound to the driver record.
func withWriter(fn func(*iconfig.Config, *writer.Writer) error) error {
	cfg, err := iconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if driverPath != "" {
		cfg.Driver.Path = driverPath
	}

	logger, cleanup, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	log.Logger = logger

	collector, err := newTelemetryCollector(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry disabled")
		collector = telemetry.Noop()
	}

	w := writer.New(driver.NewFileTransport(cfg.Driver.Path),
		writer.WithLogger(logger),
		writer.WithCollector(collector),
		writer.WithReadbackVerify(cfg.Driver.ReadbackVerify),
	)
	return fn(cfg, w)
}

func newTelemetryCollector(cfg iconfig.TelemetryConfig, logger zerolog.Logger) (telemetry.Collector, error) {
	if !cfg.Enabled {
		return telemetry.Noop(), nil
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "prometheus":
		collector, err := telemetry.NewPrometheusCollector(nil)
		if err != nil {
			return nil, err
		}
		if cfg.Listen != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", telemetry.Handler(nil))
			go func() {
				if err := http.ListenAndServe(cfg.Listen, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Str("listen", cfg.Listen).Msg("metrics endpoint stopped")
				}
			}()
		}
		return collector, nil
	default:
		return telemetry.Noop(), fmt.Errorf("unsupported telemetry provider %q", cfg.Provider)
	}
}
