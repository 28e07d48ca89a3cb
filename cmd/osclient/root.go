package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient"
	"github.com/kailas-cloud/osclient/internal/config"
	logpkg "github.com/kailas-cloud/osclient/internal/logger"
	"github.com/kailas-cloud/osclient/internal/version"
)

// app carries state shared by every subcommand.
type app struct {
	env        string
	configPath string
	url        string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "osclient",
		Short:        "Talk to an OpenSearch cluster, or serve an in-memory stand-in",
		SilenceUsage: true,
		Long: `osclient sends typed document and search requests to an OpenSearch
compatible endpoint. "osclient serve" runs a fake server speaking the same
subset of the REST API, backed by memory or Redis.`,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.setup() },
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.env, "env", config.GetEnv(), "Environment: local, dev, prod or test")
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (overrides --env lookup)")
	flags.StringVar(&a.url, "url", "", "Cluster base URL (overrides client.url)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newExistsCmd(a),
		newGetCmd(a),
		newIndexCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. A missing config file
// for the environment falls back to defaults.
func (a *app) setup() error {
	var err error
	switch {
	case a.configPath != "":
		a.cfg, err = config.LoadFile(a.configPath)
	default:
		a.cfg, err = config.Load(a.env)
		if errors.Is(err, fs.ErrNotExist) {
			a.cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return err
	}
	if a.url != "" {
		a.cfg.Client.URL = a.url
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	level := a.cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger, err = logpkg.NewLogger(a.env, level)
	if err != nil {
		return err
	}
	return nil
}

// client builds an SDK client from the loaded configuration.
func (a *app) client() (*osclient.Client, error) {
	opts := []osclient.Option{
		osclient.WithBaseURL(a.cfg.Client.URL),
		osclient.WithUserAgent(a.userAgent()),
		osclient.WithTimeout(time.Duration(a.cfg.Client.TimeoutSec) * time.Second),
		osclient.WithMaxBodySize(a.cfg.Client.MaxBodyBytes),
	}
	if a.logger.Core().Enabled(zap.DebugLevel) {
		opts = append(opts, osclient.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}
	return osclient.New(opts...)
}

func (a *app) userAgent() string {
	if a.cfg.Client.UserAgent != "" && a.cfg.Client.UserAgent != "osclient" {
		return a.cfg.Client.UserAgent
	}
	return version.UserAgent()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
