// Package cli implements the xstitch command-line interface.
//
// Commands:
//   - generate: build a pattern from text or a request file and write PNG/PDF
//   - serve: expose the generator over HTTP
//   - preview: live terminal preview that regenerates as you type
//
// All commands accept --verbose for debug logging and --config for a TOML
// configuration file.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/xstitch/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the build information shown by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// Execute runs the xstitch CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "xstitch",
		Short:        "xstitch turns text into cross-stitch patterns",
		Long:         `xstitch rasterizes text, folds the pixels into a stitch grid and renders a printable cross-stitch chart with time, fabric and floss estimates.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, key := range cfg.Undecoded {
				logger.Warn("unknown config key", "key", key, "file", configPath)
			}
			logger.Debug("config loaded", "file", configPath)

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("xstitch %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the TOML config file")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPreviewCmd())
	return root
}

const configKey ctxKey = 1

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the loaded config, or the defaults when none is attached.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}
