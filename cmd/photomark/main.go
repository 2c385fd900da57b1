// Command photomark searches Pexels, annotates photos and serves the
// annotation API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gogpu/photomark"
	"github.com/gogpu/photomark/internal/config"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/surface"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "photomark",
		Short:         "Search photos and annotate them with text and shapes",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       photomark.Version,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ./photomark.yaml or $PHOTOMARK_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newSearchCmd(&flags),
		newEditCmd(&flags),
		newServeCmd(&flags),
		newBackendsCmd(),
	)
	return root
}

// setup loads configuration and installs the logger on stderr.
func setup(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	photomark.SetLogger(cfg.Log.Logger(cmd.ErrOrStderr()))
	return cfg, nil
}

func newProvider(cfg config.Config) (*search.Pexels, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return search.NewPexels(cfg.Pexels.APIKey,
		search.WithBaseURL(cfg.Pexels.BaseURL),
		search.WithTimeout(cfg.Pexels.Timeout),
	)
}

// sessionOptions translates editor settings into session options.
func sessionOptions(cfg config.Config) ([]session.Option, error) {
	opts := []session.Option{
		session.WithBackend(cfg.Editor.Backend),
		session.WithJPEGQuality(cfg.Export.JPEGQuality),
	}
	if cfg.Editor.FontPath != "" {
		fonts, err := surface.LoadFonts(cfg.Editor.FontPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithFonts(fonts))
	}
	surface.UseHarfBuzz(cfg.Editor.Shaper == "gotext")
	return opts, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
