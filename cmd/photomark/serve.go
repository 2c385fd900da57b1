package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/photomark"
	"github.com/gogpu/photomark/internal/config"
	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/server"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/sink"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search and annotation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			sessOpts, err := sessionOptions(cfg)
			if err != nil {
				return err
			}
			// Image URLs come from API clients: no local files.
			sessOpts = append(sessOpts, session.WithFetcher(&session.HTTPFetcher{}))
			dst, err := exportSink(cmd, cfg)
			if err != nil {
				return err
			}

			notes := notify.NewRecorder(50)
			ed := photomark.NewEditor(provider,
				photomark.WithNotifier(notify.Multi{notes, notify.Log{Logger: photomark.Logger()}}),
				photomark.WithSink(dst),
				photomark.WithSearchOptions(
					search.WithDebounce(cfg.Search.Debounce),
					search.WithPerPage(cfg.Pexels.PerPage),
					search.WithContext(cmd.Context()),
				),
				photomark.WithSessionOptions(sessOpts...),
			)
			defer ed.Close()

			srv := server.New(ed, notes, server.WithAllowedOrigins(cfg.Server.AllowedOrigins...))
			printf(cmd, "listening on %s\n", cfg.Server.Addr)
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default server.addr)")
	return cmd
}

func exportSink(cmd *cobra.Command, cfg config.Config) (sink.Sink, error) {
	if cfg.Export.S3Bucket != "" {
		return sink.NewS3(cmd.Context(), cfg.Export.S3Bucket, cfg.Export.S3Prefix)
	}
	return sink.File{Dir: cfg.Export.Dir}, nil
}
