package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/photomark"
	"github.com/gogpu/photomark/scene"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/sink"
	"github.com/gogpu/photomark/surface"
)

// annotation is one --text or --shape flag, kept in command-line order.
type annotation struct {
	isShape bool
	text    string
	shape   scene.ShapeKind
}

// annotationFlag collects --text and --shape values into one ordered list.
type annotationFlag struct {
	list  *[]annotation
	shape bool
	vals  []string
}

func (a *annotationFlag) Set(v string) error {
	if !a.shape {
		a.vals = append(a.vals, v)
		*a.list = append(*a.list, annotation{text: v})
		return nil
	}
	for kind := range strings.SplitSeq(v, ",") {
		kind = strings.TrimSpace(kind)
		a.vals = append(a.vals, kind)
		*a.list = append(*a.list, annotation{isShape: true, shape: scene.ShapeKind(kind)})
	}
	return nil
}

func (a *annotationFlag) String() string { return strings.Join(a.vals, ",") }

func (a *annotationFlag) Type() string {
	if a.shape {
		return "strings"
	}
	return "stringArray"
}

type editFlags struct {
	annotations []annotation
	out         string
	format      string
	s3          bool
	inspect     bool
}

func newEditCmd(flags *rootFlags) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit <image>",
		Short: "Annotate an image and export it",
		Long: `Load an image from a URL or local path, add text labels and shapes
in the order given, and export the 500x500 result.

Text objects start with the content "Edit me"; each --text value replaces
the content of one new label. Later objects are drawn on top of earlier
ones.`,
		Example: `  photomark edit photo.jpg --text "Hello" --shape circle --shape triangle
  photomark edit https://images.pexels.com/photos/1/large.jpg --s3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			opts, err := sessionOptions(cfg)
			if err != nil {
				return err
			}
			opts = append(opts, session.WithFetcher(&session.HTTPFetcher{AllowFiles: true}))
			format, err := surface.ParseFormat(f.format)
			if err != nil {
				return err
			}

			s, err := session.New(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			defer s.Dispose()
			if err := s.Wait(cmd.Context()); err != nil {
				return err
			}

			for _, a := range f.annotations {
				if !a.isShape {
					id, ok := s.AddText()
					if !ok || !s.EditText(id, a.text) {
						return fmt.Errorf("add text %q: %w", a.text, session.ErrNotReady)
					}
					continue
				}
				if _, ok := s.AddShape(a.shape); !ok {
					return fmt.Errorf("unknown shape %q (want one of circle, rectangle, triangle, polygon)", a.shape)
				}
			}

			if f.inspect {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(slices.Collect(s.Inspect())); err != nil {
					return err
				}
			}

			data, err := s.Export(format)
			if err != nil {
				return err
			}

			var dst sink.Sink
			name := photomark.Filename(format)
			switch {
			case f.s3:
				dst, err = sink.NewS3(cmd.Context(), cfg.Export.S3Bucket, cfg.Export.S3Prefix)
				if err != nil {
					return err
				}
			case f.out != "":
				dst = sink.File{Dir: filepath.Dir(f.out)}
				name = filepath.Base(f.out)
			default:
				dst = sink.File{Dir: cfg.Export.Dir}
			}
			loc, err := dst.Save(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			printf(cmd, "saved %s\n", loc)
			return nil
		},
	}
	cmd.Flags().Var(&annotationFlag{list: &f.annotations}, "text", "add a text label with this content (repeatable)")
	cmd.Flags().Var(&annotationFlag{list: &f.annotations, shape: true}, "shape", "add a shape: circle, rectangle, triangle, polygon (repeatable)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default <export.dir>/edited-image.png)")
	cmd.Flags().StringVar(&f.format, "format", "png", "export format: png or jpeg")
	cmd.Flags().BoolVar(&f.s3, "s3", false, "upload to export.s3_bucket instead of writing a file")
	cmd.Flags().BoolVar(&f.inspect, "inspect", false, "print the scene objects as JSON")
	return cmd
}
