package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/observability"
)

func newConvertCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <document>",
		Short: "Convert a container document to a legacy VTK dataset",
		Long: `Convert a YAML or JSON container document to a legacy VTK dataset.

The output may be a local path or an s3:// or gs:// URI. A codec suffix on
the output name (.gz, .zst, .lz4, .sz, .s2) selects the compression;
otherwise output.compression from the configuration applies.

Example:
  cudsviz convert mesh.yaml -o s3://results/mesh.vtk.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := args[0]
			ctx, span := observability.StartSpan(cmd.Context(), "cli.convert")
			defer span.End()

			start := time.Now()
			container, ds, err := a.decodeAndConvert(doc)
			if err != nil {
				span.Finish(err)
				return err
			}
			span.RecordContainer(container)
			span.RecordDataset(ds)

			out := output
			if out == "" {
				cc, err := a.cfg.Output.CompressionConfig()
				if err != nil {
					return err
				}
				out = defaultOutput(doc, cc)
			}
			cc, err := a.codecFor(out)
			if err != nil {
				return err
			}

			n, err := a.writeVTK(ctx, ds, out, cc)
			span.Finish(err)
			if err != nil {
				return err
			}

			span.SetAttribute("output", out)
			span.SetAttribute("bytes", n)
			a.logger.Info("container converted",
				zap.String("document", doc),
				zap.String("container", container.Name()),
				zap.String("shape", ds.Shape().String()),
				zap.String("output", out),
				zap.String("compression", string(cc.Algorithm)),
				zap.Int64("bytes", n),
				zap.Duration("duration", time.Since(start)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %d points, %d cells)\n",
				doc, out, ds.Shape(), ds.NumberOfPoints(), ds.NumberOfCells())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path or URI (default: <document>.vtk)")
	return cmd
}
