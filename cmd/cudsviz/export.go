package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/formats/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		data   string
		codec  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Export dataset attributes as an Arrow, Parquet or Avro table",
		Long: `Export the point or cell attributes of the converted dataset as a
columnar table. Point tables lead with a COORDINATES column and cell tables
with VTK_CELL_TYPE, followed by one column per attribute key.

Example:
  cudsviz export mesh.yaml --format parquet --data cell -o cells.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := args[0]
			if format == "" {
				format = a.cfg.Output.Format
			}
			f, err := columnar.ParseFormat(format)
			if err != nil {
				return err
			}
			assoc, ok := dataset.ParseAssociation(data)
			if !ok {
				return vizerrors.New(vizerrors.ErrorTypeValidation, "--data must be point or cell").
					WithDetail("data", data)
			}

			container, ds, err := a.decodeAndConvert(doc)
			if err != nil {
				return err
			}

			out := output
			if out == "" {
				out = documentBase(doc) + "." + assoc.String() + columnar.GetFormatInfo(f).FileExtension
			}
			wc := &columnar.WriterConfig{Format: f, Compression: codec, Name: container.Name()}
			n, err := a.writeColumnar(cmd.Context(), ds, assoc, out, wc)
			if err != nil {
				return err
			}

			rows := dataset.Attributes(ds, assoc).Len()
			a.logger.Info("attributes exported",
				zap.String("document", doc),
				zap.String("format", string(f)),
				zap.String("data", assoc.String()),
				zap.String("output", out),
				zap.Int("rows", rows),
				zap.Int64("bytes", n))
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %d rows)\n", doc, out, f, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Table format: arrow, parquet or avro (default: output.format)")
	cmd.Flags().StringVar(&data, "data", "point", "Attributes to export: point or cell")
	cmd.Flags().StringVar(&codec, "codec", "", "Format-internal codec, e.g. snappy, zstd, lz4, deflate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path or URI (default: <document>.<data>.<ext>)")
	return cmd
}
