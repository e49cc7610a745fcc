package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/cudsviz/pkg/columnar"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
)

func newKeysCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the attribute keys conversions keep",
		Long: `List the CUBA keys whose values are stored in dataset attribute columns,
with their storage kind, shape and missing-value default. Every other key
is reported as ignored through the logger; --all lists them too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := cuba.Default().WithLogger(a.logger)
			supported := registry.SupportedKeys()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tKIND\tTYPE\tSHAPE\tDEFAULT")
			for _, key := range cuba.AllKeys() {
				if !supported.Has(key) && !all {
					continue
				}
				vt := registry.ValueType(key)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					key,
					vt.Kind,
					columnType(vt),
					shapeString(vt.Shape),
					defaultString(registry, key, supported.Has(key)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also list keys that conversions ignore")
	return cmd
}

func columnType(vt cuba.ValueType) string {
	if !vt.IsNumeric() {
		return "-"
	}
	if vt.Numeric == cuba.Integer {
		return columnar.ColumnTypeInt.String()
	}
	return columnar.ColumnTypeFloat.String()
}

func shapeString(shape []int) string {
	if len(shape) == 0 {
		return "-"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func defaultString(registry *cuba.Registry, key cuba.Key, supported bool) string {
	if !supported {
		return "-"
	}
	v, ok := registry.DefaultValue(key)
	if !ok {
		return "-"
	}
	if v.Type.Numeric == cuba.Integer {
		return fmt.Sprint(v.Ints[0])
	}
	return fmt.Sprint(v.Floats[0])
}
