package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/cudsviz/pkg/bridge"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/cuds"
	"github.com/ajitpratap0/cudsviz/pkg/dataset"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Summary describes a converted container.
type Summary struct {
	Document        string          `json:"document"`
	Container       string          `json:"container"`
	Kind            string          `json:"kind"`
	Shape           string          `json:"shape"`
	Points          int             `json:"points"`
	Cells           int             `json:"cells"`
	BoundsMin       [3]float64      `json:"bounds_min"`
	BoundsMax       [3]float64      `json:"bounds_max"`
	TypicalDistance float64         `json:"typical_distance"`
	Representation  string          `json:"representation"`
	GlyphRadius     float64         `json:"glyph_radius,omitempty"`
	Columns         []ColumnSummary `json:"columns"`
}

// ColumnSummary describes one attribute column.
type ColumnSummary struct {
	Key         string     `json:"key"`
	Association string     `json:"association"`
	Type        string     `json:"type"`
	Components  int        `json:"components"`
	Range       [2]float64 `json:"range"`
}

// pointItems and cellItems name the selectable entities of each kind.
var (
	pointItems = map[cuds.Kind]bridge.Item{
		cuds.KindMesh:      bridge.ItemPoints,
		cuds.KindParticles: bridge.ItemParticles,
		cuds.KindLattice:   bridge.ItemNodes,
	}
	cellItems = map[cuds.Kind]bridge.Item{
		cuds.KindMesh:      bridge.ItemElements,
		cuds.KindParticles: bridge.ItemBonds,
	}
)

func itemFor(kind cuds.Kind, assoc dataset.Association) (bridge.Item, bool) {
	if assoc == dataset.CellAssociation {
		item, ok := cellItems[kind]
		return item, ok
	}
	item, ok := pointItems[kind]
	return item, ok
}

func summarize(doc string, container cuds.Container, ds dataset.Dataset) (*Summary, error) {
	style, err := bridge.StyleFor(container, ds)
	if err != nil {
		return nil, err
	}
	bounds := ds.Bounds()
	s := &Summary{
		Document:        doc,
		Container:       container.Name(),
		Kind:            container.Kind().String(),
		Shape:           ds.Shape().String(),
		Points:          ds.NumberOfPoints(),
		Cells:           ds.NumberOfCells(),
		BoundsMin:       bounds.Min,
		BoundsMax:       bounds.Max,
		TypicalDistance: dataset.TypicalDistance(ds),
		Representation:  string(style.Representation),
		GlyphRadius:     style.GlyphRadius,
	}

	for _, assoc := range []dataset.Association{dataset.PointAssociation, dataset.CellAssociation} {
		item, ok := itemFor(container.Kind(), assoc)
		if !ok {
			continue
		}
		for _, col := range dataset.Attributes(ds, assoc).Columns() {
			cm, err := bridge.ColorBy(container, ds, bridge.Selection{Key: col.Key(), Items: item})
			if err != nil {
				return nil, err
			}
			s.Columns = append(s.Columns, ColumnSummary{
				Key:         col.Key().String(),
				Association: assoc.String(),
				Type:        col.Type().String(),
				Components:  col.NumComponents(),
				Range:       cm.Range,
			})
		}
	}
	return s, nil
}

func printSummary(w io.Writer, s *Summary) error {
	fmt.Fprintf(w, "Document:   %s\n", s.Document)
	fmt.Fprintf(w, "Container:  %s (%s)\n", s.Container, s.Kind)
	fmt.Fprintf(w, "Dataset:    %s, %d points, %d cells\n", s.Shape, s.Points, s.Cells)
	fmt.Fprintf(w, "Bounds:     %v - %v\n", s.BoundsMin, s.BoundsMax)
	fmt.Fprintf(w, "Style:      %s", s.Representation)
	if s.GlyphRadius > 0 {
		fmt.Fprintf(w, " (radius %g)", s.GlyphRadius)
	}
	fmt.Fprintln(w)

	if len(s.Columns) == 0 {
		fmt.Fprintln(w, "\nNo attribute columns")
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tDATA\tTYPE\tCOMPONENTS\tMIN\tMAX")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g\t%g\n",
			c.Key, c.Association, c.Type, c.Components, c.Range[0], c.Range[1])
	}
	return tw.Flush()
}

// plotColumn draws the first component of key's column in data order.
func plotColumn(w io.Writer, ds dataset.Dataset, assoc dataset.Association, key cuba.Key) error {
	col, err := dataset.Attributes(ds, assoc).Column(key)
	if err != nil {
		return err
	}
	var series []float64
	for i := 0; i < col.Len(); i++ {
		if v := col.Tuple(i)[0]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			series = append(series, v)
		}
	}
	if len(series) == 0 {
		return vizerrors.New(vizerrors.ErrorTypeData, "column has no finite values to plot").
			WithDetail("key", key.String())
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s data)", key, assoc)),
	)
	fmt.Fprintln(w, graph)
	return nil
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		plot   string
		data   string
	)

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Summarize the dataset a container document converts to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, ds, err := a.decodeAndConvert(args[0])
			if err != nil {
				return err
			}
			summary, err := summarize(args[0], container, ds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return vizerrors.Wrap(err, vizerrors.ErrorTypeInternal, "failed to encode summary")
				}
				fmt.Fprintln(out, string(enc))
			} else if err := printSummary(out, summary); err != nil {
				return err
			}

			if plot == "" {
				return nil
			}
			key, err := cuba.ParseKey(plot)
			if err != nil {
				return err
			}
			assoc, ok := dataset.ParseAssociation(data)
			if !ok {
				return vizerrors.New(vizerrors.ErrorTypeValidation, "--data must be point or cell").
					WithDetail("data", data)
			}
			fmt.Fprintln(out)
			return plotColumn(out, ds, assoc, key)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().StringVar(&plot, "plot", "", "Plot the values of this key, e.g. TEMPERATURE")
	cmd.Flags().StringVar(&data, "data", "point", "Attribute data to plot: point or cell")
	return cmd
}
