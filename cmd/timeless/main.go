// Command timeless pivots a table file into chart series and a plotly
// figure, printed as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"timeless/pivot"
	"timeless/services"
	"timeless/tableio"
)

type renderFlags struct {
	output      string
	optionsPath string
	kind        string
	barType     string
	radiusScale string
	sheet       string
	percentage  bool
	seriesOnly  bool
	pretty      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "timeless",
		Short:        "Pivot query result tables into chart series",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRenderCmd())
	return rootCmd
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [table.json|table.csv|table.xlsx]",
		Short: "Render a table file as a figure",
		Long: `render reads a table, pivots it for the chosen plot kind and writes
the result and its plotly figure as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&f.optionsPath, "options", "", "Panel options JSON file")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Plot kind: line, bar, scatter, heatmap, densitymapbox")
	cmd.Flags().StringVar(&f.barType, "bar-type", "", "Bar mode: stack or group")
	cmd.Flags().StringVar(&f.radiusScale, "radius-scale", "", "Geo radius scale: constant, linear or log")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&f.percentage, "percentage", false, "Normalize each x position to 100%")
	cmd.Flags().BoolVar(&f.seriesOnly, "series-only", false, "Write only the pivot result")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runRender(cmd *cobra.Command, path string, f renderFlags) error {
	opts, err := loadOptions(cmd, f)
	if err != nil {
		return err
	}

	table, err := tableio.ReadFile(path, tableio.Options{Sheet: f.sheet})
	if err != nil {
		return fmt.Errorf("reading table: %w", err)
	}

	res, err := pivot.Pivot(table, opts.PlotType, opts.PivotOptions())
	if err != nil {
		return fmt.Errorf("pivot failed: %w", err)
	}

	var out any = res
	if !f.seriesOnly {
		out = struct {
			Result *pivot.Result   `json:"result"`
			Figure services.Figure `json:"figure"`
		}{res, services.BuildFigure(res, opts)}
	}

	if f.output == "" {
		return writeJSON(cmd.OutOrStdout(), out, f.pretty)
	}
	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := writeJSON(file, out, f.pretty); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadOptions reads the options file, if any, and applies flag overrides.
func loadOptions(cmd *cobra.Command, f renderFlags) (services.PanelOptions, error) {
	var raw []byte
	if f.optionsPath != "" {
		var err error
		raw, err = os.ReadFile(f.optionsPath)
		if err != nil {
			return services.PanelOptions{}, fmt.Errorf("reading options: %w", err)
		}
	}
	opts, err := services.ParsePanelOptions(raw)
	if err != nil {
		return services.PanelOptions{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("kind") {
		opts.PlotType = pivot.Kind(f.kind)
	}
	if flags.Changed("bar-type") {
		opts.BarType = f.barType
	}
	if flags.Changed("radius-scale") {
		opts.RadiusScale = pivot.RadiusScale(f.radiusScale)
	}
	if flags.Changed("percentage") {
		opts.Percentage = f.percentage
	}
	return opts, opts.Validate()
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
