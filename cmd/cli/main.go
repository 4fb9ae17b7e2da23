package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"proteoportal/adapters/excel"
	"proteoportal/app"
	"proteoportal/domain/dataset"
	"proteoportal/internal"
	"proteoportal/internal/config"
	"proteoportal/internal/visualization"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	rootCmd := &cobra.Command{
		Use:   "portal-cli",
		Short: "Search, inspect and prepare the proteomics result tables",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the result CSV files (default: DATA_DIR)")

	rootCmd.AddCommand(
		newSearchCmd(&dataDir),
		newFilesCmd(&dataDir),
		newGroupsCmd(),
		newFiguresCmd(&dataDir),
		newConvertCmd(),
	)
	return rootCmd
}

// newService wires a portal service from the environment, with dataDir overriding DATA_DIR
func newService(dataDir string) (*app.PortalService, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDir == "" {
		dataDir = cfg.Data.Dir
	}

	logger := internal.NewLogger(internal.LoggerOptions{
		Level:    internal.ParseLogLevel(cfg.Log.Level),
		FilePath: cfg.Log.File,
	})

	readerOpts := excel.DefaultReaderOptions()
	readerOpts.InferNumbers = cfg.Data.InferNumbers
	readerOpts.Concurrency = cfg.Data.LoadConcurrency
	readerOpts.Logger = logger

	figureOpts := visualization.DefaultOptions()
	figureOpts.ForestRowLimit = cfg.Visualization.ForestRowLimit
	figureOpts.HeatmapTopN = cfg.Visualization.HeatmapTopN

	return app.NewPortalService(excel.NewTableSource(readerOpts), dataDir, figureOpts, logger), nil
}

// searchFlags are shared by the commands that narrow tables
type searchFlags struct {
	searchType string
	files      string
	group      string
	filter     string
	filterType string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.searchType, "type", "t", "all", "Field category to search (all, protein, disease, mri, disease_mri, protein_disease, protein_mri)")
	cmd.Flags().StringVar(&f.files, "files", "", "Comma-separated file names to restrict the search to")
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Dataset group (see the groups command)")
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "Secondary filter term")
	cmd.Flags().StringVar(&f.filterType, "filter-type", "all", "Field category for the secondary filter")
}

func (f *searchFlags) request(args []string) app.SearchRequest {
	return app.SearchRequest{
		Query:      strings.Join(args, " "),
		Type:       f.searchType,
		Files:      app.ParseFiles(f.files),
		Group:      f.group,
		Filter:     f.filter,
		FilterType: f.filterType,
	}
}

func newSearchCmd(dataDir *string) *cobra.Command {
	var flags searchFlags
	var output string

	cmd := &cobra.Command{
		Use:   "search [term...]",
		Short: "Search the result tables",
		Long: `Search the result tables for rows whose selected columns contain every term as a whole word.

Example: portal-cli search NT-proBNP --type protein --filter "heart failure" --filter-type disease`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(*dataDir)
			if err != nil {
				return err
			}
			req := flags.request(args)
			w := cmd.OutOrStdout()

			switch output {
			case "csv":
				_, err := svc.Export(cmd.Context(), req, w)
				if err == nil {
					fmt.Fprintln(w)
				}
				return err
			case "json":
				resp, err := svc.Search(cmd.Context(), req)
				if err != nil {
					return err
				}
				return renderJSON(w, resp)
			default:
				resp, err := svc.Search(cmd.Context(), req)
				if err != nil {
					return err
				}
				renderTables(w, resp.Results)
				fmt.Fprintf(w, "%d result(s) for %q in %d table(s)\n", resp.TotalResults, resp.SearchTerm, len(resp.Results))
				return nil
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or csv")
	return cmd
}

func newFilesCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the available result files",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(*dataDir)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"File", "Title"})
			for _, f := range svc.ListFiles(cmd.Context()) {
				t.AppendRow(table.Row{f, dataset.TitleFor(f)})
			}
			t.Render()
			return nil
		},
	}
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the dataset groups",
		Run: func(cmd *cobra.Command, args []string) {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Value", "Label", "Files", "Match"})
			for _, g := range dataset.Groups {
				t.AppendRow(table.Row{g.Value, g.Label, strings.Join(g.Files, ", "), strings.Join(g.Match, " + ")})
			}
			t.Render()
		},
	}
}

func newFiguresCmd(dataDir *string) *cobra.Command {
	var flags searchFlags
	var output string

	cmd := &cobra.Command{
		Use:   "figures [term...]",
		Short: "Derive forest plot and heatmap data from a search",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(*dataDir)
			if err != nil {
				return err
			}
			figs, err := svc.Figures(cmd.Context(), flags.request(args))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output == "json" {
				return renderJSON(w, figs)
			}
			renderFigures(w, figs)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <workbook.xlsx>",
		Short: "Convert the results workbook into the CSV files the portal serves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Data.Dir
			}
			logger := internal.NewLogger(internal.LoggerOptions{Level: internal.ParseLogLevel(cfg.Log.Level)})

			results, err := excel.NewConverter(excel.DefaultSheetSpecs, logger).Convert(args[0], outDir)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Sheet", "Output", "Rows", "Duplicates removed"})
			for _, r := range results {
				t.AppendRow(table.Row{r.Sheet, r.Output, r.Rows, r.Duplicates})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: DATA_DIR)")
	return cmd
}

func renderTables(w io.Writer, tables []*dataset.Table) {
	for _, tbl := range tables {
		title := tbl.Title
		if title == "" {
			title = tbl.Filename
		}
		fmt.Fprintf(w, "%s (%s)\n", title, tbl.Filename)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		header := make(table.Row, len(tbl.Headers))
		for i, h := range tbl.Headers {
			header[i] = h
		}
		t.AppendHeader(header)
		for _, r := range tbl.Rows {
			row := make(table.Row, len(tbl.Headers))
			for i, h := range tbl.Headers {
				row[i] = r.Get(h).String()
			}
			t.AppendRow(row)
		}
		t.Render()
		fmt.Fprintf(w, "(%d rows)\n\n", tbl.Len())
	}
}

func renderFigures(w io.Writer, figs visualization.Figures) {
	for _, block := range figs.Forest {
		fmt.Fprintf(w, "Forest: %s (%s)\n", block.Title, block.EffectLabel)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Label", "Model", "Effect", "Lower", "Upper", "p"})
		for _, d := range block.Rows {
			p := ""
			if d.PValue != nil {
				p = fmt.Sprintf("%.3g", *d.PValue)
			}
			t.AppendRow(table.Row{d.Label, d.Model, fmt.Sprintf("%.2f", d.Effect), fmt.Sprintf("%.2f", d.Lower), fmt.Sprintf("%.2f", d.Upper), p})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	for _, block := range figs.Heatmaps {
		fmt.Fprintf(w, "Heatmap: %s (%s x %s, mean %s)\n", block.Title, block.RowAxis, block.ColAxis, block.ValueColumn)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		header := table.Row{""}
		for _, c := range block.Cols {
			header = append(header, c)
		}
		t.AppendHeader(header)
		for i, label := range block.Rows {
			row := table.Row{label}
			for _, cell := range block.Matrix[i] {
				if cell == nil {
					row = append(row, "")
					continue
				}
				row = append(row, fmt.Sprintf("%.2f", cell.Value))
			}
			t.AppendRow(row)
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(figs.Forest) == 0 && len(figs.Heatmaps) == 0 {
		fmt.Fprintln(w, "No figures can be drawn from these results.")
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
