package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/zalepa/valdata/chart"
	"github.com/zalepa/valdata/document"
)

// Viz implements the "viz" subcommand: vote share per party over the cycles
// of a built dataset, as terminal sparklines or a PDF.
func Viz(args []string) {
	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	outDir := fs.String("out", "", "directory holding built datasets")
	typeFlag := fs.String("type", "K", "election type: K, L or R")
	unit := fs.String("unit", "", "unit to chart (omit for all units combined)")
	parties := fs.String("parties", "", "comma-separated party codes (omit for all)")
	pdfOut := fs.String("pdf", "", "output PDF file path (omit for terminal output)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: valdata viz [unit] [flags]

Visualize vote share per party over the built cycles.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  valdata viz --type R
  valdata viz Båstad --type K --parties S,M,SD
  valdata viz --type L --unit "Region Skåne" --pdf skane.pdf
`)
	}
	fs.Parse(reorderArgs(args))
	if fs.NArg() > 0 {
		*unit = fs.Arg(0)
	}

	cfg := loadConfig(*configPath)
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	t, err := document.ParseElectionType(*typeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ds, err := loadDataset(cfg, cfg.OutputDir, t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s dataset: %v\n", t, err)
		os.Exit(1)
	}

	var codes []string
	if *parties != "" {
		for _, p := range strings.Split(*parties, ",") {
			codes = append(codes, strings.TrimSpace(p))
		}
	}

	years := ds.Years()
	series := chart.Shares(ds, *unit, years, codes)
	if len(series) == 0 {
		fmt.Fprintf(os.Stderr, "no data for %q\n", *unit)
		os.Exit(1)
	}

	place := *unit
	if place == "" {
		place = "alla enheter"
	}
	title := fmt.Sprintf("Andel röster %s, %s", t, place)

	if *pdfOut == "" {
		renderTable(title, years, series)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderShares(&buf, title, years, series); err != nil {
		fmt.Fprintf(os.Stderr, "error rendering PDF: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*pdfOut, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing PDF: %v\n", err)
		os.Exit(1)
	}
	err = chart.StampProperties(*pdfOut, map[string]string{
		"Election": t.String(),
		"Unit":     place,
		"Cycles":   joinYears(years),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d parties, %d cycles → %s\n", len(series), len(years), *pdfOut)
}

func renderTable(title string, years []int, series []chart.Series) {
	fmt.Println(headingStyle.Render(title))
	fmt.Printf("%-28s %8s  %s\n", "Parti", "Senast", "Trend "+joinYears(years))
	for _, s := range series {
		latest := s.Latest()
		val := "- -"
		if !math.IsNaN(latest) {
			val = strconv.FormatFloat(latest, 'f', 1, 64)
		}
		fmt.Printf("%-28s %8s  %s\n", truncate(s.Label, 28), val, chart.Sparkline(s.Values))
	}
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
