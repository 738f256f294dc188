package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/metrics"
	"github.com/zalepa/valdata/store"
)

// Districts implements the "districts" subcommand: read the per-municipality
// result files of one cycle and write how many constituencies and polling
// districts each municipality has, with the resulting seat threshold.
func Districts(args []string) {
	fs := flag.NewFlagSet("districts", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	dataDir := fs.String("data", "", "directory holding val_{year}/ result files")
	outDir := fs.String("out", "", "output directory")
	year := fs.Int("year", 2018, "cycle to read")
	stageFlag := fs.String("stage", string(document.Final), "count stage of the files to read")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: valdata districts [--year 2018] [--stage slutresultat] [--data dir] [--out dir]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	cfg := loadConfig(*configPath)
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	stage, err := document.ParseCountStage(*stageFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	districts, err := readDistricts(filepath.Join(cfg.DataDir, fmt.Sprintf("val_%d", *year)), stage)
	if errors.Is(err, errNoDistrictFiles) {
		fmt.Fprintf(os.Stderr, "warning: %v, counting constituencies from the national file\n", err)
		districts, err = nationalDistricts(dataset.DirSource(cfg.DataDir), *year, stage)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	out := filepath.Join(cfg.OutputDir, fmt.Sprintf("valkretsdata_%d.csv", *year))
	err = store.WriteFile(out, func(w io.Writer) error {
		return store.WriteDistricts(w, districts, metrics.Threshold)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", out, err)
		os.Exit(1)
	}

	several := 0
	for _, d := range districts {
		if d.Constituencies > 1 {
			several++
		}
	}
	fmt.Fprintf(os.Stderr, "%d: %d municipalities, %d with more than one constituency → %s\n",
		*year, len(districts), several, filepath.Base(out))

	ds, err := loadDataset(cfg, cfg.OutputDir, document.Municipal)
	if err != nil {
		// Nothing built yet.
		return
	}
	printBelowThreshold(metrics.ThresholdEligible(ds, *year, districts))
}

// printBelowThreshold lists, per municipality, the parties that polled under
// the municipality's seat threshold.
func printBelowThreshold(results []metrics.Eligibility) {
	below := make(map[string][]string)
	for _, r := range results {
		if !r.Eligible {
			below[r.Unit] = append(below[r.Unit], fmt.Sprintf("%s %.1f%%<%g%%", r.Party, r.Share, r.Threshold))
		}
	}
	if len(below) == 0 {
		return
	}
	units := make([]string, 0, len(below))
	for u := range below {
		units = append(units, u)
	}
	metrics.SortUnits(units)

	fmt.Println(headingStyle.Render("Under spärren"))
	for _, u := range units {
		fmt.Printf("%-22s %s\n", u, strings.Join(below[u], ", "))
	}
}

var errNoDistrictFiles = errors.New("no per-municipality files")

// readDistricts parses the per-municipality files of one count stage (e.g.
// slutresultat_0180K.xml) in dir, skipping the national 00K file.
func readDistricts(dir string, stage document.CountStage) ([]document.District, error) {
	files, err := filepath.Glob(filepath.Join(dir, string(stage)+"_*K.xml"))
	if err != nil {
		return nil, err
	}
	var out []document.District
	for _, path := range files {
		if strings.HasSuffix(filepath.Base(path), "_00K.xml") {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		ds, err := document.ParseDistricts(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, ds...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s in %s", errNoDistrictFiles, stage, dir)
	}
	return out, nil
}

// nationalDistricts reads the constituency counts off the municipal results
// file of year.
func nationalDistricts(src dataset.Source, year int, stage document.CountStage) ([]document.District, error) {
	f, err := src.Open(document.Municipal, year, stage)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := document.Parse(f, document.Meta{Type: document.Municipal, Year: year, Stage: stage})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path(document.Municipal, year, stage), err)
	}
	districts := doc.Districts()
	if len(districts) == 0 {
		return nil, fmt.Errorf("%s: no constituencies listed", src.Path(document.Municipal, year, stage))
	}
	return districts, nil
}
