package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zalepa/valdata/config"
	"github.com/zalepa/valdata/correct"
	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/store"
)

// Build implements the "build" subcommand: read the result files of every
// cycle, merge them per election type, apply known corrections, and write
// CSV + JSON (and optionally SQLite) output.
func Build(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	dataDir := fs.String("data", "", "directory holding val_{year}/ result files")
	outDir := fs.String("out", "", "output directory")
	types := fs.String("types", "", "comma-separated election types (K,L,R)")
	stage := fs.String("stage", "", "count stage of the newest cycle: prelresultat, valnatt, slutresultat")
	corrections := fs.String("corrections", "", "directory holding re-vote correction files")
	sqlitePath := fs.String("sqlite", "", "also save to this SQLite database")
	revise := fs.Bool("revise", false, "revise closed cycles from the next cycle's previous-election figures")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: valdata build [--data dir] [--out dir] [--types K,L,R] [--stage prelresultat]\n\n")
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
	if *stage != "" {
		cfg.Stage = *stage
	}
	if *corrections != "" {
		cfg.CorrectionsDir = *corrections
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}
	if *revise {
		cfg.ReviseFromNext = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	electionTypes, err := parseTypes(cfg, *types)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if code := runBuild(cfg, electionTypes); code != 0 {
		os.Exit(code)
	}
}

// runBuild builds, corrects and writes every type in electionTypes and
// returns the process exit code. A failing type does not stop the others.
func runBuild(cfg *config.Config, electionTypes []document.ElectionType) int {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		return 1
	}

	logger := cfg.Logger()

	corrector := correct.New(nil, logger)
	if cfg.CorrectionsDir != "" {
		catalogue, err := correct.KnownRevotes.Load(os.DirFS(cfg.CorrectionsDir))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading corrections: %v\n", err)
			return 1
		}
		corrector.Catalogue = catalogue
	} else {
		fmt.Fprintf(os.Stderr, "warning: no corrections directory, known re-votes are not applied\n")
	}

	var db *store.SQLite
	if cfg.SQLitePath != "" {
		var err error
		db, err = store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer db.Close()
	}

	builder := dataset.NewBuilder(dataset.DirSource(cfg.DataDir), cfg.Dataset(), logger)
	failed := 0
	for _, t := range electionTypes {
		ds, err := builder.Build(t)
		if err != nil {
			var srcErr *dataset.SourceError
			if errors.As(err, &srcErr) && errors.Is(err, document.ErrMalformedDocument) {
				fmt.Fprintf(os.Stderr, "%s: malformed file %s: %v\n", t, srcErr.Path, srcErr.Err)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", t, err)
			}
			failed++
			continue
		}

		touched, err := corrector.Apply(ds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: error applying corrections: %v\n", t, err)
			failed++
			continue
		}

		if err := writeOutputs(cfg.OutputDir, ds); err != nil {
			fmt.Fprintf(os.Stderr, "%s: error writing output: %v\n", t, err)
			failed++
			continue
		}

		run := ""
		if db != nil {
			id, err := db.Save(ds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: error saving to sqlite: %v\n", t, err)
				failed++
				continue
			}
			run = ", run " + id.String()
		}

		fmt.Fprintf(os.Stderr, "%s: %d cycles, %d rows, %d turnout rows, %d corrected%s → %s\n",
			t, len(ds.Years()), len(ds.Rows), len(ds.Turnout), touched, run,
			filepath.Base(datasetPath(cfg.OutputDir, t)))
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// writeOutputs writes the JSON dataset and the three CSV tables of ds.
func writeOutputs(dir string, ds *dataset.Dataset) error {
	if err := store.WriteJSON(datasetPath(dir, ds.Type), ds); err != nil {
		return err
	}
	tables := []struct {
		name  string
		write func(io.Writer) error
	}{
		{fmt.Sprintf("valresultat_%s.csv", string(ds.Type)), func(w io.Writer) error { return store.WriteRows(w, ds.Rows) }},
		{fmt.Sprintf("valdeltagande_%s.csv", string(ds.Type)), func(w io.Writer) error { return store.WriteTurnout(w, ds.Turnout) }},
		{fmt.Sprintf("partier_%s.csv", string(ds.Type)), func(w io.Writer) error { return store.WriteDirectory(w, ds.Parties.Rows()) }},
	}
	for _, tbl := range tables {
		if err := store.WriteFile(filepath.Join(dir, tbl.name), tbl.write); err != nil {
			return fmt.Errorf("%s: %w", tbl.name, err)
		}
	}
	return nil
}
