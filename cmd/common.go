package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalepa/valdata/config"
	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/store"
)

// loadConfig loads the shared configuration or exits.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// datasetPath is where build writes the JSON dataset of one type.
func datasetPath(outDir string, t document.ElectionType) string {
	return filepath.Join(outDir, fmt.Sprintf("valresultat_%s.json", string(t)))
}

// loadDataset reads a built dataset of t from the SQLite database when one
// is configured, else from the JSON file in outDir.
func loadDataset(cfg *config.Config, outDir string, t document.ElectionType) (*dataset.Dataset, error) {
	if cfg.SQLitePath != "" {
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load(t)
	}
	return store.LoadJSON(datasetPath(outDir, t))
}

// parseTypes parses a comma-separated type list, or returns the configured
// types when s is empty.
func parseTypes(cfg *config.Config, s string) ([]document.ElectionType, error) {
	if s == "" {
		return cfg.ElectionTypes()
	}
	var out []document.ElectionType
	for _, part := range strings.Split(s, ",") {
		t, err := document.ParseElectionType(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// reorderArgs moves positional arguments to the end so that Go's flag package
// can parse all flags regardless of where a positional argument appears.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			// Consume the next arg as the flag's value unless it looks like a flag itself.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && !strings.Contains(args[i], "=") && !isBoolFlag(args[i]) {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}

// boolFlags are the flags that take no value.
var boolFlags = []string{"yes", "revise"}

func isBoolFlag(arg string) bool {
	name := strings.TrimLeft(arg, "-")
	for _, b := range boolFlags {
		if name == b {
			return true
		}
	}
	return false
}
