package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/store"
)

// unitAffixes are the administrative designations that come and go in unit
// names across cycles ("Skåne läns landsting" became "Region Skåne"). Order
// matters: longer suffixes must come first so "S LÄNS LANDSTING" is tried
// before "S LÄN".
var (
	unitSuffixes = []string{
		"S LÄNS LANDSTING", " LÄNS LANDSTING", " LANDSTING", "S LÄN", " LÄN", "S KOMMUN", " KOMMUN",
	}
	unitPrefixes = []string{"REGION ", "LANDSTINGET "}
)

// stripUnitAffixes removes a leading or trailing administrative designation
// from a unit name. Returns the uppercased base name.
func stripUnitAffixes(name string) string {
	upper := strings.TrimSpace(strings.ToUpper(name))
	for _, prefix := range unitPrefixes {
		if strings.HasPrefix(upper, prefix) {
			upper = upper[len(prefix):]
			break
		}
	}
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return upper[:len(upper)-len(suffix)]
		}
	}
	return upper
}

type duplicateCandidate struct {
	nameA  string // keeper (more recent data)
	nameB  string // to be renamed
	yearsA []int
	yearsB []int
}

// findDuplicates detects unit names that likely refer to the same unit. It
// groups names by their affix-stripped base, then checks whether the two
// variants ever co-occur in the same cycle. If they don't overlap, they're
// flagged as a candidate merge.
func findDuplicates(rows []dataset.Row) []duplicateCandidate {
	// strippedName -> actualName -> years
	groups := make(map[string]map[string]map[int]bool)
	for _, r := range rows {
		stripped := stripUnitAffixes(r.Unit)
		if groups[stripped] == nil {
			groups[stripped] = make(map[string]map[int]bool)
		}
		if groups[stripped][r.Unit] == nil {
			groups[stripped][r.Unit] = make(map[int]bool)
		}
		groups[stripped][r.Unit][r.Year] = true
	}

	var candidates []duplicateCandidate
	for _, nameMap := range groups {
		if len(nameMap) < 2 {
			continue
		}
		names := make([]string, 0, len(nameMap))
		for n := range nameMap {
			names = append(names, n)
		}
		sort.Strings(names)

		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				yearsA, yearsB := nameMap[names[i]], nameMap[names[j]]

				// If they co-occur in any cycle, they're distinct units.
				hasOverlap := false
				for y := range yearsA {
					if yearsB[y] {
						hasOverlap = true
						break
					}
				}
				if hasOverlap {
					continue
				}

				a, b := names[i], names[j]
				yA, yB := sortedYears(yearsA), sortedYears(yearsB)
				if yB[len(yB)-1] > yA[len(yA)-1] {
					a, b = b, a
					yA, yB = yB, yA
				}
				candidates = append(candidates, duplicateCandidate{nameA: a, nameB: b, yearsA: yA, yearsB: yB})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].nameA != candidates[j].nameA {
			return candidates[i].nameA < candidates[j].nameA
		}
		return candidates[i].nameB < candidates[j].nameB
	})
	return candidates
}

func sortedYears(m map[int]bool) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func formatYears(years []int) string {
	switch len(years) {
	case 0:
		return "no data"
	case 1:
		return fmt.Sprintf("%d (1 cycle)", years[0])
	}
	return fmt.Sprintf("%d to %d (%d cycles)", years[0], years[len(years)-1], len(years))
}

// renameUnits applies merges (old name → kept name) to the rows and turnout
// rows of ds and returns how many rows changed.
func renameUnits(ds *dataset.Dataset, merges map[string]string) int {
	applied := 0
	for i := range ds.Rows {
		if newName, ok := merges[ds.Rows[i].Unit]; ok {
			ds.Rows[i].Unit = newName
			applied++
		}
	}
	for i := range ds.Turnout {
		if newName, ok := merges[ds.Turnout[i].Unit]; ok {
			ds.Turnout[i].Unit = newName
			applied++
		}
	}
	ds.Reindex()
	return applied
}

// promptMerges asks about each candidate on in and returns the accepted
// merges. acceptAll skips the questions.
func promptMerges(candidates []duplicateCandidate, in io.Reader, acceptAll bool) map[string]string {
	merges := make(map[string]string)
	scanner := bufio.NewScanner(in)
	for _, c := range candidates {
		if acceptAll {
			fmt.Fprintf(os.Stderr, "  %s → %s: %s + %s\n", c.nameB, c.nameA, formatYears(c.yearsB), formatYears(c.yearsA))
			merges[c.nameB] = c.nameA
			continue
		}

		fmt.Fprintf(os.Stderr, "\nPotential duplicate unit:\n")
		fmt.Fprintf(os.Stderr, "  %-30s %s\n", c.nameA, formatYears(c.yearsA))
		fmt.Fprintf(os.Stderr, "  %-30s %s\n", c.nameB, formatYears(c.yearsB))
		fmt.Fprintf(os.Stderr, "Merge %q → %q? [y/N/a(ll)]: ", c.nameB, c.nameA)

		if !scanner.Scan() {
			break
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "a", "all":
			acceptAll = true
			merges[c.nameB] = c.nameA
		case "y", "yes":
			merges[c.nameB] = c.nameA
		}
	}
	return merges
}

// Dedupe implements the "dedupe" subcommand: find units whose name changed
// between cycles and, after confirmation, merge them under the newest name
// so they line up in the longitudinal table.
func Dedupe(args []string) {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	outDir := fs.String("out", "", "directory holding built datasets")
	typeFlag := fs.String("type", "L", "election type: K, L or R")
	yes := fs.Bool("yes", false, "merge every candidate without asking")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: valdata dedupe [--type L] [--yes]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(args))

	cfg := loadConfig(*configPath)
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	t, err := document.ParseElectionType(*typeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	path := datasetPath(cfg.OutputDir, t)
	ds, err := store.LoadJSON(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	candidates := findDuplicates(ds.Rows)
	if len(candidates) == 0 {
		fmt.Fprintf(os.Stderr, "dedupe: no name variants found\n")
		return
	}
	merges := promptMerges(candidates, os.Stdin, *yes)
	if len(merges) == 0 {
		return
	}

	applied := renameUnits(ds, merges)
	if err := writeOutputs(cfg.OutputDir, ds); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "dedupe: renamed %d rows → %s\n", applied, path)
}
