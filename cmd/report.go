package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/zalepa/valdata/chart"
	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/metrics"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Report implements the "report" subcommand: print a terminal summary of a
// built dataset: bloc majority states per cycle, seat totals, each party's
// strongest unit and turnout.
func Report(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	outDir := fs.String("out", "", "directory holding built datasets")
	typeFlag := fs.String("type", "K", "election type: K, L or R")
	unit := fs.String("unit", "", "show bloc standing per cycle for this unit")
	search := fs.String("search", "", "list parties whose name contains these words")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: valdata report [--type K] [--unit name] [--search words]\n\n")
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
	ds, err := loadDataset(cfg, cfg.OutputDir, t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s dataset: %v\n", t, err)
		os.Exit(1)
	}

	years := ds.Years()
	if len(years) == 0 {
		fmt.Fprintf(os.Stderr, "%s dataset is empty\n", t)
		os.Exit(1)
	}
	newest := years[len(years)-1]

	fmt.Println(headingStyle.Render(fmt.Sprintf("Valresultat %s %d–%d", t, years[0], newest)))

	if *search != "" {
		printSearch(ds, newest, *search)
		return
	}
	if *unit != "" {
		printUnit(ds, *unit, years)
		return
	}

	printBlocStates(ds, years)
	if len(years) > 1 {
		printSeatTotals(ds, newest, years[len(years)-2])
	}
	printStrongest(ds, newest)
	printTurnout(ds, years)
}

func printBlocStates(ds *dataset.Dataset, years []int) {
	fmt.Println(headingStyle.Render("Blockens mandat"))
	fmt.Printf("%-6s %-12s %10s %6s %10s\n", "År", "Block", "Majoritet", "Lika", "Minoritet")
	for _, y := range years {
		counts := make(map[string]map[metrics.State]int)
		for _, unit := range ds.Units(y) {
			res, err := metrics.MajorityHolder(ds, unit, y, metrics.DefaultBlocs, metrics.BySeats)
			if err != nil {
				continue
			}
			for _, r := range res {
				if counts[r.Bloc] == nil {
					counts[r.Bloc] = make(map[metrics.State]int)
				}
				counts[r.Bloc][r.State]++
			}
		}
		for _, b := range metrics.DefaultBlocs {
			c := counts[b.Name]
			fmt.Printf("%-6d %-12s %10d %6d %10d\n", y, b.Name, c[metrics.Majority], c[metrics.Tie], c[metrics.Minority])
		}
	}

	newest := years[len(years)-1]
	majorities := metrics.MajorityParties(ds, newest, metrics.BySeats)
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d enheter med egen majoritet för ett parti %d", len(majorities), newest)))
}

func printSeatTotals(ds *dataset.Dataset, year, compareYear int) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("Mandat totalt %d (mot %d)", year, compareYear)))
	for _, s := range metrics.SeatTotals(ds, year, compareYear) {
		fmt.Printf("%-6s %8s %+8d\n", s.Party, humanize.Comma(int64(s.Seats)), s.Change)
	}
}

func printStrongest(ds *dataset.Dataset, year int) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("Starkaste fästet %d", year)))
	parties := make(map[string]bool)
	for _, r := range ds.RowsFor(year, "") {
		parties[r.Party] = true
	}
	names := make([]string, 0, len(parties))
	for p := range parties {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		s, ok := metrics.StrongestUnit(ds, p, year)
		if !ok {
			continue
		}
		fmt.Printf("%-22s %-28s %6s %%\n", p, s.Unit, humanize.FtoaWithDigits(s.Share, 1))
	}
}

func printTurnout(ds *dataset.Dataset, years []int) {
	fmt.Println(headingStyle.Render("Valdeltagande"))
	var values []float64
	for _, y := range years {
		pct, ok := metrics.NationalTurnout(ds, y)
		if !ok {
			continue
		}
		values = append(values, pct)
		fmt.Printf("%-6d %6s %%\n", y, humanize.FtoaWithDigits(pct, 1))
	}
	if len(values) > 1 {
		fmt.Println(dimStyle.Render("trend " + chart.Sparkline(values)))
	}

	if len(years) < 2 {
		return
	}
	changes := metrics.TurnoutDelta(ds, years[len(years)-1], years[len(years)-2])
	if len(changes) == 0 {
		return
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Change > changes[j].Change })
	top := changes[0]
	fmt.Println(dimStyle.Render(fmt.Sprintf("störst ökning: %s %+.1f procentenheter", top.Unit, top.Change)))
}

func printUnit(ds *dataset.Dataset, unit string, years []int) {
	fmt.Println(headingStyle.Render(unit))
	for _, y := range years {
		res, err := metrics.MajorityHolder(ds, unit, y, metrics.DefaultBlocs, metrics.BySeats)
		if err != nil {
			fmt.Printf("%-6d %s\n", y, dimStyle.Render(err.Error()))
			continue
		}
		parts := make([]string, 0, len(res))
		for _, r := range res {
			parts = append(parts, fmt.Sprintf("%s %g/%g %s", r.Bloc, r.Held, r.Total, r.State))
		}
		fmt.Printf("%-6d %s\n", y, strings.Join(parts, ", "))
	}
	if len(years) > 1 {
		a, b := years[len(years)-2], years[len(years)-1]
		fmt.Println(headingStyle.Render(fmt.Sprintf("Förändring %d–%d", a, b)))
		for _, r := range ds.RowsFor(b, unit) {
			d := metrics.DeltaBetweenCycles(ds, unit, r.Party, a, b, metrics.Share)
			v := metrics.DeltaBetweenCycles(ds, unit, r.Party, a, b, metrics.Votes)
			share := "-"
			if d.Defined {
				share = fmt.Sprintf("%+.1f", d.Change)
			}
			fmt.Printf("%-22s %8s %10s\n", r.Party, share, humanize.Comma(int64(v.Change)))
		}
	}
}

func printSearch(ds *dataset.Dataset, year int, query string) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("Partier %d som matchar %q", year, query)))
	for _, d := range ds.Parties.Search(year, ds.Type, query) {
		fmt.Printf("%-10s %s\n", d.Party, d.DisplayLabel)
	}
}
