package correct

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/extract"
)

// Override holds the corrected figures of one party. Nil fields are left
// as they are.
type Override struct {
	Party string
	Votes *int
	Share *float64
	Seats *int
}

// Correction is a unit whose published result was replaced by a re-vote.
// File names the correction rows inside the corrections directory.
type Correction struct {
	Unit      string
	Year      int
	Type      document.ElectionType
	File      string
	Overrides []Override
}

// Catalogue is the set of known re-votes. It covers every cycle, so most
// entries miss any single build.
type Catalogue []Correction

// KnownRevotes lists the re-votes the authority held after a cycle closed.
var KnownRevotes = Catalogue{
	{Unit: "Båstad", Year: 2014, Type: document.Municipal, File: "omval_bastad_2015.csv"},
}

// metricNames accepts the English column names and the authority's own.
var metricNames = map[string]string{
	"votes":   "votes",
	"röster":  "votes",
	"share":   "share",
	"procent": "share",
	"seats":   "seats",
	"mandat":  "seats",
}

// ReadOverrides reads correction rows (unit, party, metric, value). Rows of
// other units are ignored and a header row is optional. Values may use a
// decimal comma.
func ReadOverrides(r io.Reader, unit string) ([]Override, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var (
		out   = []Override{}
		index = make(map[string]int)
		line  int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corrections: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(rec[0], "unit") {
			continue
		}
		if rec[0] != unit {
			continue
		}

		party := rec[1]
		i, ok := index[party]
		if !ok {
			i = len(out)
			index[party] = i
			out = append(out, Override{Party: party})
		}

		metric, ok := metricNames[strings.ToLower(rec[2])]
		if !ok {
			return nil, fmt.Errorf("corrections line %d: unknown metric %q", line, rec[2])
		}
		switch metric {
		case "votes":
			out[i].Votes, err = document.ParseCount(rec[3])
		case "seats":
			out[i].Seats, err = document.ParseCount(rec[3])
		case "share":
			out[i].Share, err = document.ParseDecimal(rec[3])
		}
		if err != nil {
			return nil, fmt.Errorf("corrections line %d: %w", line, err)
		}
	}
	return out, nil
}

// Load returns a copy of c with each correction's overrides read from fsys.
func (c Catalogue) Load(fsys fs.FS) (Catalogue, error) {
	out := make(Catalogue, 0, len(c))
	for _, corr := range c {
		f, err := fsys.Open(corr.File)
		if err != nil {
			return nil, fmt.Errorf("open corrections for %s %d: %w", corr.Unit, corr.Year, err)
		}
		overrides, err := ReadOverrides(f, corr.Unit)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", corr.File, err)
		}
		corr.Overrides = overrides
		out = append(out, corr)
	}
	return out, nil
}

// Corrector applies a loaded Catalogue to built datasets.
type Corrector struct {
	Catalogue Catalogue
	Aliases   extract.Aliases
	Logger    *slog.Logger
}

// New returns a Corrector for catalogue using the default party aliases.
func New(catalogue Catalogue, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{Catalogue: catalogue, Aliases: extract.DefaultAliases, Logger: logger}
}

// ErrNotLoaded is returned by Apply for a correction without overrides.
var ErrNotLoaded = errors.New("correction overrides not loaded")

// Apply overwrites the corrected figures in ds and returns the number of rows
// it touched. Corrections for other types, or for units and years ds does
// not contain, are skipped. Applying twice gives the same dataset.
func (c *Corrector) Apply(ds *dataset.Dataset) (int, error) {
	touched := 0
	for _, corr := range c.Catalogue {
		if corr.Type != ds.Type {
			continue
		}
		if !lo.Contains(ds.Units(corr.Year), corr.Unit) {
			c.Logger.Debug("correction target not in dataset", "unit", corr.Unit, "year", corr.Year)
			continue
		}
		if corr.Overrides == nil {
			return touched, fmt.Errorf("%s %d: %w", corr.Unit, corr.Year, ErrNotLoaded)
		}
		for _, o := range corr.Overrides {
			party := c.Aliases.Resolve(o.Party)
			row, ok := ds.Lookup(corr.Unit, corr.Year, party)
			if !ok {
				c.Logger.Debug("correction target not in dataset", "unit", corr.Unit, "year", corr.Year, "party", party)
				continue
			}
			if o.Votes != nil {
				row.Votes = lo.ToPtr(*o.Votes)
			}
			if o.Share != nil {
				row.VoteShare = lo.ToPtr(*o.Share)
			}
			if o.Seats != nil {
				row.Seats = lo.ToPtr(*o.Seats)
			}
			touched++
		}
	}
	return touched, nil
}
