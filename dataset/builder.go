package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/extract"
)

// DefaultYears are the supported cycles. 2006 has no file of its own.
var DefaultYears = []int{2006, 2010, 2014, 2018}

// Config controls one build. Years must hold at least two cycles; the
// earliest is projected from the second.
type Config struct {
	Years []int
	// CurrentStage is the count stage read for the newest cycle. Closed
	// cycles are always read from their final count.
	CurrentStage document.CountStage
	// ExcludeMinor drops the OTHER_MINOR_PARTIES aggregate rows.
	ExcludeMinor bool
	// ReviseFromNext replaces a closed cycle's figures with the next
	// cycle's previous-election figures where those exist, picking up
	// results the authority revised after a re-vote.
	ReviseFromNext bool
	Aliases        extract.Aliases
	Labels         map[string]string
}

// DefaultConfig reads the preliminary count of the newest cycle and leaves
// the minor-party aggregate out.
func DefaultConfig() Config {
	return Config{
		Years:        DefaultYears,
		CurrentStage: document.Preliminary,
		ExcludeMinor: true,
		Aliases:      extract.DefaultAliases,
		Labels:       DefaultLabels,
	}
}

// Builder merges the cycles of one election type into a Dataset.
type Builder struct {
	Source Source
	Config Config
	Logger *slog.Logger

	extractor *extract.Extractor
	docs      map[int]*document.ElectionDocument
}

// NewBuilder returns a Builder reading from src.
func NewBuilder(src Source, cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{Source: src, Config: cfg, Logger: logger}
}

func (b *Builder) stage(year, newest int) document.CountStage {
	if year == newest && b.Config.CurrentStage != "" {
		return b.Config.CurrentStage
	}
	return document.Final
}

// load parses the document of (t, year) once per build.
func (b *Builder) load(t document.ElectionType, year, newest int) (*document.ElectionDocument, error) {
	if doc, ok := b.docs[year]; ok {
		return doc, nil
	}
	stage := b.stage(year, newest)
	srcErr := &SourceError{Type: t, Year: year, Stage: stage, Path: b.Source.Path(t, year, stage)}

	f, err := b.Source.Open(t, year, stage)
	if err != nil {
		srcErr.Err = err
		return nil, srcErr
	}
	defer f.Close()

	doc, err := document.Parse(f, document.Meta{Type: t, Year: year, Stage: stage})
	if err != nil {
		srcErr.Err = err
		return nil, srcErr
	}
	b.docs[year] = doc
	return doc, nil
}

// Build reads every configured cycle of t, oldest first, and returns the
// merged dataset. Any unreadable or malformed file aborts the build.
func (b *Builder) Build(t document.ElectionType) (*Dataset, error) {
	years := append([]int(nil), b.Config.Years...)
	sort.Ints(years)
	years = lo.Uniq(years)
	if len(years) < 2 {
		return nil, errors.New("build needs at least two cycles")
	}
	newest := years[len(years)-1]

	b.docs = make(map[int]*document.ElectionDocument)
	b.extractor = &extract.Extractor{Aliases: b.Config.Aliases, ItemiseMinor: true, Logger: b.Logger}

	var (
		rows    []Row
		turnout []TurnoutRow
		dir     []DirectoryRow
	)
	for i, year := range years {
		var src RowSource
		if i == 0 {
			next, err := b.load(t, years[1], newest)
			if err != nil {
				return nil, err
			}
			src = Projected{From: next, Mapping: PreviousFields}
		} else {
			doc, err := b.load(t, year, newest)
			if err != nil {
				return nil, err
			}
			src = Extracted{Doc: doc}
		}

		sliceRows, sliceTurnout, err := b.slice(t, year, src)
		if err != nil {
			return nil, err
		}
		if b.Config.ReviseFromNext && i > 0 && i < len(years)-1 {
			next, err := b.load(t, years[i+1], newest)
			if err != nil {
				return nil, err
			}
			if err := b.revise(sliceRows, t, year, next); err != nil {
				return nil, err
			}
		}

		rows = append(rows, sliceRows...)
		turnout = append(turnout, sliceTurnout...)
		dir = append(dir, directoryRows(b.extractor.Directory(src.Document()), year, t, b.Config.Labels)...)

		b.Logger.Info("cycle merged", "type", t.String(), "year", year, "source", describe(src), "rows", len(sliceRows))
	}

	return New(t, rows, turnout, NewPartyDirectory(dir)), nil
}

func describe(src RowSource) string {
	doc := src.Document()
	switch src.(type) {
	case Projected:
		return fmt.Sprintf("projected from %d %s", doc.Year, doc.Stage)
	default:
		return fmt.Sprintf("extracted from %d %s", doc.Year, doc.Stage)
	}
}

// slice builds the rows and turnout rows of one cycle.
func (b *Builder) slice(t document.ElectionType, year int, src RowSource) ([]Row, []TurnoutRow, error) {
	doc := src.Document()
	fields := src.Fields()

	records, err := b.extractor.Document(doc)
	if err != nil {
		return nil, nil, err
	}
	turnoutRecords, err := b.extractor.Turnout(doc)
	if err != nil {
		return nil, nil, err
	}

	_, projected := src.(Projected)
	var seatSums map[string]*int
	if projected {
		seatSums = projectedSeatTotals(records, fields)
	}

	turnout := make([]TurnoutRow, 0, len(turnoutRecords))
	byUnit := make(map[string]TurnoutRow, len(turnoutRecords))
	for _, tr := range turnoutRecords {
		cur, prev := fields.turnout(tr.Turnout)
		row := TurnoutRow{
			Unit:                        tr.Unit,
			UnitCode:                    tr.UnitCode,
			Year:                        year,
			ElectionType:                t,
			TotalVotesCast:              cur.cast,
			TotalVotesCastPrevious:      prev.cast,
			TotalEligibleVoters:         cur.eligible,
			TotalEligibleVotersPrevious: prev.eligible,
			TurnoutPercent:              cur.percent,
			TurnoutPercentPrevious:      prev.percent,
			SeatCount:                   tr.SeatCount,
		}
		if projected {
			// The next cycle's seat count is not this cycle's.
			row.SeatCount = seatSums[tr.UnitCode]
		}
		turnout = append(turnout, row)
		byUnit[tr.UnitCode] = row
	}

	rows := make([]Row, 0, len(records))
	index := make(map[Key]int, len(records))
	for _, rec := range records {
		if b.Config.ExcludeMinor && rec.Party.Kind == extract.AggregatedMinor {
			continue
		}
		votes, seats, share := fields.counts(rec.Counts)
		row := Row{
			Unit:         rec.Unit,
			UnitCode:     rec.UnitCode,
			Year:         year,
			ElectionType: t,
			Party:        rec.Party.Code(),
			Votes:        votes,
			VoteShare:    share,
			Seats:        seats,
		}
		if tr, ok := byUnit[rec.UnitCode]; ok {
			row.TotalVotesInUnit = tr.TotalVotesCast
			row.TotalSeatsInUnit = tr.SeatCount
		} else {
			b.Logger.Warn("no turnout record for unit", "unit", rec.Unit, "code", rec.UnitCode, "year", year)
		}

		if i, dup := index[row.Key()]; dup {
			if !rec.Party.Sentinel() {
				b.Logger.Warn("duplicate party row, keeping first", "unit", rec.Unit, "year", year, "party", row.Party)
				continue
			}
			rows[i] = combine(rows[i], row)
			continue
		}
		index[row.Key()] = len(rows)
		rows = append(rows, row)
	}
	return rows, turnout, nil
}

// projectedSeatTotals sums the seats of real parties per unit code. A unit
// where no party carries a seat figure gets nil.
func projectedSeatTotals(records []extract.Record, fields FieldMapping) map[string]*int {
	sums := make(map[string]*int)
	for _, rec := range records {
		if rec.Party.Kind != extract.RealParty {
			continue
		}
		_, seats, _ := fields.counts(rec.Counts)
		if seats == nil {
			if _, ok := sums[rec.UnitCode]; !ok {
				sums[rec.UnitCode] = nil
			}
			continue
		}
		sums[rec.UnitCode] = lo.ToPtr(lo.FromPtr(sums[rec.UnitCode]) + *seats)
	}
	return sums
}

// combine folds a second row of the same pseudo-party (e.g. another spoiled
// ballot reason) into a.
func combine(a, b Row) Row {
	a.Votes = addInt(a.Votes, b.Votes)
	a.Seats = addInt(a.Seats, b.Seats)
	a.VoteShare = addFloat(a.VoteShare, b.VoteShare)
	return a
}

func addInt(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return lo.ToPtr(*a + *b)
}

func addFloat(a, b *float64) *float64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return lo.ToPtr(*a + *b)
}

// revise overwrites rows of year with the previous-election figures of
// next, matched on (unit code, party).
func (b *Builder) revise(rows []Row, t document.ElectionType, year int, next *document.ElectionDocument) error {
	records, err := b.extractor.Document(next)
	if err != nil {
		return err
	}
	type key struct{ code, party string }
	prev := make(map[key]extract.Record, len(records))
	for _, rec := range records {
		k := key{rec.UnitCode, rec.Party.Code()}
		if seen, ok := prev[k]; ok {
			if !rec.Party.Sentinel() {
				continue
			}
			// Several spoiled-ballot reasons share one code and are summed,
			// the same way slice folds them.
			seen.Counts.VotesPrevious = addInt(seen.Counts.VotesPrevious, rec.Counts.VotesPrevious)
			seen.Counts.SeatsPrevious = addInt(seen.Counts.SeatsPrevious, rec.Counts.SeatsPrevious)
			seen.Counts.SharePrevious = addFloat(seen.Counts.SharePrevious, rec.Counts.SharePrevious)
			prev[k] = seen
			continue
		}
		prev[k] = rec
	}

	revised := 0
	for i := range rows {
		rec, ok := prev[key{rows[i].UnitCode, rows[i].Party}]
		if !ok {
			continue
		}
		votes, seats, share := PreviousFields.counts(rec.Counts)
		changed := false
		if votes != nil && !equalInt(rows[i].Votes, votes) {
			rows[i].Votes, changed = votes, true
		}
		if seats != nil && !equalInt(rows[i].Seats, seats) {
			rows[i].Seats, changed = seats, true
		}
		if share != nil && !equalFloat(rows[i].VoteShare, share) {
			rows[i].VoteShare, changed = share, true
		}
		if changed {
			revised++
		}
	}
	if revised > 0 {
		b.Logger.Info("revised from next cycle", "type", t.String(), "year", year, "rows", revised)
	}
	return nil
}

func equalInt(a, b *int) bool {
	return (a == nil) == (b == nil) && (a == nil || *a == *b)
}

func equalFloat(a, b *float64) bool {
	return (a == nil) == (b == nil) && (a == nil || *a == *b)
}
