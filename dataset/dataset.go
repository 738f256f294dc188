package dataset

import (
	"sort"

	"github.com/samber/lo"

	"github.com/zalepa/valdata/document"
)

// Row is one (unit, year, party) result of the canonical dataset. Nil
// numbers are values the source did not provide.
type Row struct {
	Unit             string                `json:"unit"`
	UnitCode         string                `json:"unitCode"`
	Year             int                   `json:"year"`
	ElectionType     document.ElectionType `json:"electionType"`
	Party            string                `json:"party"`
	Votes            *int                  `json:"votes"`
	TotalVotesInUnit *int                  `json:"totalVotesInUnit"`
	VoteShare        *float64              `json:"voteShare"`
	Seats            *int                  `json:"seats"`
	TotalSeatsInUnit *int                  `json:"totalSeatsInUnit"`
}

// Key identifies a canonical row.
type Key struct {
	Unit         string
	Year         int
	Party        string
	ElectionType document.ElectionType
}

func (r Row) Key() Key {
	return Key{Unit: r.Unit, Year: r.Year, Party: r.Party, ElectionType: r.ElectionType}
}

// TurnoutRow is the turnout of one unit in one cycle.
type TurnoutRow struct {
	Unit                        string                `json:"unit"`
	UnitCode                    string                `json:"unitCode"`
	Year                        int                   `json:"year"`
	ElectionType                document.ElectionType `json:"electionType"`
	TotalVotesCast              *int                  `json:"totalVotesCast"`
	TotalVotesCastPrevious      *int                  `json:"totalVotesCastPrevious"`
	TotalEligibleVoters         *int                  `json:"totalEligibleVoters"`
	TotalEligibleVotersPrevious *int                  `json:"totalEligibleVotersPrevious"`
	TurnoutPercent              *float64              `json:"turnoutPercent"`
	TurnoutPercentPrevious      *float64              `json:"turnoutPercentPrevious"`
	SeatCount                   *int                  `json:"seatCount"`
}

// Dataset is the longitudinal result table of one election type together
// with its turnout table and party directory.
type Dataset struct {
	Type    document.ElectionType `json:"electionType"`
	Rows    []Row                 `json:"rows"`
	Turnout []TurnoutRow          `json:"turnout"`
	Parties PartyDirectory        `json:"parties"`

	index map[Key]int
}

// New indexes rows and turnout into a Dataset. Rows must have unique keys;
// with duplicates, lookups see the last one.
func New(t document.ElectionType, rows []Row, turnout []TurnoutRow, parties PartyDirectory) *Dataset {
	d := &Dataset{Type: t, Rows: rows, Turnout: turnout, Parties: parties}
	d.Reindex()
	return d
}

// Reindex rebuilds the key index after Rows was replaced.
func (d *Dataset) Reindex() {
	d.index = make(map[Key]int, len(d.Rows))
	for i, r := range d.Rows {
		d.index[r.Key()] = i
	}
}

// Lookup returns the row for (unit, year, party). The pointer refers into
// Rows.
func (d *Dataset) Lookup(unit string, year int, party string) (*Row, bool) {
	if d.index == nil {
		d.Reindex()
	}
	i, ok := d.index[Key{Unit: unit, Year: year, Party: party, ElectionType: d.Type}]
	if !ok {
		return nil, false
	}
	return &d.Rows[i], true
}

// Years returns the cycles present, ascending.
func (d *Dataset) Years() []int {
	years := lo.Uniq(lo.Map(d.Rows, func(r Row, _ int) int { return r.Year }))
	sort.Ints(years)
	return years
}

// Units returns the unit names present in year, in table order.
func (d *Dataset) Units(year int) []string {
	rows := lo.Filter(d.Rows, func(r Row, _ int) bool { return r.Year == year })
	return lo.Uniq(lo.Map(rows, func(r Row, _ int) string { return r.Unit }))
}

// RowsFor returns the rows of year, optionally narrowed to unit.
func (d *Dataset) RowsFor(year int, unit string) []Row {
	return lo.Filter(d.Rows, func(r Row, _ int) bool {
		return r.Year == year && (unit == "" || r.Unit == unit)
	})
}

// TurnoutFor returns the turnout row of (unit, year).
func (d *Dataset) TurnoutFor(unit string, year int) (TurnoutRow, bool) {
	return lo.Find(d.Turnout, func(t TurnoutRow) bool {
		return t.Unit == unit && t.Year == year
	})
}
