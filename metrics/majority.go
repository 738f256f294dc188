package metrics

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/zalepa/valdata/dataset"
)

// Basis is what a majority is measured in.
type Basis int

const (
	BySeats Basis = iota
	ByShare
)

func (b Basis) String() string {
	if b == ByShare {
		return "share"
	}
	return "seats"
}

// State is the outcome of a majority test. A bloc holding exactly half is
// neither majority nor minority.
type State int

const (
	Minority State = iota
	Tie
	Majority
)

func (s State) String() string {
	switch s {
	case Majority:
		return "majority"
	case Tie:
		return "tie"
	}
	return "minority"
}

// Bloc is a named group of party codes.
type Bloc struct {
	Name    string
	Parties []string
}

// DefaultBlocs are the two traditional Swedish blocs.
var DefaultBlocs = []Bloc{
	{Name: "Alliansen", Parties: []string{"M", "C", "L", "KD"}},
	{Name: "Vänstern", Parties: []string{"S", "V"}},
}

// BlocResult is one bloc's standing in one unit and year.
type BlocResult struct {
	Bloc  string
	Held  float64
	Total float64
	State State
}

// ErrNoUnit is returned when the dataset has no rows for a unit and year.
var ErrNoUnit = errors.New("unit not in dataset")

// ErrNoSeatTotal is returned when a seat-based test has no seat total.
var ErrNoSeatTotal = errors.New("no seat total for unit")

func classify(held, total float64) State {
	switch {
	case held*2 > total:
		return Majority
	case held*2 == total:
		return Tie
	}
	return Minority
}

// MajorityHolder sums each bloc's seats (or vote share) in unit and reports
// whether it holds a majority of the unit's seats (or of 100 percent).
// Parties without a figure count as zero.
func MajorityHolder(ds *dataset.Dataset, unit string, year int, blocs []Bloc, basis Basis) ([]BlocResult, error) {
	rows := ds.RowsFor(year, unit)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %d: %w", unit, year, ErrNoUnit)
	}

	total := 100.0
	if basis == BySeats {
		seats, ok := seatTotal(ds, rows)
		if !ok {
			return nil, fmt.Errorf("%s %d: %w", unit, year, ErrNoSeatTotal)
		}
		total = float64(seats)
	}

	out := make([]BlocResult, 0, len(blocs))
	for _, b := range blocs {
		held := 0.0
		for _, r := range rows {
			if !lo.Contains(b.Parties, r.Party) {
				continue
			}
			held += value(r, basis)
		}
		out = append(out, BlocResult{Bloc: b.Name, Held: held, Total: total, State: classify(held, total)})
	}
	return out, nil
}

// seatTotal is the unit's seat count, from its rows or else its turnout row.
func seatTotal(ds *dataset.Dataset, rows []dataset.Row) (int, bool) {
	for _, r := range rows {
		if r.TotalSeatsInUnit != nil {
			return *r.TotalSeatsInUnit, true
		}
	}
	if t, ok := ds.TurnoutFor(rows[0].Unit, rows[0].Year); ok && t.SeatCount != nil {
		return *t.SeatCount, true
	}
	return 0, false
}

func value(r dataset.Row, basis Basis) float64 {
	if basis == ByShare {
		return lo.FromPtr(r.VoteShare)
	}
	return float64(lo.FromPtr(r.Seats))
}

// PartyMajority is a single party holding a majority on its own.
type PartyMajority struct {
	Unit  string
	Party string
	Held  float64
	Total float64
}

// MajorityParties returns, for year, every unit where one party alone holds
// more than half the seats (or more than 50 percent of the vote). Units
// without a seat total are skipped in a seat-based count.
func MajorityParties(ds *dataset.Dataset, year int, basis Basis) []PartyMajority {
	var out []PartyMajority
	for _, unit := range ds.Units(year) {
		rows := ds.RowsFor(year, unit)
		total := 100.0
		if basis == BySeats {
			seats, ok := seatTotal(ds, rows)
			if !ok {
				continue
			}
			total = float64(seats)
		}
		for _, r := range rows {
			if isSentinel(r.Party) {
				continue
			}
			if held := value(r, basis); classify(held, total) == Majority {
				out = append(out, PartyMajority{Unit: unit, Party: r.Party, Held: held, Total: total})
			}
		}
	}
	return out
}
