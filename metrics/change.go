package metrics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/extract"
)

// Metric selects a row figure.
type Metric int

const (
	Votes Metric = iota
	Seats
	Share
)

func (m Metric) String() string {
	switch m {
	case Seats:
		return "seats"
	case Share:
		return "share"
	}
	return "votes"
}

// Delta is a change between two cycles. Defined is false when either side
// has no share to compare.
type Delta struct {
	From, To float64
	Change   float64
	Defined  bool
}

// DeltaBetweenCycles returns party's change in unit from yearA to yearB.
// Missing votes and seats count as zero; a missing share leaves the delta
// undefined.
func DeltaBetweenCycles(ds *dataset.Dataset, unit, party string, yearA, yearB int, m Metric) Delta {
	a, okA := ds.Lookup(unit, yearA, party)
	b, okB := ds.Lookup(unit, yearB, party)

	if m == Share {
		if !okA || !okB || a.VoteShare == nil || b.VoteShare == nil {
			return Delta{}
		}
		return Delta{From: *a.VoteShare, To: *b.VoteShare, Change: *b.VoteShare - *a.VoteShare, Defined: true}
	}

	from := count(a, okA, m)
	to := count(b, okB, m)
	return Delta{From: from, To: to, Change: to - from, Defined: true}
}

func count(r *dataset.Row, ok bool, m Metric) float64 {
	if !ok {
		return 0
	}
	if m == Seats {
		return float64(lo.FromPtr(r.Seats))
	}
	return float64(lo.FromPtr(r.Votes))
}

func isSentinel(party string) bool {
	switch party {
	case extract.OtherMinorParties, extract.InvalidBlank, extract.InvalidOther:
		return true
	}
	return false
}

// SeatTotal is one party's summed seats in two cycles.
type SeatTotal struct {
	Party    string
	Seats    int
	Previous int
	Change   int
}

// SeatTotals sums each real party's seats over all units of year and
// compares them with compareYear. Parties missing from compareYear have
// zero previous seats.
func SeatTotals(ds *dataset.Dataset, year, compareYear int) []SeatTotal {
	sum := func(y int) map[string]int {
		out := make(map[string]int)
		for _, r := range ds.Rows {
			if r.Year != y || isSentinel(r.Party) {
				continue
			}
			out[r.Party] += lo.FromPtr(r.Seats)
		}
		return out
	}
	cur, prev := sum(year), sum(compareYear)

	out := make([]SeatTotal, 0, len(cur))
	for party, seats := range cur {
		out = append(out, SeatTotal{Party: party, Seats: seats, Previous: prev[party], Change: seats - prev[party]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seats != out[j].Seats {
			return out[i].Seats > out[j].Seats
		}
		return out[i].Party < out[j].Party
	})
	return out
}
