// Package chart draws vote-share trends, as PDF pages or terminal
// sparklines.
package chart

import (
	"math"
	"sort"
	"strings"

	"github.com/zalepa/valdata/dataset"
)

// Series is one party's vote share per cycle. Values align with the years
// passed to Shares; NaN marks a cycle without a share.
type Series struct {
	Party  string
	Label  string
	Color  string
	Values []float64
}

// Latest returns the last defined value, or NaN.
func (s Series) Latest() float64 {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.Values[i]) {
			return s.Values[i]
		}
	}
	return math.NaN()
}

// Shares builds one series per party over years. With an empty unit the
// share is taken over all units: summed votes over summed unit totals.
// Parties nil means every party present in the newest year.
func Shares(ds *dataset.Dataset, unit string, years []int, parties []string) []Series {
	if len(parties) == 0 && len(years) > 0 {
		seen := make(map[string]bool)
		for _, r := range ds.RowsFor(years[len(years)-1], unit) {
			if !seen[r.Party] {
				seen[r.Party] = true
				parties = append(parties, r.Party)
			}
		}
		sort.Strings(parties)
	}

	newest := 0
	if len(years) > 0 {
		newest = years[len(years)-1]
	}

	out := make([]Series, 0, len(parties))
	for _, p := range parties {
		s := Series{Party: p, Label: p, Values: make([]float64, len(years))}
		if l, ok := ds.Parties.Label(newest, ds.Type, p); ok {
			s.Label = l
		}
		s.Color = partyColor(ds, newest, p)
		for i, y := range years {
			s.Values[i] = share(ds, unit, y, p)
		}
		out = append(out, s)
	}
	return out
}

func partyColor(ds *dataset.Dataset, year int, party string) string {
	for _, d := range ds.Parties.Rows() {
		if d.Year == year && d.ElectionType == ds.Type && d.Party == party {
			return d.Color
		}
	}
	return ""
}

func share(ds *dataset.Dataset, unit string, year int, party string) float64 {
	if unit != "" {
		r, ok := ds.Lookup(unit, year, party)
		if !ok || r.VoteShare == nil {
			return math.NaN()
		}
		return *r.VoteShare
	}

	var votes, total int
	for _, r := range ds.Rows {
		if r.Year != year || r.Party != party || r.Votes == nil || r.TotalVotesInUnit == nil {
			continue
		}
		votes += *r.Votes
		total += *r.TotalVotesInUnit
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(votes) / float64(total) * 100
}

// Sparkline renders values as block characters, a blank for NaN.
func Sparkline(values []float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	n := len(blocks)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return strings.Repeat(" ", len(values))
	}

	spread := hi - lo
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := n / 2
		if spread > 0 {
			idx = int((v - lo) / spread * float64(n-1))
			if idx >= n {
				idx = n - 1
			}
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}
