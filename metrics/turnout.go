package metrics

import (
	"github.com/zalepa/valdata/dataset"
)

// TurnoutChange is a unit's turnout in two cycles.
type TurnoutChange struct {
	Unit    string
	Percent float64
	Change  float64
}

// TurnoutDelta returns the change in turnout percent per unit from
// compareYear to year. Units lacking either figure are left out.
func TurnoutDelta(ds *dataset.Dataset, year, compareYear int) []TurnoutChange {
	prev := make(map[string]float64)
	for _, t := range ds.Turnout {
		if t.Year == compareYear && t.TurnoutPercent != nil {
			prev[t.Unit] = *t.TurnoutPercent
		}
	}

	var out []TurnoutChange
	for _, t := range ds.Turnout {
		if t.Year != year || t.TurnoutPercent == nil {
			continue
		}
		p, ok := prev[t.Unit]
		if !ok {
			continue
		}
		out = append(out, TurnoutChange{Unit: t.Unit, Percent: *t.TurnoutPercent, Change: *t.TurnoutPercent - p})
	}
	return out
}

// NationalTurnout is total votes cast over total eligible voters across
// all units of year, in percent. ok is false when nothing is eligible.
func NationalTurnout(ds *dataset.Dataset, year int) (float64, bool) {
	var cast, eligible int
	for _, t := range ds.Turnout {
		if t.Year != year || t.TotalVotesCast == nil || t.TotalEligibleVoters == nil {
			continue
		}
		cast += *t.TotalVotesCast
		eligible += *t.TotalEligibleVoters
	}
	if eligible == 0 {
		return 0, false
	}
	return float64(cast) / float64(eligible) * 100, true
}
