package metrics

import (
	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

// Threshold is the share, in percent, a party needs in a municipality to
// take part in seat allocation: 2 with a single constituency, 3 with more.
func Threshold(constituencies int) float64 {
	if constituencies > 1 {
		return 3
	}
	return 2
}

// Eligibility is one party's standing against its municipality's threshold.
type Eligibility struct {
	Unit      string
	Party     string
	Share     float64
	Threshold float64
	Eligible  bool
}

// ThresholdEligible checks every real party of year against the threshold
// of its municipality. Municipalities missing from districts and rows
// without a share are skipped.
func ThresholdEligible(ds *dataset.Dataset, year int, districts []document.District) []Eligibility {
	byCode := make(map[string]int, len(districts))
	for _, d := range districts {
		byCode[d.Code] = d.Constituencies
	}

	var out []Eligibility
	for _, r := range ds.Rows {
		if r.Year != year || r.VoteShare == nil || isSentinel(r.Party) {
			continue
		}
		n, ok := byCode[r.UnitCode]
		if !ok {
			continue
		}
		th := Threshold(n)
		out = append(out, Eligibility{
			Unit:      r.Unit,
			Party:     r.Party,
			Share:     *r.VoteShare,
			Threshold: th,
			Eligible:  *r.VoteShare >= th,
		})
	}
	return out
}
