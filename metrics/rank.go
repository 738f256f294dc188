package metrics

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zalepa/valdata/dataset"
)

// Strongest is the unit where a party had its best share.
type Strongest struct {
	Unit  string
	Share float64
}

// StrongestUnit returns the unit where party had its highest vote share in
// year. Ties go to the unit whose name sorts first in Swedish order. ok is
// false when no row of party carries a share.
func StrongestUnit(ds *dataset.Dataset, party string, year int) (Strongest, bool) {
	col := collate.New(language.Swedish)

	var (
		best  Strongest
		found bool
	)
	for _, r := range ds.Rows {
		if r.Year != year || r.Party != party || r.VoteShare == nil {
			continue
		}
		share := *r.VoteShare
		switch {
		case !found, share > best.Share:
			best = Strongest{Unit: r.Unit, Share: share}
		case share == best.Share && col.CompareString(r.Unit, best.Unit) < 0:
			best.Unit = r.Unit
		}
		found = true
	}
	return best, found
}

// SortUnits sorts unit names in Swedish order, so Å, Ä and Ö come after Z.
func SortUnits(units []string) {
	collate.New(language.Swedish).SortStrings(units)
}
