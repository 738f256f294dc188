package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zalepa/valdata/document"
)

// Record is one (unit, party) result flattened out of a document.
type Record struct {
	Unit     string
	UnitCode string
	Party    PartyIdentity
	Counts   document.Counts
}

// TurnoutRecord is the turnout of one unit. The embedded Turnout is zero when
// the unit had no VALDELTAGANDE element.
type TurnoutRecord struct {
	Unit      string
	UnitCode  string
	SeatCount *int
	document.Turnout
}

// DirectoryEntry is one party of a document's directory, alias-resolved.
type DirectoryEntry struct {
	Code  string
	Label string
	Color string
}

type category int

const (
	categoryUnknown category = iota
	categoryParty
	categoryMinor
	categorySpoiled
)

// categories partitions the party-level tags.
var categories = map[string]category{
	"GILTIGA":        categoryParty,
	"ÖVRIGA_GILTIGA": categoryMinor,
	"OGILTIGA":       categorySpoiled,
}

// Extractor flattens documents into records. ItemiseMinor also emits the
// minor parties listed inside the aggregated-minor node as real parties, in
// addition to the OTHER_MINOR_PARTIES aggregate.
type Extractor struct {
	Aliases      Aliases
	ItemiseMinor bool
	Logger       *slog.Logger
}

// New returns an Extractor with the default aliases that itemises minor
// parties.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{Aliases: DefaultAliases, ItemiseMinor: true, Logger: logger}
}

func (x *Extractor) log() *slog.Logger {
	if x.Logger != nil {
		return x.Logger
	}
	return slog.Default()
}

// Classify maps a party-level entry to its identity. Retired party codes are
// resolved here so nothing downstream ever sees them. ok is false for tags
// outside the three known categories.
func (x *Extractor) Classify(e document.Entry) (id PartyIdentity, ok bool) {
	switch categories[e.Tag] {
	case categoryParty:
		return Real(x.Aliases.Resolve(e.Party)), true
	case categoryMinor:
		return Minor(), true
	case categorySpoiled:
		if e.Text == "" || strings.EqualFold(e.Text, "BLANK") {
			return Blank(), true
		}
		return Spoiled(e.Text), true
	}
	return PartyIdentity{}, false
}

// Node emits one record per party-level child of n.
func (x *Extractor) Node(n *document.GeoNode) []Record {
	for _, tag := range n.Skipped {
		x.log().Warn("skipping unknown child", "unit", n.Name, "level", n.Level.String(), "tag", tag)
	}

	var out []Record
	for _, e := range n.Entries {
		id, ok := x.Classify(e)
		if !ok {
			// Parse only fills Entries with known tags; nodes assembled by
			// hand can carry others.
			x.log().Warn("skipping unknown entry", "unit", n.Name, "tag", e.Tag)
			continue
		}
		out = append(out, record(n, id, e.Counts))

		if id.Kind != AggregatedMinor || !x.ItemiseMinor {
			continue
		}
		for _, nested := range e.Nested {
			nid, ok := x.Classify(nested)
			if !ok || nid.Kind != RealParty {
				continue
			}
			out = append(out, record(n, nid, nested.Counts))
		}
	}
	return out
}

func record(n *document.GeoNode, id PartyIdentity, c document.Counts) Record {
	return Record{Unit: n.Name, UnitCode: n.Code, Party: id, Counts: c}
}

// Document emits the records of every result-bearing unit of doc.
func (x *Extractor) Document(doc *document.ElectionDocument) ([]Record, error) {
	if _, ok := document.TraversalFor(doc.Type); !ok {
		return nil, fmt.Errorf("no traversal for election type %q", doc.Type)
	}
	var out []Record
	for _, n := range doc.Units() {
		out = append(out, x.Node(n)...)
	}
	return out, nil
}

// ExtractTurnout returns the turnout record of n.
func (x *Extractor) ExtractTurnout(n *document.GeoNode) TurnoutRecord {
	tr := TurnoutRecord{Unit: n.Name, UnitCode: n.Code, SeatCount: n.SeatCount}
	if n.Turnout != nil {
		tr.Turnout = *n.Turnout
	} else {
		x.log().Warn("unit has no turnout record", "unit", n.Name, "code", n.Code)
	}
	return tr
}

// Turnout emits one turnout record per result-bearing unit of doc,
// independent of the party pass.
func (x *Extractor) Turnout(doc *document.ElectionDocument) ([]TurnoutRecord, error) {
	if _, ok := document.TraversalFor(doc.Type); !ok {
		return nil, fmt.Errorf("no traversal for election type %q", doc.Type)
	}
	units := doc.Units()
	out := make([]TurnoutRecord, 0, len(units))
	for _, n := range units {
		out = append(out, x.ExtractTurnout(n))
	}
	return out, nil
}

// Directory returns the party directory of doc with codes alias-resolved.
// When a retired code and its successor both appear, the first one wins.
func (x *Extractor) Directory(doc *document.ElectionDocument) []DirectoryEntry {
	seen := make(map[string]bool, len(doc.Parties))
	var out []DirectoryEntry
	for _, p := range doc.Parties {
		code := x.Aliases.Resolve(p.Code)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, DirectoryEntry{Code: code, Label: p.Label, Color: p.Color})
	}
	return out
}
