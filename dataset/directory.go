package dataset

import (
	"encoding/json"
	"strings"

	"github.com/blevesearch/segment"

	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/extract"
)

// DirectoryRow is one party of one cycle's directory.
type DirectoryRow struct {
	Year         int                   `json:"year"`
	ElectionType document.ElectionType `json:"electionType"`
	Party        string                `json:"party"`
	DisplayLabel string                `json:"displayLabel"`
	Color        string                `json:"color,omitempty"`
}

// DefaultLabels override the labels printed in the files.
var DefaultLabels = map[string]string{
	"L": "Liberalerna (tidigare Folkpartiet)",
	"M": "Moderaterna",
}

// sentinelLabels name the pseudo-parties, which have no directory entry.
var sentinelLabels = map[string]string{
	extract.OtherMinorParties: "Övriga partier",
	extract.InvalidBlank:      "Blanka röster",
	extract.InvalidOther:      "Övriga ogiltiga röster",
}

type directoryKey struct {
	year  int
	t     document.ElectionType
	party string
}

// PartyDirectory maps (year, type, party) to a display label. It is
// immutable once built.
type PartyDirectory struct {
	rows  []DirectoryRow
	index map[directoryKey]int
}

// NewPartyDirectory indexes rows; the first row of a key wins.
func NewPartyDirectory(rows []DirectoryRow) PartyDirectory {
	p := PartyDirectory{index: make(map[directoryKey]int, len(rows))}
	for _, r := range rows {
		k := directoryKey{r.Year, r.ElectionType, r.Party}
		if _, ok := p.index[k]; ok {
			continue
		}
		p.index[k] = len(p.rows)
		p.rows = append(p.rows, r)
	}
	return p
}

// Rows returns a copy of the directory table.
func (p PartyDirectory) Rows() []DirectoryRow {
	return append([]DirectoryRow(nil), p.rows...)
}

// Label returns the display label of party. Pseudo-parties get a fixed label.
func (p PartyDirectory) Label(year int, t document.ElectionType, party string) (string, bool) {
	if i, ok := p.index[directoryKey{year, t, party}]; ok {
		return p.rows[i].DisplayLabel, true
	}
	if l, ok := sentinelLabels[party]; ok {
		return l, true
	}
	return "", false
}

// Search returns the parties of (year, t) whose label has a word containing
// every word of query, case-insensitively. Searching "vård" finds
// "Sjukvårdspartiet".
func (p PartyDirectory) Search(year int, t document.ElectionType, query string) []DirectoryRow {
	terms := words(query)
	if len(terms) == 0 {
		return nil
	}
	var out []DirectoryRow
	for _, r := range p.rows {
		if r.Year != year || r.ElectionType != t {
			continue
		}
		if matchesAll(words(r.DisplayLabel), terms) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(labelWords, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, w := range labelWords {
			if strings.Contains(w, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// words splits s into lower-cased words, dropping spaces and punctuation.
func words(s string) []string {
	seg := segment.NewWordSegmenter(strings.NewReader(s))
	var out []string
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		out = append(out, strings.ToLower(seg.Text()))
	}
	return out
}

func (p PartyDirectory) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.rows)
}

func (p *PartyDirectory) UnmarshalJSON(data []byte) error {
	var rows []DirectoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	*p = NewPartyDirectory(rows)
	return nil
}

// directoryRows turns a document's directory into rows for (year, t),
// applying label overrides.
func directoryRows(entries []extract.DirectoryEntry, year int, t document.ElectionType, labels map[string]string) []DirectoryRow {
	out := make([]DirectoryRow, 0, len(entries))
	for _, e := range entries {
		label := e.Label
		if l, ok := labels[e.Code]; ok {
			label = l
		}
		out = append(out, DirectoryRow{
			Year:         year,
			ElectionType: t,
			Party:        e.Code,
			DisplayLabel: label,
			Color:        e.Color,
		})
	}
	return out
}
