package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrMalformedDocument is returned when a required container or attribute
// is missing or a numeric attribute cannot be read.
var ErrMalformedDocument = errors.New("malformed document")

// geoTags maps geographic element names to their level.
var geoTags = map[string]Level{
	"LÄN":             Region,
	"KRETS_RIKSDAG":   Constituency,
	"KRETS_LANDSTING": Constituency,
	"KOMMUN":          Municipality,
}

// EntryTags are the party-level element names.
var EntryTags = []string{"GILTIGA", "ÖVRIGA_GILTIGA", "OGILTIGA"}

// ignoredTags are known elements that carry nothing this package reads.
var ignoredTags = map[string]bool{
	"SAMMANFATTNING_VALDA": true,
	"VALDISTRIKT":          true,
	"HANDSKRIVNA":          true,
	"ÖVRIGA_FGVAL":         true,
}

// rawNode is a schema-free element tree; every child lands in Children.
type rawNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []rawNode  `xml:",any"`
}

func (n *rawNode) tag() string { return n.XMLName.Local }

func (n *rawNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// charsetReader lets encoding/xml read the authority's ISO-8859-1 files.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

func decode(r io.Reader) (*rawNode, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	var root rawNode
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// Parse reads one results file into an ElectionDocument. The file must have
// a NATION container under its root.
func Parse(r io.Reader, meta Meta) (*ElectionDocument, error) {
	root, err := decode(r)
	if err != nil {
		return nil, malformed("decode xml: %v", err)
	}

	doc := &ElectionDocument{Meta: meta}
	for i := range root.Children {
		c := &root.Children[i]
		switch c.tag() {
		case "PARTI":
			code := c.attr("FÖRKORTNING")
			if code == "" {
				return nil, malformed("PARTI missing FÖRKORTNING")
			}
			doc.Parties = append(doc.Parties, PartyInfo{
				Code:  code,
				Label: c.attr("BETECKNING"),
				Color: c.attr("FÄRG"),
			})
		case "NATION":
			if doc.Nation != nil {
				continue
			}
			nation, err := buildNode(c, Nation)
			if err != nil {
				return nil, err
			}
			doc.Nation = nation
		}
	}
	if doc.Nation == nil {
		return nil, malformed("no NATION container under <%s>", root.tag())
	}
	return doc, nil
}

func buildNode(raw *rawNode, level Level) (*GeoNode, error) {
	n := &GeoNode{
		Level: level,
		Tag:   raw.tag(),
		Name:  raw.attr("NAMN"),
		Code:  raw.attr("KOD"),
	}
	if level != Nation {
		if n.Name == "" {
			return nil, malformed("%s missing NAMN", n.Tag)
		}
		if n.Code == "" {
			return nil, malformed("%s %s missing KOD", n.Tag, n.Name)
		}
	}
	seats, err := ParseCount(raw.attr("MANDAT_VALOMRÅDE"))
	if err != nil {
		return nil, malformed("%s %s MANDAT_VALOMRÅDE: %v", n.Tag, n.Name, err)
	}
	n.SeatCount = seats

	for i := range raw.Children {
		c := &raw.Children[i]
		tag := c.tag()
		if lvl, ok := geoTags[tag]; ok {
			child, err := buildNode(c, lvl)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			continue
		}
		switch {
		case containsTag(EntryTags, tag):
			e, err := buildEntry(c)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", n.Tag, n.Name, err)
			}
			n.Entries = append(n.Entries, e)
		case tag == "VALDELTAGANDE":
			t, err := buildTurnout(c)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", n.Tag, n.Name, err)
			}
			n.Turnout = t
		case tag == "KRETS_KOMMUN":
			n.DistrictCount++
		case ignoredTags[tag]:
		default:
			n.Skipped = append(n.Skipped, tag)
		}
	}
	return n, nil
}

func buildEntry(raw *rawNode) (Entry, error) {
	e := Entry{
		Tag:   raw.tag(),
		Party: raw.attr("PARTI"),
		Text:  raw.attr("TEXT"),
	}
	if e.Tag == "GILTIGA" && e.Party == "" {
		return Entry{}, malformed("GILTIGA missing PARTI")
	}

	var err error
	fields := []struct {
		name  string
		count **int
		dec   **float64
	}{
		{name: "MANDAT", count: &e.Counts.Seats},
		{name: "MANDAT_FGVAL", count: &e.Counts.SeatsPrevious},
		{name: "RÖSTER", count: &e.Counts.Votes},
		{name: "RÖSTER_FGVAL", count: &e.Counts.VotesPrevious},
		{name: "PROCENT", dec: &e.Counts.Share},
		{name: "PROCENT_FGVAL", dec: &e.Counts.SharePrevious},
	}
	for _, f := range fields {
		if f.count != nil {
			*f.count, err = ParseCount(raw.attr(f.name))
		} else {
			*f.dec, err = ParseDecimal(raw.attr(f.name))
		}
		if err != nil {
			return Entry{}, malformed("%s %s %s: %v", e.Tag, e.Party, f.name, err)
		}
	}

	if e.Tag == "ÖVRIGA_GILTIGA" {
		for i := range raw.Children {
			c := &raw.Children[i]
			if c.tag() != "GILTIGA" {
				continue
			}
			nested, err := buildEntry(c)
			if err != nil {
				return Entry{}, err
			}
			e.Nested = append(e.Nested, nested)
		}
	}
	return e, nil
}

func buildTurnout(raw *rawNode) (*Turnout, error) {
	t := &Turnout{}
	var err error
	ints := []struct {
		name string
		dst  **int
	}{
		{"SUMMA_RÖSTER", &t.VotesCast},
		{"SUMMA_RÖSTER_FGVAL", &t.VotesCastPrevious},
		{"RÖSTBERÄTTIGADE_KLARA_VALDISTRIKT", &t.Eligible},
		{"RÖSTBERÄTTIGADE_KLARA_VALDISTRIKT_FGVAL", &t.EligiblePrevious},
	}
	for _, f := range ints {
		if *f.dst, err = ParseCount(raw.attr(f.name)); err != nil {
			return nil, malformed("VALDELTAGANDE %s: %v", f.name, err)
		}
	}
	if t.Percent, err = ParseDecimal(raw.attr("PROCENT")); err != nil {
		return nil, malformed("VALDELTAGANDE PROCENT: %v", err)
	}
	if t.PercentPrevious, err = ParseDecimal(raw.attr("PROCENT_FGVAL")); err != nil {
		return nil, malformed("VALDELTAGANDE PROCENT_FGVAL: %v", err)
	}
	return t, nil
}
