package document

import "fmt"

// ElectionType identifies which body an election document elects. The value
// is the one-letter code used in the authority's file names.
type ElectionType string

const (
	National  ElectionType = "R" // riksdag
	Regional  ElectionType = "L" // landsting/region
	Municipal ElectionType = "K" // kommun
)

// ElectionTypes lists all supported types in file-code order.
var ElectionTypes = []ElectionType{Municipal, Regional, National}

// ParseElectionType accepts a file code ("K") or a name ("municipal").
func ParseElectionType(s string) (ElectionType, error) {
	switch s {
	case "K", "k", "municipal":
		return Municipal, nil
	case "L", "l", "regional":
		return Regional, nil
	case "R", "r", "national":
		return National, nil
	}
	return "", fmt.Errorf("unknown election type %q", s)
}

func (t ElectionType) String() string {
	switch t {
	case National:
		return "national"
	case Regional:
		return "regional"
	case Municipal:
		return "municipal"
	}
	return string(t)
}

// CountStage is a tally stage of one cycle. The value doubles as the file
// name prefix.
type CountStage string

const (
	Preliminary   CountStage = "prelresultat"
	ElectionNight CountStage = "valnatt"
	Final         CountStage = "slutresultat"
)

// ParseCountStage accepts a file prefix or a short name.
func ParseCountStage(s string) (CountStage, error) {
	switch s {
	case "prelresultat", "preliminary":
		return Preliminary, nil
	case "valnatt", "election-night":
		return ElectionNight, nil
	case "slutresultat", "final":
		return Final, nil
	}
	return "", fmt.Errorf("unknown count stage %q", s)
}

// Level is the granularity of a GeoNode.
type Level int

const (
	Nation Level = iota
	Region
	Constituency
	Municipality
)

func (l Level) String() string {
	switch l {
	case Nation:
		return "nation"
	case Region:
		return "region"
	case Constituency:
		return "constituency"
	case Municipality:
		return "municipality"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Meta is what the caller declares about a document before parsing it.
type Meta struct {
	Type  ElectionType
	Year  int
	Stage CountStage
}

// ElectionDocument is one parsed results file. It owns its GeoNode tree.
type ElectionDocument struct {
	Meta
	Nation  *GeoNode
	Parties []PartyInfo
}

// PartyInfo is one root-level PARTI element: the party directory of the file.
type PartyInfo struct {
	Code  string
	Label string
	Color string
}

// GeoNode is a geographic unit. Entries holds the party-level children
// (GILTIGA, ÖVRIGA_GILTIGA, OGILTIGA) in document order.
type GeoNode struct {
	Level         Level
	Tag           string
	Name          string
	Code          string
	SeatCount     *int
	DistrictCount int
	Children      []*GeoNode
	Entries       []Entry
	Turnout       *Turnout

	// Skipped lists child tags the parser did not recognise.
	Skipped []string
}

// Entry is one party-level child of a GeoNode. Party is empty for the
// aggregated-minor node; Text carries the free-text reason of a spoiled
// ballot node. Nested holds itemised entries one level deeper (the minor
// parties inside ÖVRIGA_GILTIGA).
type Entry struct {
	Tag    string
	Party  string
	Text   string
	Counts Counts
	Nested []Entry
}

// Counts are the numeric attributes of an entry. A nil field means the
// source omitted it.
type Counts struct {
	Seats         *int
	SeatsPrevious *int
	Votes         *int
	VotesPrevious *int
	Share         *float64
	SharePrevious *float64
}

// Turnout is the VALDELTAGANDE sub-record of a GeoNode.
type Turnout struct {
	VotesCast         *int
	VotesCastPrevious *int
	Eligible          *int
	EligiblePrevious  *int
	Percent           *float64
	PercentPrevious   *float64
}

// Regions returns the region-level children of the nation.
func (d *ElectionDocument) Regions() []*GeoNode {
	return d.Nation.ChildrenAt(Region, nil)
}

// ChildrenAt returns the children at level whose tag is in tags. A nil tags
// slice matches every tag.
func (n *GeoNode) ChildrenAt(level Level, tags []string) []*GeoNode {
	var out []*GeoNode
	for _, c := range n.Children {
		if c.Level != level {
			continue
		}
		if tags != nil && !containsTag(tags, c.Tag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
