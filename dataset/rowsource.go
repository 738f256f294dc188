package dataset

import "github.com/zalepa/valdata/document"

// FieldMapping selects which side of a document's paired fields becomes the
// current value of a row.
type FieldMapping int

const (
	// CurrentFields reads RÖSTER, MANDAT, PROCENT.
	CurrentFields FieldMapping = iota
	// PreviousFields reads RÖSTER_FGVAL, MANDAT_FGVAL, PROCENT_FGVAL.
	PreviousFields
)

func (m FieldMapping) counts(c document.Counts) (votes, seats *int, share *float64) {
	if m == PreviousFields {
		return c.VotesPrevious, c.SeatsPrevious, c.SharePrevious
	}
	return c.Votes, c.Seats, c.Share
}

// turnout returns (cast, eligible, percent) and their previous-cycle
// counterparts. The previous side of a projection is unknown.
func (m FieldMapping) turnout(t document.Turnout) (cur, prev turnoutFigures) {
	if m == PreviousFields {
		return turnoutFigures{t.VotesCastPrevious, t.EligiblePrevious, t.PercentPrevious}, turnoutFigures{}
	}
	return turnoutFigures{t.VotesCast, t.Eligible, t.Percent},
		turnoutFigures{t.VotesCastPrevious, t.EligiblePrevious, t.PercentPrevious}
}

type turnoutFigures struct {
	cast     *int
	eligible *int
	percent  *float64
}

// RowSource is where one cycle's rows come from: either extracted from that
// cycle's own document, or projected from the following cycle's document.
type RowSource interface {
	Document() *document.ElectionDocument
	Fields() FieldMapping
}

// Extracted reads a cycle from its own document.
type Extracted struct {
	Doc *document.ElectionDocument
}

func (s Extracted) Document() *document.ElectionDocument { return s.Doc }
func (s Extracted) Fields() FieldMapping                  { return CurrentFields }

// Projected reads a cycle that has no document of its own from the
// previous-election fields of the next cycle's document.
type Projected struct {
	From    *document.ElectionDocument
	Mapping FieldMapping
}

func (s Projected) Document() *document.ElectionDocument { return s.From }
func (s Projected) Fields() FieldMapping                  { return s.Mapping }
