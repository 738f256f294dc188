package metrics

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/extract"
)

func row(unit string, year int, party string, votes, seats, total int, share float64) dataset.Row {
	return dataset.Row{
		Unit:             unit,
		UnitCode:         unit,
		Year:             year,
		ElectionType:     document.Municipal,
		Party:            party,
		Votes:            lo.ToPtr(votes),
		Seats:            lo.ToPtr(seats),
		TotalSeatsInUnit: lo.ToPtr(total),
		VoteShare:        lo.ToPtr(share),
	}
}

func newDataset(rows []dataset.Row, turnout ...dataset.TurnoutRow) *dataset.Dataset {
	return dataset.New(document.Municipal, rows, turnout, dataset.NewPartyDirectory(nil))
}

var blocX = []Bloc{{Name: "X", Parties: []string{"X"}}}

// Party X with votes 100/150/200 and seats 5/5/6 of 10/10/12.
func threeCycles(lastTotal int) *dataset.Dataset {
	return newDataset([]dataset.Row{
		row("Båstad", 2010, "X", 100, 5, 10, 50),
		row("Båstad", 2014, "X", 150, 5, 10, 45),
		row("Båstad", 2018, "X", 200, 6, lastTotal, 55),
	})
}

func TestMajorityHolder_ThreeCycles(t *testing.T) {
	tests := []struct {
		name      string
		lastTotal int
		want      []State
	}{
		// Exactly half of the seats in every cycle.
		{"half each cycle", 12, []State{Tie, Tie, Tie}},
		{"six of eleven", 11, []State{Tie, Tie, Majority}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := threeCycles(tt.lastTotal)
			var got []State
			for _, year := range []int{2010, 2014, 2018} {
				res, err := MajorityHolder(ds, "Båstad", year, blocX, BySeats)
				require.NoError(t, err)
				require.Len(t, res, 1)
				got = append(got, res[0].State)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMajorityHolder_Blocs(t *testing.T) {
	ds := newDataset([]dataset.Row{
		row("Båstad", 2018, "M", 0, 8, 35, 22),
		row("Båstad", 2018, "C", 0, 4, 35, 11),
		row("Båstad", 2018, "L", 0, 3, 35, 8),
		row("Båstad", 2018, "KD", 0, 3, 35, 7),
		row("Båstad", 2018, "S", 0, 9, 35, 25),
		row("Båstad", 2018, extract.InvalidBlank, 40, 0, 35, 1),
	})

	res, err := MajorityHolder(ds, "Båstad", 2018, DefaultBlocs, BySeats)
	require.NoError(t, err)
	assert.Equal(t, []BlocResult{
		{Bloc: "Alliansen", Held: 18, Total: 35, State: Majority},
		{Bloc: "Vänstern", Held: 9, Total: 35, State: Minority},
	}, res)

	res, err = MajorityHolder(ds, "Båstad", 2018, DefaultBlocs, ByShare)
	require.NoError(t, err)
	assert.Equal(t, Minority, res[0].State, "48 percent")
	assert.Equal(t, 100.0, res[0].Total)
}

func TestMajorityHolder_Errors(t *testing.T) {
	_, err := MajorityHolder(threeCycles(12), "Malmö", 2018, blocX, BySeats)
	assert.ErrorIs(t, err, ErrNoUnit)

	noTotal := newDataset([]dataset.Row{{Unit: "Båstad", Year: 2018, ElectionType: document.Municipal, Party: "X", Seats: lo.ToPtr(3)}})
	_, err = MajorityHolder(noTotal, "Båstad", 2018, blocX, BySeats)
	assert.ErrorIs(t, err, ErrNoSeatTotal)

	// Falls back to the turnout table.
	withTurnout := newDataset(noTotal.Rows, dataset.TurnoutRow{Unit: "Båstad", Year: 2018, SeatCount: lo.ToPtr(5)})
	res, err := MajorityHolder(withTurnout, "Båstad", 2018, blocX, BySeats)
	require.NoError(t, err)
	assert.Equal(t, Majority, res[0].State)
}

func TestMajorityParties(t *testing.T) {
	ds := newDataset([]dataset.Row{
		row("Båstad", 2018, "S", 0, 20, 35, 55),
		row("Båstad", 2018, "M", 0, 15, 35, 40),
		row("Höör", 2018, "M", 0, 15, 31, 49),
		row("Höör", 2018, extract.InvalidOther, 0, 16, 31, 51),
	})

	assert.Equal(t, []PartyMajority{{Unit: "Båstad", Party: "S", Held: 20, Total: 35}}, MajorityParties(ds, 2018, BySeats))
	assert.Len(t, MajorityParties(ds, 2018, ByShare), 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "tie", Tie.String())
	assert.Equal(t, "majority", Majority.String())
	assert.Equal(t, "minority", Minority.String())
}

func TestDeltaBetweenCycles(t *testing.T) {
	ds := threeCycles(12)

	d := DeltaBetweenCycles(ds, "Båstad", "X", 2010, 2018, Votes)
	assert.Equal(t, Delta{From: 100, To: 200, Change: 100, Defined: true}, d)

	d = DeltaBetweenCycles(ds, "Båstad", "X", 2014, 2018, Seats)
	assert.Equal(t, 1.0, d.Change)

	d = DeltaBetweenCycles(ds, "Båstad", "X", 2010, 2014, Share)
	assert.True(t, d.Defined)
	assert.InDelta(t, -5.0, d.Change, 1e-9)

	// A party absent in one cycle counts as zero votes but has no share.
	d = DeltaBetweenCycles(ds, "Båstad", "X", 2006, 2010, Votes)
	assert.Equal(t, Delta{From: 0, To: 100, Change: 100, Defined: true}, d)
	assert.False(t, DeltaBetweenCycles(ds, "Båstad", "X", 2006, 2010, Share).Defined)
}

func TestSeatTotals(t *testing.T) {
	ds := newDataset([]dataset.Row{
		row("Båstad", 2014, "S", 0, 9, 35, 25),
		row("Höör", 2014, "S", 0, 10, 31, 30),
		row("Båstad", 2018, "S", 0, 8, 35, 24),
		row("Höör", 2018, "S", 0, 9, 31, 28),
		row("Båstad", 2018, "SD", 0, 9, 35, 20),
		row("Höör", 2018, "SD", 0, 8, 31, 20),
		row("Höör", 2018, extract.InvalidBlank, 0, 3, 31, 1),
	})

	assert.Equal(t, []SeatTotal{
		{Party: "S", Seats: 17, Previous: 19, Change: -2},
		{Party: "SD", Seats: 17, Previous: 0, Change: 17},
	}, SeatTotals(ds, 2018, 2014))
}

func TestStrongestUnit(t *testing.T) {
	ds := newDataset([]dataset.Row{
		row("Östra Göinge", 2018, "C", 0, 0, 0, 12.5),
		row("Åstorp", 2018, "C", 0, 0, 0, 12.5),
		row("Ystad", 2018, "C", 0, 0, 0, 9),
		row("Ängelholm", 2018, "C", 0, 0, 0, 12.5),
	})

	got, ok := StrongestUnit(ds, "C", 2018)
	require.True(t, ok)
	// Swedish order puts Å before Ä before Ö.
	assert.Equal(t, Strongest{Unit: "Åstorp", Share: 12.5}, got)

	_, ok = StrongestUnit(ds, "C", 2014)
	assert.False(t, ok)
}

func TestSortUnits(t *testing.T) {
	units := []string{"Örebro", "Ängelholm", "Arboga", "Åre", "Zinkgruvan"}
	SortUnits(units)
	assert.Equal(t, []string{"Arboga", "Zinkgruvan", "Åre", "Ängelholm", "Örebro"}, units)
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 2.0, Threshold(1))
	assert.Equal(t, 2.0, Threshold(0))
	assert.Equal(t, 3.0, Threshold(2))
}

func TestThresholdEligible(t *testing.T) {
	ds := newDataset([]dataset.Row{
		row("Malmö", 2018, "KD", 0, 0, 0, 2.5),
		row("Båstad", 2018, "KD", 0, 0, 0, 2.5),
		row("Båstad", 2018, extract.InvalidBlank, 0, 0, 0, 1),
		row("Höör", 2018, "KD", 0, 0, 0, 5),
	})
	districts := []document.District{
		{Municipality: "Malmö", Code: "Malmö", Constituencies: 6},
		{Municipality: "Båstad", Code: "Båstad", Constituencies: 1},
	}

	assert.Equal(t, []Eligibility{
		{Unit: "Malmö", Party: "KD", Share: 2.5, Threshold: 3, Eligible: false},
		{Unit: "Båstad", Party: "KD", Share: 2.5, Threshold: 2, Eligible: true},
	}, ThresholdEligible(ds, 2018, districts))
}

func turnout(unit string, year, cast, eligible int, percent float64) dataset.TurnoutRow {
	return dataset.TurnoutRow{
		Unit:                unit,
		Year:                year,
		TotalVotesCast:      lo.ToPtr(cast),
		TotalEligibleVoters: lo.ToPtr(eligible),
		TurnoutPercent:      lo.ToPtr(percent),
	}
}

func TestTurnoutDelta(t *testing.T) {
	ds := newDataset(nil,
		turnout("Båstad", 2014, 8000, 10000, 80),
		turnout("Båstad", 2018, 8500, 10000, 85),
		turnout("Höör", 2018, 100, 200, 50),
	)
	got := TurnoutDelta(ds, 2018, 2014)
	require.Len(t, got, 1)
	assert.Equal(t, "Båstad", got[0].Unit)
	assert.InDelta(t, 5.0, got[0].Change, 1e-9)
}

func TestNationalTurnout(t *testing.T) {
	ds := newDataset(nil,
		turnout("Båstad", 2018, 800, 1000, 80),
		turnout("Höör", 2018, 100, 1000, 10),
	)
	got, ok := NationalTurnout(ds, 2018)
	require.True(t, ok)
	assert.InDelta(t, 45.0, got, 1e-9)

	_, ok = NationalTurnout(ds, 2014)
	assert.False(t, ok)
}
