package chart

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want string
	}{
		{"rising", []float64{1, 2, 3, 4, 5, 6, 7, 8}, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{4, 4, 4}, "▅▅▅"},
		{"gap", []float64{1, math.NaN(), 8}, "▁ █"},
		{"empty", []float64{math.NaN(), math.NaN()}, "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.in))
		})
	}
}

func shareRow(unit string, year int, party string, votes, total int, share float64) dataset.Row {
	return dataset.Row{
		Unit: unit, Year: year, ElectionType: document.Municipal, Party: party,
		Votes: lo.ToPtr(votes), TotalVotesInUnit: lo.ToPtr(total), VoteShare: lo.ToPtr(share),
	}
}

func chartDataset() *dataset.Dataset {
	return dataset.New(document.Municipal, []dataset.Row{
		shareRow("Båstad", 2014, "S", 30, 100, 30),
		shareRow("Höör", 2014, "S", 10, 100, 10),
		shareRow("Båstad", 2018, "S", 25, 100, 25),
		shareRow("Höör", 2018, "S", 15, 100, 15),
		shareRow("Båstad", 2018, "SD", 20, 100, 20),
	}, nil, dataset.NewPartyDirectory([]dataset.DirectoryRow{
		{Year: 2018, ElectionType: document.Municipal, Party: "S", DisplayLabel: "Socialdemokraterna", Color: "#EE2020"},
	}))
}

func TestShares_Unit(t *testing.T) {
	got := Shares(chartDataset(), "Båstad", []int{2014, 2018}, nil)
	require.Len(t, got, 2)

	assert.Equal(t, "S", got[0].Party)
	assert.Equal(t, "Socialdemokraterna", got[0].Label)
	assert.Equal(t, "#EE2020", got[0].Color)
	assert.Equal(t, []float64{30, 25}, got[0].Values)

	assert.Equal(t, "SD", got[1].Label)
	assert.True(t, math.IsNaN(got[1].Values[0]))
	assert.Equal(t, 20.0, got[1].Latest())
}

func TestShares_AllUnits(t *testing.T) {
	got := Shares(chartDataset(), "", []int{2014, 2018}, []string{"S"})
	require.Len(t, got, 1)
	assert.Equal(t, []float64{20, 20}, got[0].Values)
}

func TestLatest(t *testing.T) {
	assert.Equal(t, 2.0, Series{Values: []float64{1, 2, math.NaN()}}.Latest())
	assert.True(t, math.IsNaN(Series{}.Latest()))
}

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#EE2020")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 0xEE, G: 0x20, B: 0x20, A: 255}, c)

	_, ok = parseHex("red")
	assert.False(t, ok)
}

func TestRenderShares(t *testing.T) {
	series := Shares(chartDataset(), "Båstad", []int{2014, 2018}, nil)

	var buf bytes.Buffer
	require.NoError(t, RenderShares(&buf, "Båstad – kommunval", []int{2014, 2018}, series))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, RenderShares(&buf, "tom", nil, series))
}
