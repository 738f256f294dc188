package store

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

func sample() *dataset.Dataset {
	rows := []dataset.Row{
		{
			Unit: "Båstad", UnitCode: "1278", Year: 2014, ElectionType: document.Municipal, Party: "S",
			Votes: lo.ToPtr(1234), TotalVotesInUnit: lo.ToPtr(10000), VoteShare: lo.ToPtr(12.3),
			Seats: lo.ToPtr(5), TotalSeatsInUnit: lo.ToPtr(35),
		},
		{Unit: "Båstad", UnitCode: "1278", Year: 2018, ElectionType: document.Municipal, Party: "INVALID_BLANK", Votes: lo.ToPtr(40)},
	}
	turnout := []dataset.TurnoutRow{{
		Unit: "Båstad", UnitCode: "1278", Year: 2018, ElectionType: document.Municipal,
		TotalVotesCast: lo.ToPtr(10000), TotalEligibleVoters: lo.ToPtr(12000),
		TurnoutPercent: lo.ToPtr(83.3), SeatCount: lo.ToPtr(35),
	}}
	dir := dataset.NewPartyDirectory([]dataset.DirectoryRow{
		{Year: 2018, ElectionType: document.Municipal, Party: "SJVP", DisplayLabel: "Sjukvårdspartiet"},
	})
	return dataset.New(document.Municipal, rows, turnout, dir)
}

func TestWriteRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, sample().Rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(RowHeader, ","), lines[0])
	assert.Equal(t, "Båstad,1278,2014,K,S,1234,10000,12.3,5,35", lines[1])
	assert.Equal(t, "Båstad,1278,2018,K,INVALID_BLANK,40,,,,", lines[2])
}

func TestWriteTurnout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTurnout(&buf, sample().Turnout))
	assert.Contains(t, buf.String(), "Båstad,1278,2018,K,10000,,12000,,83.3,,35\n")
}

func TestWriteDirectory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDirectory(&buf, sample().Parties.Rows()))
	assert.Equal(t, "year,electionType,party,displayLabel,color\n2018,K,SJVP,Sjukvårdspartiet,\n", buf.String())
}

func TestWriteDistricts(t *testing.T) {
	var buf bytes.Buffer
	districts := []document.District{{Municipality: "Malmö", Code: "1280", Constituencies: 6, PollingDistricts: 220}}
	require.NoError(t, WriteDistricts(&buf, districts, func(n int) float64 { return 3 }))
	assert.Contains(t, buf.String(), "Malmö,1280,6,220,3\n")
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valresultat_K.json")
	ds := sample()
	require.NoError(t, WriteJSON(path, ds))

	got, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Rows, got.Rows)
	assert.Equal(t, ds.Turnout, got.Turnout)
	assert.Equal(t, ds.Parties.Rows(), got.Parties.Rows())

	row, ok := got.Lookup("Båstad", 2014, "S")
	require.True(t, ok)
	assert.Equal(t, 1234, *row.Votes)
}

func TestSQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Load(document.Municipal)
	assert.ErrorIs(t, err, ErrNoRun)

	first := sample()
	_, err = db.Save(first)
	require.NoError(t, err)

	second := sample()
	second.Rows[0].Votes = lo.ToPtr(1250)
	id, err := db.Save(second)
	require.NoError(t, err)

	latest, err := db.LatestRun(document.Municipal)
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	got, err := db.Load(document.Municipal)
	require.NoError(t, err)
	assert.Equal(t, second.Rows, got.Rows)
	assert.Equal(t, second.Turnout, got.Turnout)
	assert.Equal(t, second.Parties.Rows(), got.Parties.Rows())

	_, err = db.Load(document.Regional)
	assert.ErrorIs(t, err, ErrNoRun)
}
