// Package store writes built datasets to CSV, JSON and SQLite, and reads
// them back for the reporting commands.
package store

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

// RowHeader is the column order of the canonical table.
var RowHeader = []string{
	"unit", "unitCode", "year", "electionType", "party",
	"votes", "totalVotesInUnit", "voteShare", "seats", "totalSeatsInUnit",
}

// TurnoutHeader is the column order of the turnout table.
var TurnoutHeader = []string{
	"unit", "unitCode", "year", "electionType",
	"totalVotesCast", "totalVotesCastPrevious",
	"totalEligibleVoters", "totalEligibleVotersPrevious",
	"turnoutPercent", "turnoutPercentPrevious", "seatCount",
}

// DirectoryHeader is the column order of the party directory.
var DirectoryHeader = []string{"year", "electionType", "party", "displayLabel", "color"}

// DistrictHeader is the column order of the district table.
var DistrictHeader = []string{"municipality", "code", "constituencies", "pollingDistricts", "threshold"}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteRows writes the canonical table. Missing numbers are empty cells.
func WriteRows(w io.Writer, rows []dataset.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RowHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Unit, r.UnitCode, strconv.Itoa(r.Year), string(r.ElectionType), r.Party,
			formatInt(r.Votes), formatInt(r.TotalVotesInUnit), formatFloat(r.VoteShare),
			formatInt(r.Seats), formatInt(r.TotalSeatsInUnit),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTurnout writes the turnout table.
func WriteTurnout(w io.Writer, rows []dataset.TurnoutRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TurnoutHeader); err != nil {
		return err
	}
	for _, t := range rows {
		rec := []string{
			t.Unit, t.UnitCode, strconv.Itoa(t.Year), string(t.ElectionType),
			formatInt(t.TotalVotesCast), formatInt(t.TotalVotesCastPrevious),
			formatInt(t.TotalEligibleVoters), formatInt(t.TotalEligibleVotersPrevious),
			formatFloat(t.TurnoutPercent), formatFloat(t.TurnoutPercentPrevious),
			formatInt(t.SeatCount),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDirectory writes the party directory.
func WriteDirectory(w io.Writer, rows []dataset.DirectoryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DirectoryHeader); err != nil {
		return err
	}
	for _, d := range rows {
		rec := []string{strconv.Itoa(d.Year), string(d.ElectionType), d.Party, d.DisplayLabel, d.Color}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDistricts writes the municipal district table. threshold gives the
// percentage a party needs for a number of constituencies.
func WriteDistricts(w io.Writer, districts []document.District, threshold func(int) float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DistrictHeader); err != nil {
		return err
	}
	for _, d := range districts {
		rec := []string{
			d.Municipality, d.Code,
			strconv.Itoa(d.Constituencies), strconv.Itoa(d.PollingDistricts),
			strconv.FormatFloat(threshold(d.Constituencies), 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
