package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id        TEXT PRIMARY KEY,
		election_type TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		run_id              TEXT NOT NULL REFERENCES runs(run_id),
		unit                TEXT NOT NULL,
		unit_code           TEXT NOT NULL,
		year                INTEGER NOT NULL,
		election_type       TEXT NOT NULL,
		party               TEXT NOT NULL,
		votes               INTEGER,
		total_votes_in_unit INTEGER,
		vote_share          REAL,
		seats               INTEGER,
		total_seats_in_unit INTEGER,
		PRIMARY KEY (run_id, unit, year, party, election_type)
	)`,
	`CREATE TABLE IF NOT EXISTS turnout (
		run_id                         TEXT NOT NULL REFERENCES runs(run_id),
		unit                           TEXT NOT NULL,
		unit_code                      TEXT NOT NULL,
		year                           INTEGER NOT NULL,
		election_type                  TEXT NOT NULL,
		total_votes_cast               INTEGER,
		total_votes_cast_previous      INTEGER,
		total_eligible_voters          INTEGER,
		total_eligible_voters_previous INTEGER,
		turnout_percent                REAL,
		turnout_percent_previous       REAL,
		seat_count                     INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS parties (
		run_id        TEXT NOT NULL REFERENCES runs(run_id),
		year          INTEGER NOT NULL,
		election_type TEXT NOT NULL,
		party         TEXT NOT NULL,
		display_label TEXT NOT NULL,
		color         TEXT NOT NULL
	)`,
}

var (
	resultColumns = []string{
		"unit", "unit_code", "year", "election_type", "party",
		"votes", "total_votes_in_unit", "vote_share", "seats", "total_seats_in_unit",
	}
	turnoutColumns = []string{
		"unit", "unit_code", "year", "election_type",
		"total_votes_cast", "total_votes_cast_previous",
		"total_eligible_voters", "total_eligible_voters_previous",
		"turnout_percent", "turnout_percent_previous", "seat_count",
	}
	partyColumns = []string{"year", "election_type", "party", "display_label", "color"}
)

// ErrNoRun is returned by Load when no dataset of a type was saved.
var ErrNoRun = errors.New("no saved run")

// SQLite keeps every saved dataset as a run. Load returns the most recent
// run of a type.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" works.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives as long as its one connection.
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Save writes ds as a new run and returns its id.
func (s *SQLite) Save(ds *dataset.Dataset) (uuid.UUID, error) {
	runID := uuid.New()
	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	_, err = squirrel.Insert("runs").
		Columns("run_id", "election_type", "created_at").
		Values(runID.String(), string(ds.Type), time.Now().UTC().Format(time.RFC3339Nano)).
		RunWith(tx).Exec()
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, r := range ds.Rows {
		_, err := squirrel.Insert("results").
			Columns(append([]string{"run_id"}, resultColumns...)...).
			Values(runID.String(), r.Unit, r.UnitCode, r.Year, string(r.ElectionType), r.Party,
				r.Votes, r.TotalVotesInUnit, r.VoteShare, r.Seats, r.TotalSeatsInUnit).
			RunWith(tx).Exec()
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert result %s %d %s: %w", r.Unit, r.Year, r.Party, err)
		}
	}

	for _, t := range ds.Turnout {
		_, err := squirrel.Insert("turnout").
			Columns(append([]string{"run_id"}, turnoutColumns...)...).
			Values(runID.String(), t.Unit, t.UnitCode, t.Year, string(t.ElectionType),
				t.TotalVotesCast, t.TotalVotesCastPrevious,
				t.TotalEligibleVoters, t.TotalEligibleVotersPrevious,
				t.TurnoutPercent, t.TurnoutPercentPrevious, t.SeatCount).
			RunWith(tx).Exec()
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert turnout %s %d: %w", t.Unit, t.Year, err)
		}
	}

	for _, p := range ds.Parties.Rows() {
		_, err := squirrel.Insert("parties").
			Columns(append([]string{"run_id"}, partyColumns...)...).
			Values(runID.String(), p.Year, string(p.ElectionType), p.Party, p.DisplayLabel, p.Color).
			RunWith(tx).Exec()
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert party %s: %w", p.Party, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

// LatestRun returns the id of the most recent run of t.
func (s *SQLite) LatestRun(t document.ElectionType) (uuid.UUID, error) {
	var id string
	err := squirrel.Select("run_id").From("runs").
		Where(squirrel.Eq{"election_type": string(t)}).
		OrderBy("rowid DESC").Limit(1).
		RunWith(s.db).QueryRow().Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("%s: %w", t, ErrNoRun)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

// Load reads the most recent run of t back into a Dataset.
func (s *SQLite) Load(t document.ElectionType) (*dataset.Dataset, error) {
	runID, err := s.LatestRun(t)
	if err != nil {
		return nil, err
	}
	byRun := squirrel.Eq{"run_id": runID.String()}

	rows, err := squirrel.Select(resultColumns...).From("results").
		Where(byRun).OrderBy("rowid").RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	defer rows.Close()
	var results []dataset.Row
	for rows.Next() {
		var r dataset.Row
		if err := rows.Scan(&r.Unit, &r.UnitCode, &r.Year, &r.ElectionType, &r.Party,
			&r.Votes, &r.TotalVotesInUnit, &r.VoteShare, &r.Seats, &r.TotalSeatsInUnit); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := squirrel.Select(turnoutColumns...).From("turnout").
		Where(byRun).OrderBy("rowid").RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("select turnout: %w", err)
	}
	defer trows.Close()
	var turnout []dataset.TurnoutRow
	for trows.Next() {
		var tr dataset.TurnoutRow
		if err := trows.Scan(&tr.Unit, &tr.UnitCode, &tr.Year, &tr.ElectionType,
			&tr.TotalVotesCast, &tr.TotalVotesCastPrevious,
			&tr.TotalEligibleVoters, &tr.TotalEligibleVotersPrevious,
			&tr.TurnoutPercent, &tr.TurnoutPercentPrevious, &tr.SeatCount); err != nil {
			return nil, err
		}
		turnout = append(turnout, tr)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	prows, err := squirrel.Select(partyColumns...).From("parties").
		Where(byRun).OrderBy("rowid").RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("select parties: %w", err)
	}
	defer prows.Close()
	var dir []dataset.DirectoryRow
	for prows.Next() {
		var d dataset.DirectoryRow
		if err := prows.Scan(&d.Year, &d.ElectionType, &d.Party, &d.DisplayLabel, &d.Color); err != nil {
			return nil, err
		}
		dir = append(dir, d)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	return dataset.New(t, results, turnout, dataset.NewPartyDirectory(dir)), nil
}
