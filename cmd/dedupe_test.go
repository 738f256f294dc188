package cmd

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

func TestStripUnitAffixes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Region Skåne", "SKÅNE"},
		{"Skåne läns landsting", "SKÅNE"},
		{"Stockholms läns landsting", "STOCKHOLM"},
		{"Region Stockholm", "STOCKHOLM"},
		{"Stockholms län", "STOCKHOLM"},
		{"Kalmar län", "KALMAR"},
		{"Båstads kommun", "BÅSTAD"},
		{"Landstinget Gävleborg", "GÄVLEBORG"},
		// Case insensitive.
		{"region jönköping", "JÖNKÖPING"},
		// No affix.
		{"Båstad", "BÅSTAD"},
		// "LÄN" inside a name shouldn't be stripped.
		{"Ölänningen", "ÖLÄNNINGEN"},
	}
	for _, tt := range tests {
		got := stripUnitAffixes(tt.input)
		if got != tt.want {
			t.Errorf("stripUnitAffixes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func unitRow(unit string, year int) dataset.Row {
	return dataset.Row{Unit: unit, Year: year, ElectionType: document.Regional, Party: "S"}
}

func TestFindDuplicates_NoOverlap(t *testing.T) {
	// "Skåne läns landsting" appears in 2006-2014, "Region Skåne" in 2018.
	rows := []dataset.Row{
		unitRow("Skåne läns landsting", 2006),
		unitRow("Skåne läns landsting", 2010),
		unitRow("Skåne läns landsting", 2014),
		unitRow("Region Skåne", 2018),
	}

	candidates := findDuplicates(rows)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	c := candidates[0]
	// Keeper should be the 2018 name.
	if c.nameA != "Region Skåne" {
		t.Errorf("nameA = %q, want Region Skåne", c.nameA)
	}
	if c.nameB != "Skåne läns landsting" {
		t.Errorf("nameB = %q, want Skåne läns landsting", c.nameB)
	}
	if !reflect.DeepEqual(c.yearsB, []int{2006, 2010, 2014}) {
		t.Errorf("yearsB = %v, want [2006 2010 2014]", c.yearsB)
	}
}

func TestFindDuplicates_WithOverlap(t *testing.T) {
	// Both names in the same cycle: distinct units.
	rows := []dataset.Row{
		unitRow("Region Halland", 2014),
		unitRow("Hallands län", 2014),
		unitRow("Region Halland", 2018),
	}

	candidates := findDuplicates(rows)
	if len(candidates) != 0 {
		t.Fatalf("got %d candidates, want 0 (overlapping units are distinct)", len(candidates))
	}
}

func TestRenameUnits(t *testing.T) {
	ds := dataset.New(document.Regional, []dataset.Row{
		unitRow("Skåne läns landsting", 2014),
		unitRow("Region Skåne", 2018),
	}, []dataset.TurnoutRow{
		{Unit: "Skåne läns landsting", Year: 2014, ElectionType: document.Regional},
	}, dataset.NewPartyDirectory(nil))

	applied := renameUnits(ds, map[string]string{"Skåne läns landsting": "Region Skåne"})
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if _, ok := ds.Lookup("Region Skåne", 2014, "S"); !ok {
		t.Error("renamed row not found under the kept name")
	}
	if ds.Turnout[0].Unit != "Region Skåne" {
		t.Errorf("turnout unit = %q, want Region Skåne", ds.Turnout[0].Unit)
	}
}

func TestPromptMerges(t *testing.T) {
	candidates := []duplicateCandidate{
		{nameA: "Region Skåne", nameB: "Skåne läns landsting", yearsA: []int{2018}, yearsB: []int{2014}},
		{nameA: "Region Halland", nameB: "Hallands läns landsting", yearsA: []int{2018}, yearsB: []int{2014}},
	}

	got := promptMerges(candidates, strings.NewReader("y\nn\n"), false)
	want := map[string]string{"Skåne läns landsting": "Region Skåne"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = promptMerges(candidates, strings.NewReader(""), true)
	if len(got) != 2 {
		t.Errorf("accept all: got %d merges, want 2", len(got))
	}
}

func TestReorderArgs(t *testing.T) {
	got := reorderArgs([]string{"Båstad", "--type", "K", "--yes", "--pdf=out.pdf"})
	want := []string{"--type", "K", "--yes", "--pdf=out.pdf", "Båstad"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
