package cmd

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
)

const malmoXML = `<VAL>
  <KOMMUN NAMN="Malmö" KOD="1280">
    <KRETS_KOMMUN NAMN="Malmö Norra" KOD="128001"><VALDISTRIKT NAMN="a" KOD="1"/></KRETS_KOMMUN>
    <KRETS_KOMMUN NAMN="Malmö Södra" KOD="128002"><VALDISTRIKT NAMN="b" KOD="2"/></KRETS_KOMMUN>
  </KOMMUN>
</VAL>`

func TestReadDistricts_OneStage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prelresultat_1280K.xml"), malmoXML)
	writeFile(t, filepath.Join(dir, "slutresultat_1280K.xml"), malmoXML)
	writeFile(t, filepath.Join(dir, "slutresultat_00K.xml"), bastadXML)

	got, err := readDistricts(dir, document.Final)
	if err != nil {
		t.Fatalf("readDistricts: %v", err)
	}
	want := []document.District{{Municipality: "Malmö", Code: "1280", Constituencies: 2, PollingDistricts: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := readDistricts(dir, document.ElectionNight); !errors.Is(err, errNoDistrictFiles) {
		t.Errorf("valnatt: err = %v, want errNoDistrictFiles", err)
	}
}

func TestNationalDistricts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "val_2018", "slutresultat_00K.xml"), bastadXML)

	got, err := nationalDistricts(dataset.DirSource(root), 2018, document.Final)
	if err != nil {
		t.Fatalf("nationalDistricts: %v", err)
	}
	want := []document.District{{Municipality: "Båstad", Code: "1278", Constituencies: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := nationalDistricts(dataset.DirSource(root), 2014, document.Final); err == nil {
		t.Error("missing file: expected error")
	}
}
