package dataset

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/zalepa/valdata/document"
)

// Source hands out raw result files. Retrieval and unpacking of the
// authority's archives happen elsewhere.
type Source interface {
	Path(t document.ElectionType, year int, stage document.CountStage) string
	Open(t document.ElectionType, year int, stage document.CountStage) (io.ReadCloser, error)
}

// FileName is the authority's name for the national file of one type and
// stage, e.g. "slutresultat_00K.xml".
func FileName(t document.ElectionType, stage document.CountStage) string {
	return fmt.Sprintf("%s_00%s.xml", stage, string(t))
}

// FSSource reads files laid out as val_{year}/{stage}_00{type}.xml.
type FSSource struct {
	FS fs.FS
}

// DirSource is an FSSource rooted at dir.
func DirSource(dir string) FSSource {
	return FSSource{FS: os.DirFS(dir)}
}

func (s FSSource) Path(t document.ElectionType, year int, stage document.CountStage) string {
	return path.Join(fmt.Sprintf("val_%d", year), FileName(t, stage))
}

func (s FSSource) Open(t document.ElectionType, year int, stage document.CountStage) (io.ReadCloser, error) {
	return s.FS.Open(s.Path(t, year, stage))
}

// SourceError identifies the file a build failed on.
type SourceError struct {
	Type  document.ElectionType
	Year  int
	Stage document.CountStage
	Path  string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %d (%s) %s: %v", e.Type, e.Year, e.Stage, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
