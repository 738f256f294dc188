package chart

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// StampProperties adds document properties (e.g. "Source", "Cycles") to the
// PDF at path in place.
func StampProperties(path string, props map[string]string) error {
	if len(props) == 0 {
		return nil
	}
	if err := api.AddPropertiesFile(path, "", props, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("stamp %s: %w", path, err)
	}
	return nil
}
