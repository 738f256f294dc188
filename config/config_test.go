package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/valdata/document"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/xml_filer", cfg.DataDir)
	assert.Equal(t, []int{2006, 2010, 2014, 2018}, cfg.Years)
	assert.True(t, cfg.Dataset().ExcludeMinor)
	assert.False(t, cfg.ReviseFromNext)

	types, err := cfg.ElectionTypes()
	require.NoError(t, err)
	assert.Equal(t, []document.ElectionType{document.Municipal, document.Regional, document.National}, types)

	ds := cfg.Dataset()
	assert.Equal(t, document.Preliminary, ds.CurrentStage)
	assert.Equal(t, "L", ds.Aliases.Resolve("FP"))
}

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, `
data_dir: /srv/val
stage: slutresultat
years: [2014, 2018]
types: [K]
include_minor: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/val", cfg.DataDir)
	assert.Equal(t, []int{2014, 2018}, cfg.Years)
	assert.False(t, cfg.Dataset().ExcludeMinor)
	assert.Equal(t, document.Final, cfg.Dataset().CurrentStage)
	assert.Equal(t, "data/resultat", cfg.OutputDir, "unset keys keep their default")
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, "data_dir: /srv/val\n")
	t.Setenv("VALDATA_DATA_DIR", "/env/val")
	t.Setenv("VALDATA_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/val", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"stage":     "stage: nattresultat\n",
		"one year":  "years: [2018]\n",
		"type":      "types: [E]\n",
		"log level": "log_level: loud\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
