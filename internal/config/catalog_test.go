package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	assert.Equal(t, "classic", c.Template("").Name)
	assert.Equal(t, 42, c.Template("nope").Width)
	assert.Equal(t, byte('='), c.Template("wide").Separator)
	assert.Equal(t, "mono", c.Font("mono"))
	assert.Equal(t, "courier", c.Font("comic-sans"))
}

func TestLoadCatalogEmptyPathUsesDefaults(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), c)
}

func TestLoadCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	custom := &Catalog{
		DefaultFont:     "mono",
		DefaultTemplate: "tiny",
		Fonts:           []string{"mono"},
		Templates:       []TemplateSpec{{Name: "tiny", Width: 24, Separator: "*"}},
	}
	require.NoError(t, WriteCatalog(path, custom))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, custom, c)
	assert.Equal(t, byte('*'), c.Template("classic").Separator)
}

func TestLoadCatalogRejectsMissingDefaultTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "default_font: mono\ndefault_template: classic\nfonts: [mono]\ntemplates:\n  - name: wide\n    width: 48\n    separator: \"=\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadCatalog(path)
	assert.ErrorContains(t, err, "default template")
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: StorageDriverMemory},
		History: HistoryConfig{Key: "receipt_history", Capacity: 50},
		Export:  ExportConfig{Scale: 3, JPEGQuality: 90, PDFJPEGQuality: 95},
		Session: SessionConfig{TTL: 1},
	}
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Storage.Driver = "redis"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.History.Capacity = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Export.Scale = 0
	assert.Error(t, bad.Validate())
}
