package metaload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleYAML = `
path: springfield
name: City of Springfield
offices:
  mayor:
    name: Mayor
elections:
  - path: 2024-general
    name: 2024 General Election
    date: "2024-11-05"
    data_format: nist_sp_1500
    contests:
      - office: mayor
        normalizer: simple
        loader_params:
          cvr: "."
          contest: "5"
`

func writeJurisdiction(t *testing.T, metaDir, name, content string) {
	t.Helper()
	dir := filepath.Join(metaDir, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jurisdiction.yaml"), []byte(content), 0644))
}

func TestLoad_ParsesEachJurisdictionInSortedOrder(t *testing.T) {
	metaDir := t.TempDir()
	writeJurisdiction(t, metaDir, "zanesville", strings.Replace(exampleYAML, "path: springfield", "path: zanesville", 1))
	writeJurisdiction(t, metaDir, "springfield", exampleYAML)

	jurisdictions, err := Load(metaDir)
	require.NoError(t, err)
	require.Len(t, jurisdictions, 2)

	assert.Equal(t, "springfield", jurisdictions[0].Path)
	assert.Equal(t, "zanesville", jurisdictions[1].Path)
	assert.Equal(t, "Mayor", jurisdictions[0].Offices["mayor"].Name)
	require.Len(t, jurisdictions[0].Elections, 1)
	assert.Equal(t, "nist_sp_1500", jurisdictions[0].Elections[0].DataFormat)
}

func TestLoad_MissingDirectoryErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
