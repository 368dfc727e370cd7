// Package metaload is a concrete jurisdiction-metadata reader: one
// jurisdiction.yaml file per subdirectory of a metadata root, unmarshaled
// with gopkg.in/yaml.v3 the same way the teacher's scenario/parser.Parser
// reads a scenario file. Spec §1/§6 treat the metadata bundle's format as
// an external collaborator's concern; this package exists so the
// pipeline has something concrete to load and test against end to end.
package metaload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// Load reads every <metaDir>/<name>/jurisdiction.yaml file and returns
// the parsed Jurisdictions, ordered by subdirectory name for a
// deterministic iteration order.
func Load(metaDir string) ([]model.Jurisdiction, error) {
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory %s: %w", metaDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	jurisdictions := make([]model.Jurisdiction, 0, len(names))
	for _, name := range names {
		path := filepath.Join(metaDir, name, "jurisdiction.yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var j model.Jurisdiction
		if err := yaml.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		jurisdictions = append(jurisdictions, j)
	}

	return jurisdictions, nil
}
