package dominionrcr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

// Reader implements the formats.Adapter contract for Dominion RCR files.
type Reader struct {
	log *telemetry.Logger
}

func NewReader(log *telemetry.Logger) *Reader {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Reader{log: log}
}

// Read expects params["file"] to name the RCR document, relative to path.
func (r *Reader) Read(ctx context.Context, path string, params map[string]string) (model.Election, error) {
	file, ok := params["file"]
	if !ok {
		return model.Election{}, fmt.Errorf("dominion_rcr elections require a file parameter")
	}
	content, err := os.ReadFile(filepath.Join(path, file))
	if err != nil {
		return model.Election{}, err
	}
	r.log.Debug("parsing dominion RCR file", "file", file)
	return ParseFile(string(content))
}
