// Package formats defines the uniform adapter contract every CVR source
// format implements, and a registry mapping a jurisdiction's configured
// data_format string to the adapter that handles it.
package formats

import (
	"context"
	"fmt"

	"github.com/jihwankim/rcv-report-pipeline/pkg/model"
)

// Adapter reads a single contest's ballots out of a source-format bundle
// rooted at path. params carries the format-specific loader parameters
// declared in contest metadata (e.g. "cvr", "contest", "file").
type Adapter interface {
	Read(ctx context.Context, path string, params map[string]string) (model.Election, error)
}

// ContestParams identifies one contest within a batch read: its numeric
// id plus its adapter-specific loader parameters (the same parameters
// an equivalent Adapter.Read call would receive for that contest).
type ContestParams struct {
	ContestID int
	Params    map[string]string
}

// BatchAdapter is implemented by adapters whose source format stores
// every contest's ballots together in one shared file set, so reading
// it once for many contests is cheaper than once per contest. Only
// pkg/formats/nistsp1500 satisfies this today: a NIST SP 1500 export's
// CVR sessions list every contest on the ballot per session, so a
// single pass over the session files can distribute ballots to every
// requested contest at once.
type BatchAdapter interface {
	BatchRead(ctx context.Context, path string, contests []ContestParams) (map[int]model.Election, error)
}

// Registry resolves a data_format string to the Adapter that handles it.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register associates dataFormat with adapter. Registering the same
// dataFormat twice overwrites the previous binding.
func (r *Registry) Register(dataFormat string, adapter Adapter) {
	r.adapters[dataFormat] = adapter
}

// Get resolves dataFormat to its Adapter.
func (r *Registry) Get(dataFormat string) (Adapter, error) {
	a, ok := r.adapters[dataFormat]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for data_format %q", dataFormat)
	}
	return a, nil
}
