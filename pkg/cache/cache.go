// Package cache reads and writes the two on-disk artifacts the
// orchestrator caches between runs: a gzip-compressed JSON file for
// preprocessed ballots (normalized.json.gz) and a plain JSON file for
// reports (report.json), per spec §6's directory layout. The format of
// these files is not an external collaborator's concern here — spec §6
// pins both the path and the encoding, so this package is concretely
// gzip+JSON rather than a pluggable serializer interface.
package cache

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteJSON marshals v as indented JSON and writes it to path, creating
// parent directories as needed.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON unmarshals the JSON document at path into a value of type T.
func ReadJSON[T any](path string) (T, error) {
	var out T

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing %s: %w", path, err)
	}
	return out, nil
}

// WriteGzipJSON marshals v as JSON, gzip-compresses it, and writes it to
// path, creating parent directories as needed.
func WriteGzipJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory for %s: %w", path, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return fmt.Errorf("writing gzip %s: %w", path, err)
	}
	return gw.Close()
}

// ReadGzipJSON decompresses and unmarshals the gzip+JSON document at path
// into a value of type T.
func ReadGzipJSON[T any](path string) (T, error) {
	var out T

	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return out, fmt.Errorf("decompressing %s: %w", path, err)
	}
	defer gr.Close()

	dec := json.NewDecoder(gr)
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("parsing %s: %w", path, err)
	}
	return out, nil
}
