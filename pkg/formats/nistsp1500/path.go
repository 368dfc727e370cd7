package nistsp1500

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceKind classifies the resolved CVR source location.
type SourceKind int

const (
	SourceNotFound SourceKind = iota
	SourceDirectory
	SourceZip
)

// ResolveCvrPath applies the NIST adapter's path-resolution rules: "." as
// cvrName means the base path itself; a resolved path ending in ".zip"
// that doesn't exist falls back to the same path with the extension
// stripped, if that is a directory; and if the resolved path still
// doesn't exist but the base directory itself looks like a CVR bundle
// (it has CvrExport.json or CandidateManifest.json), the base path is
// used directly.
func ResolveCvrPath(basePath, cvrName string) string {
	var cvrPath string
	if cvrName == "." {
		cvrPath = basePath
	} else {
		cvrPath = filepath.Join(basePath, cvrName)
	}

	if strings.HasSuffix(cvrPath, ".zip") {
		if _, err := os.Stat(cvrPath); err != nil {
			dirPath := strings.TrimSuffix(cvrPath, ".zip")
			if info, err := os.Stat(dirPath); err == nil && info.IsDir() {
				cvrPath = dirPath
			}
		}
	}

	if _, err := os.Stat(cvrPath); err != nil {
		if info, err := os.Stat(basePath); err == nil && info.IsDir() {
			if fileExists(filepath.Join(basePath, "CvrExport.json")) || fileExists(filepath.Join(basePath, "CandidateManifest.json")) {
				cvrPath = basePath
			}
		}
	}

	return cvrPath
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DetectCvrSource classifies a resolved CVR path.
func DetectCvrSource(cvrPath string) SourceKind {
	info, err := os.Stat(cvrPath)
	if err != nil {
		return SourceNotFound
	}
	if info.IsDir() {
		return SourceDirectory
	}
	return SourceZip
}
