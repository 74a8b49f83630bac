package munit

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/core-tools/minit/pkg/errors"
)

const documentSeparator = "---"

var manifestExtensions = []string{".yaml", ".yml"}

// ScanDir loads every unit from the manifest files directly inside dir.
//
// Files are visited in lexicographic name order (os.ReadDir sorts entries),
// documents in the order they appear. The first failure aborts the scan and
// no units are returned.
func ScanDir(dir string) ([]Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError("failed to list unit directory", err).WithPath(dir)
	}

	var units []Unit
	for _, entry := range entries {
		if !isManifestName(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		// follow symlinks, only regular files are manifests
		info, err := os.Stat(path)
		if err != nil {
			if entry.Type()&fs.ModeSymlink != 0 && stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.NewIOError("failed to stat unit file", err).WithPath(path)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIOError("failed to read unit file", err).WithPath(path)
		}

		fileUnits, err := ParseManifest(path, data)
		if err != nil {
			return nil, err
		}
		units = append(units, fileUnits...)
	}

	return units, nil
}

// ParseManifest decodes the units of one manifest file. path is only used for error context.
// Errors carry the 1-based position of the failing chunk among the separator-delimited chunks.
func ParseManifest(path string, data []byte) ([]Unit, error) {
	var units []Unit
	for i, chunk := range splitDocuments(string(data)) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		unit, err := decodeUnit([]byte(chunk))
		if err != nil {
			return nil, asDomainError(err).WithPath(path).WithChunk(i + 1)
		}
		units = append(units, unit)
	}
	return units, nil
}

// splitDocuments cuts text at every line that consists of the document separator
func splitDocuments(text string) []string {
	var (
		chunks  []string
		current []string
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimRight(line, " \t\r") == documentSeparator {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	return append(chunks, strings.Join(current, "\n"))
}

func isManifestName(name string) bool {
	for _, ext := range manifestExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
