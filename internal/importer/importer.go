// Package importer converts DKB online-banking CSV exports into Homebank
// import files.
//
// A conversion decodes the input charset, sniffs the CSV dialect, skips the
// banner lines up to the column header, classifies the export by its first
// line and maps every transaction row through a per-format Mapping.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputSuffix is appended to the input stem for batch output files.
const OutputSuffix = "-homebank.csv"

// FileInfo describes a CSV file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// OutputName returns the batch output file name for this input.
func (f FileInfo) OutputName() string {
	stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	return stem + OutputSuffix
}

// Scan returns the CSV exports in dir, skipping subdirectories and files
// that are themselves batch output.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, OutputSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
