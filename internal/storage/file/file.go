package file

import (
	"bank-ledger/internal/models"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadInput decodes the simulation input at path.
func LoadInput(path string) (*models.Input, error) {
	const op = "file.LoadInput"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	var in models.Input
	if err := json.NewDecoder(f).Decode(&in); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, path, err)
	}
	return &in, nil
}

// SaveOutput writes entries as an indented JSON array. The file is written
// next to path first and renamed, so readers never see a partial result.
func SaveOutput(path string, entries []models.OutputEntry) error {
	const op = "file.SaveOutput"

	if entries == nil {
		entries = []models.OutputEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: close: %w", op, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: rename: %w", op, err)
	}
	return nil
}
