// Package storage is the flat-file hand-off layer between pipeline stages.
// Every artifact is a JSON or CSV file under one data directory, so each
// stage can also be run and inspected on its own.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Data directory file names.
const (
	TrendingFile  = "trending_tokens.json"
	BlacklistFile = "blacklist.json"
	LegendsFile   = "legends.json"
	LegendsCSV    = "legends.csv"
	VerifiedFile  = "verified_wallets.json"
	ActiveFile    = "active_traders.json"
	ReportFile    = "RUN_REPORT.md"
)

// Dir addresses artifacts inside one data directory.
type Dir struct {
	root string
}

// NewDir creates the data directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Path returns the absolute path of a named artifact.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// ReadJSON decodes a named artifact into v.
func (d *Dir) ReadJSON(name string, v interface{}) error {
	raw, err := os.ReadFile(d.Path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// WriteJSON encodes v into a named artifact, atomically via rename.
func (d *Dir) WriteJSON(name string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return d.WriteFile(name, raw)
}

// WriteFile writes raw bytes into a named artifact, atomically via rename.
func (d *Dir) WriteFile(name string, raw []byte) error {
	tmp := d.Path(name) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmp, d.Path(name))
}
