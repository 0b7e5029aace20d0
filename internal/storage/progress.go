package storage

import "errors"

// ProgressFile records the watcher's position in the chain.
const ProgressFile = "watch_progress.json"

// Progress is the last processed position, enabling resumption after
// restarts without reprocessing pools.
type Progress struct {
	LastBlock uint64 `json:"lastBlock"`
}

// LoadProgress reads the saved position. A missing file yields zero progress.
func (d *Dir) LoadProgress() (Progress, error) {
	var p Progress
	err := d.ReadJSON(ProgressFile, &p)
	if errors.Is(err, ErrNotFound) {
		return Progress{}, nil
	}
	return p, err
}

// SaveProgress persists the position.
func (d *Dir) SaveProgress(p Progress) error {
	if p.LastBlock == 0 {
		return ErrInvalidInput
	}
	return d.WriteJSON(ProgressFile, p)
}
