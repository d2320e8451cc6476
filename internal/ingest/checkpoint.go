package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint tracks fetch progress for one token.
type Checkpoint struct {
	LastPage  int    `json:"last_page"`
	Complete  bool   `json:"complete"`
	UpdatedAt string `json:"updated_at"`
}

type checkpointFile struct {
	Source string                `json:"source"`
	Tokens map[string]Checkpoint `json:"tokens"`
}

// CheckpointStore persists per-token checkpoints to disk.
// Checkpoints written by a different source are ignored.
type CheckpointStore struct {
	path    string
	source  string
	enabled bool
}

func NewCheckpointStore(path, source string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, source: source, enabled: enabled}
}

func (c *CheckpointStore) Load(token string) (Checkpoint, bool, error) {
	if !c.enabled {
		return Checkpoint{}, false, nil
	}

	file, err := c.read()
	if err != nil {
		return Checkpoint{}, false, err
	}
	if file.Source != c.source {
		return Checkpoint{}, false, nil
	}
	cp, ok := file.Tokens[token]
	return cp, ok, nil
}

func (c *CheckpointStore) Save(token string, lastPage int, complete bool) error {
	if !c.enabled {
		return nil
	}

	file, err := c.read()
	if err != nil {
		return err
	}
	if file.Source != c.source {
		file = checkpointFile{Source: c.source, Tokens: map[string]Checkpoint{}}
	}
	file.Tokens[token] = Checkpoint{
		LastPage:  lastPage,
		Complete:  complete,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// RemoveCheckpoint deletes the checkpoint file at path, if any.
func RemoveCheckpoint(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}

func (c *CheckpointStore) read() (checkpointFile, error) {
	empty := checkpointFile{Source: c.source, Tokens: map[string]Checkpoint{}}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return checkpointFile{}, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return checkpointFile{}, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return checkpointFile{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return checkpointFile{}, fmt.Errorf("parse checkpoint: %w", err)
	}
	if file.Tokens == nil {
		file.Tokens = map[string]Checkpoint{}
	}
	return file, nil
}
