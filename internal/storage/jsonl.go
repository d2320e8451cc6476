package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"holderRaffle/internal/model"
)

// JsonlSnapshot appends snapshot records to a JSONL file.
// Paths ending in .zst are written as zstd frames.
type JsonlSnapshot struct {
	path string
	mu   sync.Mutex
}

func NewJsonlSnapshot(path string) *JsonlSnapshot {
	return &JsonlSnapshot{path: path}
}

// PutSnapshotBatch appends a batch of records as JSON lines.
func (s *JsonlSnapshot) PutSnapshotBatch(records []model.SnapshotRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	var out io.Writer = file
	var encoder *zstd.Encoder
	if strings.HasSuffix(s.path, ".zst") {
		encoder, err = zstd.NewWriter(file)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		out = encoder
	}

	writer := bufio.NewWriter(out)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal snapshot record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write snapshot record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("close zstd writer: %w", err)
		}
	}

	return nil
}

// ReadSnapshot reads every record of a snapshot file.
func ReadSnapshot(path string) ([]model.SnapshotRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	var in io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer decoder.Close()
		in = decoder
	}

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []model.SnapshotRecord
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record model.SnapshotRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse snapshot line: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return records, nil
}
