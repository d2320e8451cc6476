package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"holderRaffle/internal/model"
)

func TestJsonlSnapshotAppend(t *testing.T) {
	for _, name := range []string{"snapshot.jsonl", "snapshot.jsonl.zst"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		sink := NewJsonlSnapshot(path)

		first := []model.SnapshotRecord{
			{Source: "covalent", Token: "ar", Address: "0x01", Balance: "12345678901234567890", FetchedAt: "2024-01-01T00:00:00Z"},
		}
		second := []model.SnapshotRecord{
			{Source: "covalent", Token: "alch", Address: "0x02", Balance: "7", FetchedAt: "2024-01-01T00:00:01Z"},
		}
		if err := sink.PutSnapshotBatch(first); err != nil {
			t.Fatalf("%s: put first: %v", name, err)
		}
		if err := sink.PutSnapshotBatch(second); err != nil {
			t.Fatalf("%s: put second: %v", name, err)
		}
		if err := sink.PutSnapshotBatch(nil); err != nil {
			t.Fatalf("%s: put empty: %v", name, err)
		}

		got, err := ReadSnapshot(path)
		if err != nil {
			t.Fatalf("%s: read: %v", name, err)
		}
		want := append(append([]model.SnapshotRecord{}, first...), second...)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: records mismatch: %+v != %+v", name, got, want)
		}
	}
}
