package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "checkpoint.json")
	store := NewCheckpointStore(path, "covalent", true)

	if _, ok, err := store.Load("ar"); err != nil || ok {
		t.Fatalf("expected no checkpoint, got ok=%v err=%v", ok, err)
	}

	if err := store.Save("ar", 3, false); err != nil {
		t.Fatalf("save ar: %v", err)
	}
	if err := store.Save("alch", 0, true); err != nil {
		t.Fatalf("save alch: %v", err)
	}

	cp, ok, err := store.Load("ar")
	if err != nil || !ok {
		t.Fatalf("load ar: ok=%v err=%v", ok, err)
	}
	if cp.LastPage != 3 || cp.Complete {
		t.Fatalf("checkpoint mismatch: %+v", cp)
	}

	cp, ok, err = store.Load("alch")
	if err != nil || !ok || !cp.Complete {
		t.Fatalf("alch checkpoint mismatch: %+v ok=%v err=%v", cp, ok, err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind")
	}
}

func TestCheckpointOtherSourceIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := NewCheckpointStore(path, "covalent", true).Save("ar", 5, false); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := NewCheckpointStore(path, "chain", true)
	if _, ok, err := store.Load("ar"); err != nil || ok {
		t.Fatalf("expected no checkpoint for other source, ok=%v err=%v", ok, err)
	}
	if err := store.Save("ar", 1, false); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, _ := NewCheckpointStore(path, "covalent", true).Load("ar"); ok {
		t.Fatalf("covalent checkpoint should be replaced")
	}
}

func TestCheckpointDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, "covalent", false)
	if err := store.Save("ar", 1, false); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled store wrote a file")
	}
}

func TestRemoveCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := NewCheckpointStore(path, "covalent", true).Save("ar", 1, true); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := RemoveCheckpoint(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := RemoveCheckpoint(path); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("checkpoint not removed")
	}
}
