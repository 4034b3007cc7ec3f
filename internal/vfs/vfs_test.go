package vfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateThenOpenRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	want := []byte("hello, durable world")

	fo, err := Create(path, want)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer fo.Close()

	if fo.Size() != int64(len(want)) {
		t.Fatalf("Size() = %d, want %d", fo.Size(), len(want))
	}
	got, err := fo.Read(0, len(want))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("Read() = %q, want %q", got, want)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()
	got2, err := reopened.Read(0, len(want))
	if err != nil {
		t.Fatalf("Read after reopen: %v", err)
	}
	if string(got2) != string(want) {
		t.Fatalf("reopened Read() = %q, want %q", got2, want)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after Create")
	}
}

func TestReadAtOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	fo, err := Create(path, []byte("0123456789"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer fo.Close()

	got, err := fo.Read(3, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "3456" {
		t.Fatalf("Read(3,4) = %q, want 3456", got)
	}
}

func TestReadPastEndOfFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	fo, err := Create(path, []byte("short"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer fo.Close()

	if _, err := fo.Read(0, 100); err == nil {
		t.Fatalf("expected a read past EOF to fail")
	}
}

func TestOpenMissingFileFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected Open of a missing file to fail")
	}
}
