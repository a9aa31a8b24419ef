package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestOpenFile(t *testing.T) {
	t.Run("with a directory", func(t *testing.T) {
		file, err := OpenFile(t.TempDir())
		if !errors.Is(err, syscall.EISDIR) {
			t.Fatal("unexpected error", err)
		}
		if file != nil {
			t.Fatal("expected nil file")
		}
	})

	t.Run("with a nonexistent file", func(t *testing.T) {
		file, err := OpenFile(filepath.Join(t.TempDir(), "nonexistent"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatal("unexpected error", err)
		}
		if file != nil {
			t.Fatal("expected nil file")
		}
	})
}

func TestWriteFileThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFile(path, []byte(`{"data": []}`)); err != nil {
		t.Fatal(err)
	}
	// overwriting must truncate
	if err := WriteFile(path, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	data, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{}` {
		t.Fatal("unexpected content", string(data))
	}
}

func TestResetDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Data")
	if err := os.MkdirAll(filepath.Join(dir, "Library", "Caches"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Library", "app.log"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ResetDir(dir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatal("expected an empty directory", entries)
	}
}
