package receipts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	url, err := s.Save(context.Background(), "abc-123", "Ticket.PNG", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if url != "/receipts/abc-123.png" {
		t.Fatalf("unexpected url %q", url)
	}

	got, err := os.ReadFile(filepath.Join(dir, "abc-123.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}

	if string(got) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", got)
	}
}

func TestSaveRejectsEmptyData(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	if _, err := s.Save(context.Background(), "k", "a.png", nil); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestSaveKeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	url, err := s.Save(context.Background(), "../../etc/evil", "x.jpg", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if url != "/receipts/evil.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.jpg")); err != nil {
		t.Fatalf("expected file inside storage dir: %v", err)
	}
}
