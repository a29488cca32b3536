package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalScannerFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.pine"), []byte("indicator(\"a\")"), 0644)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("not pine"), 0644)
	os.Mkdir(filepath.Join(dir, "sub"), 0755)
	os.WriteFile(filepath.Join(dir, "sub", "c.pine"), []byte("indicator(\"c\")"), 0644)

	s := NewLocalScanner([]string{".pine"})
	items, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Path > items[1].Path {
		t.Error("expected lexicographic order")
	}
}

func TestLocalScannerSkipsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, MaxFileBytes+1)
	os.WriteFile(filepath.Join(dir, "big.pine"), big, 0644)

	s := NewLocalScanner([]string{".pine"})
	items, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected oversized file to be skipped, got %+v", items)
	}
}

func TestWithinRootRejectsEscape(t *testing.T) {
	root := t.TempDir()
	ok, err := WithinRoot(root, filepath.Join(root, "..", "escape.pine"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected path escaping root to be rejected")
	}
}

func TestWithinRootAcceptsNested(t *testing.T) {
	root := t.TempDir()
	ok, err := WithinRoot(root, filepath.Join(root, "sub", "a.pine"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected nested path to be accepted")
	}
}
