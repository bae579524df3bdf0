package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testOptions(t *testing.T) []Option {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "exvids.db")
	return []Option{WithConfig(cfg), WithLogOutput(&bytes.Buffer{})}
}

func TestImportThenExport(t *testing.T) {
	opts := testOptions(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	data := `videos:
  - name: Squats
    url: https://www.youtube.com/watch?v=sq1
    notes: legs
  - name: Broken
    url: https://youtu.be/sq2
  - name: Squats again
    url: https://www.youtube.com/watch?v=sq1&t=5
`
	if err := os.WriteFile(in, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ImportFile(context.Background(), in, opts...)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.Added != 1 || res.Rejected != 1 || res.Duplicates != 1 {
		t.Errorf("result = %+v", res)
	}

	out := filepath.Join(dir, "out.yaml")
	n, err := ExportFile(context.Background(), out, opts...)
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if n != 1 {
		t.Errorf("exported %d, want 1", n)
	}
	exported, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name: Squats", "https://www.youtube.com/watch?v=sq1", "notes: legs"} {
		if !strings.Contains(string(exported), want) {
			t.Errorf("export missing %q:\n%s", want, exported)
		}
	}
}

func TestImportFile_Missing(t *testing.T) {
	if _, err := ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), testOptions(t)...); err == nil {
		t.Fatal("missing file should fail")
	}
}
