package inbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/exvids/internal/catalog"
	"github.com/starford/exvids/internal/storage"
	"github.com/starford/exvids/internal/testutil"
	"github.com/starford/exvids/internal/videoservice"
)

const batch = `videos:
  - name: bedtime yoga
    url: https://www.youtube.com/watch?v=6CueZ4zujMk
    notes: yoga for bedtime
  - name: morning stretch
    url: https://www.youtube.com/watch?v=abc123
  - name: not youtube
    url: https://github.com
  - name: ""
    url: https://www.youtube.com/watch?v=nameless
  - name: bedtime yoga again
    url: https://www.youtube.com/watch?v=6CueZ4zujMk&t=10
`

type env struct {
	root  string
	store *storage.FS
	db    *catalog.DB
	svc   *videoservice.Service
	im    *Importer
}

func testEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	db := testutil.TestDB(t)
	svc := videoservice.NewService(db, nil)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &env{
		root:  store.Root(),
		store: store,
		db:    db,
		svc:   svc,
		im:    NewImporter(svc, db, store, logger),
	}
}

func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestImport_CountsOutcomes(t *testing.T) {
	e := testEnv(t)
	res, err := e.im.Import(context.Background(), "batch", []byte(batch))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := Result{Added: 2, Duplicates: 1, Rejected: 1, Invalid: 1}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}
	n, _ := e.db.Count(context.Background())
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestImport_BadYAML(t *testing.T) {
	e := testEnv(t)
	if _, err := e.im.Import(context.Background(), "bad", []byte("videos: [::")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestImportFile_SkipsUnchanged(t *testing.T) {
	e := testEnv(t)
	ctx := context.Background()
	_ = e.store.Write("batch.yaml", []byte(batch))

	done, err := e.im.ImportFile(ctx, "batch.yaml")
	if err != nil || !done {
		t.Fatalf("first ImportFile = %v, %v", done, err)
	}
	done, err = e.im.ImportFile(ctx, "batch.yaml")
	if err != nil || done {
		t.Fatalf("second ImportFile = %v, %v; want skipped", done, err)
	}
	cs, _ := e.db.ImportChecksum(ctx, "batch.yaml")
	if cs != storage.Checksum([]byte(batch)) {
		t.Errorf("ledger checksum = %q", cs)
	}
}

func TestSync(t *testing.T) {
	e := testEnv(t)
	ctx := context.Background()
	_ = e.store.Write("one.yaml", []byte(batch))
	_ = e.store.Write("sub/two.yml", []byte("videos:\n  - name: plank\n    url: https://www.youtube.com/watch?v=plank1\n"))

	if err := e.im.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	n, _ := e.db.Count(ctx)
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	if err := os.Remove(filepath.Join(e.root, "one.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := e.im.Sync(ctx); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	paths, _ := e.db.ImportedPaths(ctx)
	if _, ok := paths["one.yaml"]; ok {
		t.Error("removed file should be forgotten")
	}
	if _, ok := paths["sub/two.yml"]; !ok {
		t.Errorf("sub/two.yml missing from ledger: %v", paths)
	}
	n, _ = e.db.Count(ctx)
	if n != 3 {
		t.Errorf("count after removal = %d, imported videos must stay", n)
	}
}

func TestExport(t *testing.T) {
	e := testEnv(t)
	ctx := context.Background()
	if _, err := e.im.Import(ctx, "batch", []byte(batch)); err != nil {
		t.Fatal(err)
	}
	videos, _ := e.svc.List(ctx, "")
	data, err := Export(videos)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "name: bedtime yoga") || !strings.Contains(out, "notes: yoga for bedtime") {
		t.Errorf("export = %s", out)
	}
	if strings.Contains(out, "video_id") {
		t.Errorf("export should not contain derived ids: %s", out)
	}

	other := testEnv(t)
	res, err := other.im.Import(ctx, "export", data)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if res.Added != 2 {
		t.Errorf("re-import added %d, want 2", res.Added)
	}
}

func TestWatch_NewFileImported(t *testing.T) {
	e := testEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go e.im.Watch(ctx, e.root)
	time.Sleep(100 * time.Millisecond)

	_ = e.store.Write("dropped.yaml", []byte(batch))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		n, _ := e.db.Count(context.Background())
		return n == 2
	}, "dropped file not imported by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := e.db.ImportChecksum(context.Background(), "dropped.yaml")
		return cs != ""
	}, "dropped file not recorded in ledger")
}

func TestWatch_RemoveForgetsFile(t *testing.T) {
	e := testEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = e.store.Write("gone.yaml", []byte(batch))
	if err := e.im.Sync(ctx); err != nil {
		t.Fatal(err)
	}

	go e.im.Watch(ctx, e.root)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(e.root, "gone.yaml"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := e.db.ImportChecksum(context.Background(), "gone.yaml")
		return cs == ""
	}, "removed file still in ledger")
}
