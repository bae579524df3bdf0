package catalog

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/starford/exvids/internal/apperr"
	"github.com/starford/exvids/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "exvids-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, db *DB, name, videoID string) *models.Video {
	t.Helper()
	v, err := db.Create(context.Background(), models.Video{
		Name:    name,
		URL:     "https://www.youtube.com/watch?v=" + videoID,
		Notes:   "example",
		VideoID: videoID,
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return v
}

func names(vs []models.Video) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM videos`).Scan(&count); err != nil {
		t.Fatalf("videos table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM imports`).Scan(&count); err != nil {
		t.Fatalf("imports table missing: %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	created := mustCreate(t, db, "bedtime yoga", "6CueZ4zujMk")
	if created.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := db.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "bedtime yoga" || got.VideoID != "6CueZ4zujMk" || got.Notes != "example" {
		t.Errorf("got %+v", got)
	}
	if got.URL != "https://www.youtube.com/watch?v=6CueZ4zujMk" {
		t.Errorf("url = %q", got.URL)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestCreateDuplicateVideoID(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, "abc", "123")

	_, err := db.Create(context.Background(), models.Video{Name: "abc", URL: "https://www.youtube.com/watch?v=123", VideoID: "123"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	n, _ := db.Count(context.Background())
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestCreateConcurrentDuplicates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dups    int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.Create(ctx, models.Video{Name: "race", URL: "u", VideoID: "same"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, apperr.ErrAlreadyExists):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if created != 1 || dups != 7 {
		t.Errorf("created = %d, duplicates = %d", created, dups)
	}
}

func TestCreateEmptyVideoID(t *testing.T) {
	db := testDB(t)
	_, err := db.Create(context.Background(), models.Video{Name: "x", URL: "y"})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetByID(context.Background(), 10000)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrderedByName(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, "abc", "123")
	mustCreate(t, db, "AAA", "143")
	mustCreate(t, db, "lmn", "676")
	mustCreate(t, db, "erw", "125")

	got, err := db.ListOrderedByName(context.Background())
	if err != nil {
		t.Fatalf("ListOrderedByName: %v", err)
	}
	want := []string{"AAA", "abc", "erw", "lmn"}
	if g := names(got); len(g) != len(want) {
		t.Fatalf("names = %v, want %v", g, want)
	}
	for i, n := range names(got) {
		if n != want[i] {
			t.Errorf("names = %v, want %v", names(got), want)
			break
		}
	}
}

func TestListOrderedByName_Empty(t *testing.T) {
	db := testDB(t)
	got, err := db.ListOrderedByName(context.Background())
	if err != nil {
		t.Fatalf("ListOrderedByName: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestFilterByNameSubstring(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, "Morning Yoga", "1")
	mustCreate(t, db, "bedtime yoga", "2")
	mustCreate(t, db, "HIIT cardio", "3")

	tests := []struct {
		term string
		want []string
	}{
		{"yoga", []string{"bedtime yoga", "Morning Yoga"}},
		{"YOGA", []string{"bedtime yoga", "Morning Yoga"}},
		{"cardio", []string{"HIIT cardio"}},
		{"pilates", []string{}},
		{"%", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := db.FilterByNameSubstring(context.Background(), tt.term)
			if err != nil {
				t.Fatalf("FilterByNameSubstring: %v", err)
			}
			g := names(got)
			if len(g) != len(tt.want) {
				t.Fatalf("names = %v, want %v", g, tt.want)
			}
			for i := range g {
				if g[i] != tt.want[i] {
					t.Errorf("names = %v, want %v", g, tt.want)
					break
				}
			}
		})
	}
}

func TestImportLedger(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	cs, err := db.ImportChecksum(ctx, "a.yaml")
	if err != nil || cs != "" {
		t.Fatalf("ImportChecksum on unknown path = %q, %v", cs, err)
	}
	if err := db.MarkImported(ctx, "a.yaml", "c1"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if err := db.MarkImported(ctx, "a.yaml", "c2"); err != nil {
		t.Fatalf("MarkImported again: %v", err)
	}
	cs, _ = db.ImportChecksum(ctx, "a.yaml")
	if cs != "c2" {
		t.Errorf("checksum = %q, want c2", cs)
	}

	paths, err := db.ImportedPaths(ctx)
	if err != nil {
		t.Fatalf("ImportedPaths: %v", err)
	}
	if len(paths) != 1 || paths["a.yaml"] != "c2" {
		t.Errorf("paths = %v", paths)
	}

	if err := db.ForgetImport(ctx, "a.yaml"); err != nil {
		t.Fatalf("ForgetImport: %v", err)
	}
	cs, _ = db.ImportChecksum(ctx, "a.yaml")
	if cs != "" {
		t.Errorf("checksum after forget = %q", cs)
	}
}
