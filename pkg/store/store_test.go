package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
)

func testRecord(id string, created time.Time) *Record {
	return &Record{
		ID:        id,
		CreatedAt: created,
		Items:     []layout.Item{{ID: "a", Width: 100, Height: 100}},
		Layout: layout.Layout{
			Width: 100, Height: 100, Columns: 1, Rows: 1,
			Blocks: []layout.Block{{ID: "a", Label: "a", ColSpan: 1, RowSpan: 1, Width: 100, Height: 100}},
		},
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := NewRecord([]layout.Item{{ID: "x", Width: 10, Height: 10}}, layout.Layout{Columns: 2})
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := ValidateID(rec.ID); err != nil {
				t.Errorf("NewRecord ID %q: %v", rec.ID, err)
			}

			got, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ID != rec.ID || got.Layout.Columns != 2 || len(got.Items) != 1 {
				t.Errorf("Get = %+v", got)
			}
			if !got.CreatedAt.Equal(rec.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
			}
		})
	}
}

func TestStoreSaveFillsID(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := &Record{Layout: layout.Layout{Columns: 1}}
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if rec.ID == "" || rec.CreatedAt.IsZero() {
				t.Errorf("Save did not fill record: %+v", rec)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	const missing = "6f1c1b7e-3c55-4a44-9c3e-0d7f7c5d2a10"
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, missing); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get error = %v, want NOT_FOUND", err)
			}
			if err := s.Delete(ctx, missing); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Delete error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{
		"00000000-0000-4000-8000-000000000001",
		"00000000-0000-4000-8000-000000000002",
		"00000000-0000-4000-8000-000000000003",
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range ids {
				if err := s.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			all, err := s.List(ctx, 0)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
				t.Errorf("List order = %v", recordIDs(all))
			}

			two, err := s.List(ctx, 2)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(two) != 2 || two[1].ID != ids[1] {
				t.Errorf("List(2) = %v", recordIDs(two))
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := testRecord("", time.Time{})
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get after Delete = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := testRecord("", time.Time{})
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.Layout.Columns = 99

	got, _ := s.Get(ctx, rec.ID)
	if got.Layout.Columns != 1 {
		t.Errorf("stored record changed with caller copy: columns = %d", got.Layout.Columns)
	}
}

func TestFileStoreSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), testRecord("", time.Time{})); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("List = %d records, want 1", len(recs))
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	err = s.Save(context.Background(), testRecord("../escape", time.Time{}))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save error = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Get(context.Background(), "../escape"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get error = %v, want NOT_FOUND", err)
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("NewMongoStore with empty URI succeeded")
	}
}

func recordIDs(recs []*Record) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}
