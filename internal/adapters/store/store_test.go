package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

func sampleEntries(base time.Time) []*core.Entry {
	return []*core.Entry{
		{
			ID:        "a",
			Content:   "今天很开心 #工作",
			Tags:      []string{"工作"},
			CreatedAt: base,
			Analysis: &core.AnalysisResult{
				MoodType:       core.MoodPositive,
				EmotionScore:   80,
				ExtractedTags:  []string{"开心"},
				Reasoning:      "积极词汇",
				AnalysisMethod: core.MethodLLM,
				Confidence:     0.9,
				Timestamp:      base,
			},
		},
		{
			ID:         "b",
			Content:    "",
			ImagePaths: []string{"/photos/sunset.jpg"},
			CreatedAt:  base.Add(time.Hour),
		},
		{
			ID:        "c",
			Content:   "有点累",
			CreatedAt: base.Add(-time.Hour),
		},
	}
}

func exerciseRepository(t *testing.T, repo core.EntryRepository) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 30, 0, 123456000, time.Local)

	for _, e := range sampleEntries(base) {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("save %s: %v", e.ID, err)
		}
	}

	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "今天很开心 #工作" || len(got.Tags) != 1 || got.Tags[0] != "工作" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("created at changed: %v != %v", got.CreatedAt, base)
	}
	if got.Analysis == nil || got.Analysis.MoodType != core.MoodPositive || got.Analysis.EmotionScore != 80 ||
		got.Analysis.Confidence != 0.9 || !got.Analysis.Timestamp.Equal(base) {
		t.Fatalf("unexpected analysis: %+v", got.Analysis)
	}

	images, err := repo.Get(ctx, "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if images.Analysis != nil || images.MediaCategory() != core.MediaImage {
		t.Fatalf("unexpected image entry: %+v", images)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "b" || list[1].ID != "a" || list[2].ID != "c" {
		t.Fatalf("expected newest first, got %v", ids(list))
	}

	// replace
	updated := *got
	updated.Analysis = nil
	if err := repo.Save(ctx, &updated); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = repo.Get(ctx, "a")
	if got.Analysis != nil {
		t.Fatal("expected analysis to be cleared by replace")
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func ids(entries []*core.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exerciseRepository(t, NewMemoryStore(zap.NewNop()))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zap.NewNop())
	entry := &core.Entry{ID: "x", Content: "hi", Tags: []string{"t"}}
	if err := s.Save(ctx, entry); err != nil {
		t.Fatalf("save: %v", err)
	}
	entry.Tags[0] = "mutated"

	got, _ := s.Get(ctx, "x")
	if got.Tags[0] != "t" {
		t.Fatal("store shares memory with the caller")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "moodiary.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	exerciseRepository(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodiary.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, &core.Entry{ID: "persisted", Content: "记得", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "persisted"); err != nil {
		t.Fatalf("expected entry to survive reopen: %v", err)
	}
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("user:pw@tcp(localhost:3306)/moodiary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "parseTime=true"; !strings.Contains(dsn, want) {
		t.Fatalf("expected %q in %q", want, dsn)
	}

	if _, err := normalizeDSN("not a dsn"); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}
