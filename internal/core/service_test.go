package core_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mikey/moodiary/internal/adapters/store"
	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/tags"
	"go.uber.org/zap"
)

type stubStrategy struct {
	name   string
	method core.AnalysisMethod
	fail   func(content string) bool
	calls  int
}

func (s *stubStrategy) Analyze(ctx context.Context, content string) (*core.AnalysisResult, error) {
	s.calls++
	if s.fail != nil && s.fail(content) {
		return nil, &core.AnalysisError{Err: fmt.Errorf("%w: boom", core.ErrUpstreamUnavailable)}
	}
	return &core.AnalysisResult{
		MoodType:       core.MoodPositive,
		EmotionScore:   len([]rune(content)),
		ExtractedTags:  []string{},
		AnalysisMethod: s.method,
		Confidence:     0.8,
		Timestamp:      time.Now(),
	}, nil
}

func (s *stubStrategy) Name() string                            { return s.name }
func (s *stubStrategy) Description() string                     { return s.name }
func (s *stubStrategy) Method() core.AnalysisMethod             { return s.method }
func (s *stubStrategy) RequiresNetwork() bool                   { return false }
func (s *stubStrategy) IsAvailable(ctx context.Context) bool    { return true }
func (s *stubStrategy) RequiredConfigs() []string               { return nil }
func (s *stubStrategy) ValidateConfig(ctx context.Context) bool { return true }
func (s *stubStrategy) EstimatedDuration() time.Duration        { return 0 }
func (s *stubStrategy) ConfidenceBaseline() float64             { return 0.8 }

type stubSelector struct {
	selected core.AnalysisStrategy
	fallback core.AnalysisStrategy
}

func (s *stubSelector) Select(ctx context.Context) core.AnalysisStrategy { return s.selected }
func (s *stubSelector) Fallback() core.AnalysisStrategy                  { return s.fallback }

func newService(selected, fallback core.AnalysisStrategy) (*core.JournalService, *store.MemoryStore, *tags.Extractor) {
	repo := store.NewMemoryStore(zap.NewNop())
	extractor := tags.NewExtractor(0, zap.NewNop())
	svc := core.NewJournalService(repo, &stubSelector{selected: selected, fallback: fallback}, extractor, zap.NewNop())
	return svc, repo, extractor
}

func TestCreateEntry(t *testing.T) {
	llm := &stubStrategy{name: "llm", method: core.MethodLLM}
	rule := &stubStrategy{name: "rule", method: core.MethodRule}
	svc, repo, _ := newService(llm, rule)

	entry, err := svc.CreateEntry(context.Background(), "今天很开心 #工作 #happy", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", entry)
	}
	if len(entry.Tags) != 2 || entry.Tags[0] != "工作" || entry.Tags[1] != "happy" {
		t.Fatalf("unexpected tags: %v", entry.Tags)
	}
	if entry.Analysis == nil || entry.Analysis.AnalysisMethod != core.MethodLLM {
		t.Fatalf("expected LLM analysis, got %+v", entry.Analysis)
	}
	if rule.calls != 0 {
		t.Fatal("fallback must not run when the selected strategy succeeds")
	}

	stored, err := repo.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("entry not stored: %v", err)
	}
	if stored.Analysis == nil {
		t.Fatal("stored entry lost its analysis")
	}
}

func TestCreateEntryFallsBackToRule(t *testing.T) {
	llm := &stubStrategy{name: "llm", method: core.MethodLLM, fail: func(string) bool { return true }}
	rule := &stubStrategy{name: "rule", method: core.MethodRule}
	svc, _, _ := newService(llm, rule)

	entry, err := svc.CreateEntry(context.Background(), "有点累", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Analysis == nil || entry.Analysis.AnalysisMethod != core.MethodRule {
		t.Fatalf("expected rule fallback, got %+v", entry.Analysis)
	}
}

func TestCreateEntryKeepsEntryWhenAnalysisFails(t *testing.T) {
	rule := &stubStrategy{name: "rule", method: core.MethodRule, fail: func(string) bool { return true }}
	svc, _, _ := newService(rule, rule)

	entry, err := svc.CreateEntry(context.Background(), "text", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Analysis != nil {
		t.Fatal("expected no analysis")
	}
	if rule.calls != 1 {
		t.Fatalf("expected a single attempt when fallback is the selected strategy, got %d", rule.calls)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	rule := &stubStrategy{name: "rule", method: core.MethodRule}
	svc, _, _ := newService(rule, rule)

	if _, err := svc.CreateEntry(context.Background(), "   ", nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	entry, err := svc.CreateEntry(context.Background(), "", []string{"/tmp/a.jpg"})
	if err != nil {
		t.Fatalf("image-only entry should be accepted: %v", err)
	}
	if entry.MediaCategory() != core.MediaImage {
		t.Fatalf("unexpected media category: %s", entry.MediaCategory())
	}
}

func TestChangesClearTagCaches(t *testing.T) {
	rule := &stubStrategy{name: "rule", method: core.MethodRule}
	svc, _, extractor := newService(rule, rule)
	ctx := context.Background()

	extractor.Extract("#warm cache")
	entry, err := svc.CreateEntry(ctx, "新的一天 #开始", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tagsSize, displaySize := extractor.CacheSizes(); tagsSize != 0 || displaySize != 0 {
		t.Fatalf("expected caches cleared after create, got %d/%d", tagsSize, displaySize)
	}

	extractor.Extract("#warm cache")
	if err := svc.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tagsSize, _ := extractor.CacheSizes(); tagsSize != 0 {
		t.Fatal("expected caches cleared after delete")
	}

	if err := svc.DeleteEntry(ctx, entry.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReanalyzeAll(t *testing.T) {
	rule := &stubStrategy{name: "rule", method: core.MethodRule}
	svc, repo, _ := newService(rule, rule)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		if _, err := svc.CreateEntry(ctx, fmt.Sprintf("entry %d", i), nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	failing := &stubStrategy{name: "llm", method: core.MethodLLM, fail: func(c string) bool {
		return strings.HasSuffix(c, " 3")
	}}
	svc2 := core.NewJournalService(repo, &stubSelector{selected: failing, fallback: rule}, tags.NewExtractor(0, zap.NewNop()), zap.NewNop())

	updated, err := svc2.ReanalyzeAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 11 {
		t.Fatalf("expected 11 updated entries, got %d", updated)
	}

	entries, _ := svc2.ListEntries(ctx)
	for _, e := range entries {
		want := core.MethodLLM
		if e.Content == "entry 3" {
			want = core.MethodRule
		}
		if e.Analysis.AnalysisMethod != want {
			t.Fatalf("%s: expected %s analysis, got %s", e.Content, want, e.Analysis.AnalysisMethod)
		}
	}
}

func TestAnalyze(t *testing.T) {
	failing := &stubStrategy{name: "rule", method: core.MethodRule, fail: func(string) bool { return true }}
	svc, repo, _ := newService(failing, failing)
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Analyze(ctx, "text"); !errors.Is(err, core.ErrAnalysis) {
		t.Fatalf("expected ErrAnalysis, got %v", err)
	}

	entries, _ := repo.List(ctx)
	if len(entries) != 0 {
		t.Fatal("Analyze must not record entries")
	}
}

func TestAnalyzeBatchSkipsFailures(t *testing.T) {
	llm := &stubStrategy{name: "llm", method: core.MethodLLM, fail: func(c string) bool { return c == "bad" }}
	svc, _, _ := newService(llm, llm)

	results := svc.AnalyzeBatch(context.Background(), []string{"a", "bad", "ccc"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Index != 0 || results[1].Index != 2 {
		t.Fatalf("unexpected indices: %d, %d", results[0].Index, results[1].Index)
	}
	if results[1].Result.EmotionScore != 3 {
		t.Fatalf("unexpected score: %d", results[1].Result.EmotionScore)
	}
}
