package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reanalyzeChunkSize bounds how many entries share one batch request
const reanalyzeChunkSize = 10

// JournalService is the core service for recording and analyzing journal entries
type JournalService struct {
	repo     EntryRepository
	selector StrategySelector
	tags     TagExtractor
	logger   *zap.Logger
	now      func() time.Time
}

// NewJournalService creates a new journal service
func NewJournalService(
	repo EntryRepository,
	selector StrategySelector,
	tags TagExtractor,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		repo:     repo,
		selector: selector,
		tags:     tags,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateEntry records a new entry, extracting its tags and attaching an analysis.
// An entry needs text or at least one image.
func (s *JournalService) CreateEntry(ctx context.Context, content string, imagePaths []string) (*Entry, error) {
	if strings.TrimSpace(content) == "" && len(imagePaths) == 0 {
		return nil, fmt.Errorf("%w: entry has no content", ErrInvalidInput)
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		Content:    content,
		Tags:       s.tags.Extract(content),
		ImagePaths: imagePaths,
		CreatedAt:  s.now(),
	}
	entry.Analysis = s.analyze(ctx, content)

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	s.tags.Clear()

	s.logger.Info("Entry created",
		zap.String("id", entry.ID),
		zap.Strings("tags", entry.Tags),
		zap.Bool("analyzed", entry.Analysis != nil))

	return entry, nil
}

// GetEntry returns an entry by ID
func (s *JournalService) GetEntry(ctx context.Context, id string) (*Entry, error) {
	return s.repo.Get(ctx, id)
}

// ListEntries returns every entry, newest first
func (s *JournalService) ListEntries(ctx context.Context) ([]*Entry, error) {
	return s.repo.List(ctx)
}

// DeleteEntry removes an entry
func (s *JournalService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.tags.Clear()

	s.logger.Info("Entry deleted", zap.String("id", id))
	return nil
}

// ReanalyzeAll runs the current strategy over every stored entry and returns
// how many entries received a new analysis. Entries whose analysis fails keep
// their previous result.
func (s *JournalService) ReanalyzeAll(ctx context.Context) (int, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	strategy := s.selector.Select(ctx)
	updated := 0
	for start := 0; start < len(entries); start += reanalyzeChunkSize {
		end := min(start+reanalyzeChunkSize, len(entries))
		chunk := entries[start:end]

		contents := make([]string, len(chunk))
		for i, e := range chunk {
			contents[i] = e.Content
		}

		for _, r := range s.analyzeBatch(ctx, strategy, contents) {
			entry := chunk[r.Index]
			entry.Analysis = r.Result
			if err := s.repo.Save(ctx, entry); err != nil {
				return updated, fmt.Errorf("failed to save entry %s: %w", entry.ID, err)
			}
			updated++
		}
	}

	s.logger.Info("Re-analysis completed",
		zap.String("strategy", strategy.Name()),
		zap.Int("entries", len(entries)),
		zap.Int("updated", updated))

	return updated, nil
}

// Analyze scores content without recording it, falling back to the always-available
// strategy when the selected one fails
func (s *JournalService) Analyze(ctx context.Context, content string) (*AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}
	result := s.analyze(ctx, content)
	if result == nil {
		return nil, fmt.Errorf("%w: no strategy produced a result", ErrAnalysis)
	}
	return result, nil
}

// AnalyzeBatch scores several texts with the selected strategy. Items that fail
// are absent from the result.
func (s *JournalService) AnalyzeBatch(ctx context.Context, contents []string) []BatchResult {
	return s.analyzeBatch(ctx, s.selector.Select(ctx), contents)
}

// analyze runs the selected strategy and falls back to the always-available one
func (s *JournalService) analyze(ctx context.Context, content string) *AnalysisResult {
	strategy := s.selector.Select(ctx)
	result, err := strategy.Analyze(ctx, content)
	if err == nil {
		return result
	}

	fallback := s.selector.Fallback()
	if fallback == strategy {
		s.logger.Error("Analysis failed", zap.String("strategy", strategy.Name()), zap.Error(err))
		return nil
	}

	s.logger.Warn("Analysis failed, using fallback strategy",
		zap.String("strategy", strategy.Name()),
		zap.String("fallback", fallback.Name()),
		zap.Error(err))

	result, err = fallback.Analyze(ctx, content)
	if err != nil {
		s.logger.Error("Fallback analysis failed", zap.String("strategy", fallback.Name()), zap.Error(err))
		return nil
	}
	return result
}

func (s *JournalService) analyzeBatch(ctx context.Context, strategy AnalysisStrategy, contents []string) []BatchResult {
	if batcher, ok := strategy.(BatchAnalyzer); ok {
		return batcher.AnalyzeBatch(ctx, contents)
	}

	results := make([]BatchResult, 0, len(contents))
	for i, content := range contents {
		result, err := strategy.Analyze(ctx, content)
		if err != nil {
			s.logger.Warn("Skipping entry that failed analysis", zap.Int("index", i), zap.Error(err))
			continue
		}
		results = append(results, BatchResult{Index: i, Result: result})
	}
	return results
}
