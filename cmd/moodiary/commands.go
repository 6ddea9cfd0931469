package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/factory"
	"github.com/mikey/moodiary/internal/search"
	"github.com/mikey/moodiary/internal/stats"
	"github.com/mikey/moodiary/internal/strategy"
	"github.com/mikey/moodiary/internal/tags"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze the mood of a text without recording it",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, args, inputFile)
			if err != nil {
				return err
			}
			return opts.run(func(svc *core.JournalService) error {
				result, err := svc.Analyze(cmd.Context(), content)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the text from a file (default: arguments, then stdin)")
	return cmd
}

type batchItem struct {
	Index   int                  `json:"index"`
	Content string               `json:"content"`
	Result  *core.AnalysisResult `json:"result,omitempty"`
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze one text per input line",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd, inputFile)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return fmt.Errorf("%w: no input lines", core.ErrInvalidInput)
			}
			return opts.run(func(svc *core.JournalService) error {
				items := make([]batchItem, len(lines))
				for i, line := range lines {
					items[i] = batchItem{Index: i, Content: line}
				}
				for _, r := range svc.AnalyzeBatch(cmd.Context(), lines) {
					items[r.Index].Result = r.Result
				}
				return writeJSON(cmd.OutOrStdout(), items)
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read lines from a file (default: stdin)")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		inputFile string
		images    []string
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Record a journal entry and analyze it",
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if len(args) > 0 || inputFile != "" || len(images) == 0 {
				var err error
				if content, err = readContent(cmd, args, inputFile); err != nil {
					return err
				}
			}
			return opts.run(func(svc *core.JournalService) error {
				entry, err := svc.CreateEntry(cmd.Context(), content, images)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), entry)
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the entry text from a file")
	cmd.Flags().StringSliceVar(&images, "image", nil, "Attach an image path (repeatable)")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(svc *core.JournalService) error {
				entries, err := svc.ListEntries(cmd.Context())
				if err != nil {
					return err
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of entries (0 = all)")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(svc *core.JournalService) error {
				return svc.DeleteEntry(cmd.Context(), args[0])
			})
		},
	}
}

func newReanalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reanalyze",
		Short: "Re-run analysis over every recorded entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(svc *core.JournalService) error {
				updated, err := svc.ReanalyzeAll(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]int{"updated": updated})
			})
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		query     string
		mood      string
		timeRange string
		media     string
		minScore  int
		maxScore  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter recorded entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := search.Criteria{Query: query}

			r, err := search.ParseTimeRange(timeRange)
			if err != nil {
				return err
			}
			criteria.Range = r

			if mood != "" {
				m, ok := core.ParseMoodType(mood)
				if !ok {
					return fmt.Errorf("%w: unknown mood %q", core.ErrInvalidInput, mood)
				}
				criteria.Mood = m
			}

			switch core.MediaCategory(media) {
			case "", core.MediaText, core.MediaImage:
				criteria.Media = core.MediaCategory(media)
			default:
				return fmt.Errorf("%w: unknown media category %q", core.ErrInvalidInput, media)
			}

			if cmd.Flags().Changed("min-score") {
				criteria.MinScore = &minScore
			}
			if cmd.Flags().Changed("max-score") {
				criteria.MaxScore = &maxScore
			}

			return opts.run(func(svc *core.JournalService) error {
				entries, err := svc.ListEntries(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), search.Filter(entries, criteria))
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&query, "query", "q", "", "Match content or tags, ignoring case")
	flags.StringVar(&mood, "mood", "", "Mood type (positive, negative, neutral)")
	flags.StringVar(&timeRange, "range", "all", "Time range (all, today, week, month)")
	flags.StringVar(&media, "media", "", "Media category (text, image)")
	flags.IntVar(&minScore, "min-score", 0, "Minimum emotion score")
	flags.IntVar(&maxScore, "max-score", 100, "Maximum emotion score")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize moods, scores and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(svc *core.JournalService) error {
				entries, err := svc.ListEntries(cmd.Context())
				if err != nil {
					return err
				}
				if days > 0 {
					entries = stats.Since(entries, time.Now().AddDate(0, 0, -days))
				}
				return writeJSON(cmd.OutOrStdout(), stats.Summarize(entries))
			})
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "Only include the last N days (0 = all)")
	return cmd
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "tags [text]",
		Short: "Extract #tags and the display text of a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, args, inputFile)
			if err != nil {
				return err
			}
			return opts.run(func(extractor *tags.Extractor) error {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"tags":    extractor.Extract(content),
					"display": extractor.DisplayContent(content),
				})
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the text from a file")
	return cmd
}

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the model catalog of one or every provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(registry *factory.ProviderRegistry, cfg *config.Config) error {
				names := registry.Names()
				if len(args) == 1 {
					names = []string{args[0]}
				}

				apiKey := cfg.CurrentSettings().LLMAPIKey
				catalog := make(map[string][]core.LLMModelInfo, len(names))
				for _, name := range names {
					provider, ok := registry.Provider(name)
					if !ok {
						return fmt.Errorf("%w: unknown LLM provider %q", core.ErrConfiguration, name)
					}
					catalog[name] = provider.AvailableModels(cmd.Context(), apiKey)
				}
				return writeJSON(cmd.OutOrStdout(), catalog)
			})
		},
	}
}

type strategyStatus struct {
	Name            string `json:"name"`
	Method          string `json:"method"`
	Available       bool   `json:"available"`
	ConfigValid     bool   `json:"configValid"`
	RequiresNetwork bool   `json:"requiresNetwork"`
}

func newTestConnectionCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "test-connection",
		Short: "Probe the configured LLM provider and report strategy availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(selector *strategy.Selector, logger *zap.Logger) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()

				var statuses []strategyStatus
				llmValid := false
				for _, s := range selector.Strategies() {
					status := strategyStatus{
						Name:            s.Name(),
						Method:          string(s.Method()),
						Available:       s.IsAvailable(ctx),
						ConfigValid:     s.ValidateConfig(ctx),
						RequiresNetwork: s.RequiresNetwork(),
					}
					if s.Method() == core.MethodLLM {
						llmValid = status.ConfigValid
					}
					statuses = append(statuses, status)
				}
				sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })

				if err := writeJSON(cmd.OutOrStdout(), map[string]any{
					"mode":       selector.Mode(),
					"selected":   selector.Select(ctx).Name(),
					"strategies": statuses,
				}); err != nil {
					return err
				}
				if !llmValid {
					logger.Warn("LLM provider connection test failed")
					return fmt.Errorf("%w: LLM provider is not reachable", core.ErrProvider)
				}
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall probe timeout")
	return cmd
}

// readContent returns args joined by spaces, the contents of file, or stdin, in that order
func readContent(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	r, closeFn, err := openInput(cmd, file)
	if err != nil {
		return "", err
	}
	defer closeFn()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readLines returns the non-blank lines of file or stdin
func readLines(cmd *cobra.Command, file string) ([]string, error) {
	r, closeFn, err := openInput(cmd, file)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

func openInput(cmd *cobra.Command, file string) (io.Reader, func(), error) {
	if file == "" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
