package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/summariser/internal/bedrock"
)

const (
	ChunkSize = 4800
	MaxChunks = 4

	chunkSeparator = " "

	systemPrompt = "You are a helpful assistant.\n" +
		"Summarize the following passage in exactly five short bullet points.\n" +
		"Each point should describe a key event or idea.\n" +
		"Only return five bullets. Do not continue the story."
)

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, model bedrock.Model, prompt bedrock.Prompt) (string, error)
}

// Cache stores final summaries. Implementations may be nil-safe no-ops.
type Cache interface {
	Get(ctx context.Context, modelID, text string) (string, bool, error)
	Set(ctx context.Context, modelID, text, summary string) error
}

type Result struct {
	Summary string
	// Chunks is the number of chunks that reached the model.
	Chunks    int
	Truncated bool
	Cached    bool
}

type Summarizer struct {
	gen   Generator
	cache Cache
}

// New builds a Summarizer. cache may be nil.
func New(gen Generator, cache Cache) *Summarizer {
	return &Summarizer{gen: gen, cache: cache}
}

// Summarize splits text into chunks, summarises each, then summarises the
// concatenated partial summaries. Calls run one after another; the first
// failure aborts the whole run.
func (s *Summarizer) Summarize(ctx context.Context, text string, model bedrock.Model) (Result, error) {
	if s.cache != nil {
		summary, ok, err := s.cache.Get(ctx, model.ID, text)
		if err != nil {
			slog.Warn("[Summarizer] Cache lookup failed, summarising anyway",
				slog.String("model_id", model.ID),
				slog.String("error", err.Error()))
		} else if ok {
			slog.Info("[Summarizer] Cache hit", slog.String("model_id", model.ID))
			return Result{Summary: summary, Cached: true}, nil
		}
	}

	chunks, truncated := SplitChunks(text, ChunkSize, MaxChunks)
	if truncated {
		slog.Warn("[Summarizer] Input exceeds chunk limit, trailing text dropped",
			slog.Int("input_chars", len([]rune(text))),
			slog.Int("used_chars", ChunkSize*MaxChunks),
			slog.Int("max_chunks", MaxChunks))
	}

	start := time.Now()
	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := s.summariseChunk(ctx, chunk, model)
		if err != nil {
			return Result{}, fmt.Errorf("summarise chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	summary, err := s.summariseChunk(ctx, strings.Join(partials, chunkSeparator), model)
	if err != nil {
		return Result{}, fmt.Errorf("summarise partial summaries: %w", err)
	}

	slog.Info("[Summarizer] Summary complete",
		slog.String("model_id", model.ID),
		slog.Int("chunks", len(chunks)),
		slog.Bool("truncated", truncated),
		slog.Duration("elapsed", time.Since(start)))

	if s.cache != nil {
		if err := s.cache.Set(ctx, model.ID, text, summary); err != nil {
			slog.Warn("[Summarizer] Failed to cache summary",
				slog.String("model_id", model.ID),
				slog.String("error", err.Error()))
		}
	}

	return Result{
		Summary:   summary,
		Chunks:    len(chunks),
		Truncated: truncated,
	}, nil
}

func (s *Summarizer) summariseChunk(ctx context.Context, text string, model bedrock.Model) (string, error) {
	return s.gen.Generate(ctx, model, bedrock.Prompt{
		System: systemPrompt,
		User:   text,
	})
}

// SplitChunks cuts text into pieces of at most size characters and keeps the
// first maxChunks of them. truncated reports whether anything was dropped. Empty
// text yields a single empty chunk.
func SplitChunks(text string, size, maxChunks int) (chunks []string, truncated bool) {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}, false
	}

	for start := 0; start < len(runes); start += size {
		if len(chunks) == maxChunks {
			return chunks, true
		}
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, false
}
